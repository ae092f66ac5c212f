package engine

import (
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"
)

// nextMatchID returns a fresh match identifier: a monotonic sequence number
// for ordering plus a random uuid suffix for uniqueness. Callers must hold
// e.mu.
func (e *Engine) nextMatchID() string {
	e.matchSeq++
	return fmt.Sprintf("%d-%s", e.matchSeq, uuid.NewString()[:8])
}

// nextTournamentID advances the keccak-256 hash chain seeded from the
// previous tournament's identifier. Callers must hold e.mu.
func (e *Engine) nextTournamentID() string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(e.lastTournamentID))
	e.lastTournamentID = hex.EncodeToString(h.Sum(nil))
	return e.lastTournamentID
}
