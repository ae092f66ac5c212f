package events

import (
	"encoding/json"
	"log"

	"github.com/avolkau/ringmaster/internal/domain"
)

// Subjects for lifecycle event fan-out.
const (
	SubjectMatchStarted        = "ringmaster.match.started"
	SubjectMatchEnded          = "ringmaster.match.ended"
	SubjectTournamentCompleted = "ringmaster.tournament.completed"
)

// MatchStarted is published when the game runtime reports a match start.
type MatchStarted struct {
	MatchID   string `json:"matchId"`
	Timestamp int64  `json:"timestamp"`
}

// MatchEnded is published when a reported result passes validation.
type MatchEnded struct {
	MatchID      string      `json:"matchId"`
	TournamentID string      `json:"tournamentId,omitempty"`
	Winner       domain.Team `json:"winner"`
}

// TournamentCompleted is published when a bracket reduces to a champion.
type TournamentCompleted struct {
	TournamentID string      `json:"tournamentId"`
	Champion     domain.Team `json:"champion"`
}

// Publisher fans lifecycle events out to observers. Publishing is purely
// observational; no core semantics depend on delivery.
type Publisher interface {
	Publish(subject string, payload any)
	Close()
}

// Nop returns a publisher that discards everything
func Nop() Publisher {
	return nopPublisher{}
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, any) {}
func (nopPublisher) Close()              {}

func marshalPayload(subject string, payload any) ([]byte, bool) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal event payload for %s: %v", subject, err)
		return nil, false
	}
	return data, true
}
