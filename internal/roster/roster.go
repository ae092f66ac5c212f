package roster

import (
	"errors"
	"sync"

	"github.com/avolkau/ringmaster/internal/domain"
)

// ErrNotEnoughPlayers is returned when a fill request needs more linked
// players than the registry holds.
var ErrNotEnoughPlayers = errors.New("not enough linked players")

// Registry assigns each external player identifier a stable backend ordinal.
// Ordinals are assigned monotonically from 0 and never change for the
// lifetime of the process; players are never removed.
type Registry struct {
	mu       sync.RWMutex
	ordinals map[string]int
	order    []string // players in link order, drives quick-fill assembly
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		ordinals: make(map[string]int),
	}
}

// Link assigns a backend ordinal to a player and returns it. Linking an
// already linked player returns the existing ordinal without burning a new
// one.
func (r *Registry) Link(playerID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ordinal, ok := r.ordinals[playerID]; ok {
		return ordinal
	}
	ordinal := len(r.order)
	r.ordinals[playerID] = ordinal
	r.order = append(r.order, playerID)
	return ordinal
}

// Exists reports whether a player has been linked
func (r *Registry) Exists(playerID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.ordinals[playerID]
	return ok
}

// Count returns the number of linked players
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Fill assembles teams of the given size by draining players in link order.
// It consumes teams*size players starting from ordinal 0.
func (r *Registry) Fill(teams, size int) ([]domain.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if teams*size > len(r.order) {
		return nil, ErrNotEnoughPlayers
	}

	out := make([]domain.Team, 0, teams)
	next := 0
	for i := 0; i < teams; i++ {
		players := make([]string, size)
		copy(players, r.order[next:next+size])
		next += size
		out = append(out, domain.Team{Players: players})
	}
	return out, nil
}
