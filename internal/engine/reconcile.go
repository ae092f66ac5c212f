package engine

import (
	"log"
	"strconv"
	"time"

	"github.com/avolkau/ringmaster/internal/domain"
	"github.com/avolkau/ringmaster/internal/events"
)

// HandleGameStarted records a match's start timestamp. The match must exist
// in the current session and must not have started already; the timestamp is
// written exactly once.
func (e *Engine) HandleGameStarted(ev domain.GameStartedEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, ok := e.session.Matches[ev.MatchID]
	if !ok {
		return ErrUnknownMatch
	}
	if m.Started() {
		return ErrAlreadyStarted
	}
	m.StartedAt = ev.Timestamp

	e.publisher.Publish(events.SubjectMatchStarted, events.MatchStarted{
		MatchID:   ev.MatchID,
		Timestamp: ev.Timestamp,
	})
	return nil
}

// HandleGameEnded reconciles a reported result against the match's original
// roster and, on success, applies it: the team in result slot "0" is the
// authoritative winner; tournament matches feed it into stage resolution,
// standalone matches simply record completion. Any validation failure rejects
// the event without mutating state.
func (e *Engine) HandleGameEnded(ev domain.GameEndedEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, ok := e.session.Matches[ev.MatchID]
	if !ok {
		return ErrUnknownMatch
	}
	// A match resolves exactly once; replaying a result must not decrement
	// the stage counter again or re-queue the winner.
	if m.EndedAt != 0 {
		return ErrAlreadyEnded
	}
	if m.TournamentID != ev.TournamentID {
		return ErrTournamentMismatch
	}
	if !m.Started() {
		return ErrNotStarted
	}
	if len(ev.Winners) != len(m.Teams) {
		return ErrWinnersCount
	}

	// A tournament match must still belong to a known tournament; resolve it
	// up front so validation cannot half-apply.
	var t *domain.Tournament
	if m.TournamentID != "" {
		if t, ok = e.session.Tournaments[m.TournamentID]; !ok {
			return ErrUnknownTournament
		}
	}

	if err := reconcileWinners(m.Teams, ev.Winners); err != nil {
		return err
	}

	winner := domain.Team{Players: ev.Winners["0"].Players}
	m.EndedAt = time.Now().UnixMilli()
	log.Printf("Ended match %s, winners: %v", ev.MatchID, winner.Players)

	e.publisher.Publish(events.SubjectMatchEnded, events.MatchEnded{
		MatchID:      ev.MatchID,
		TournamentID: ev.TournamentID,
		Winner:       domain.Team{Players: ev.Winners["0"].Players, Scores: ev.Winners["0"].Scores},
	})

	if t != nil {
		e.resolveStageMatchLocked(t, winner)
	}
	return nil
}

// reconcileWinners runs the structural checks tying each reported winning
// team back to an original team from the match roster:
//
//   - every result slot "0".."n-1" is present, with players and scores of
//     equal length
//   - each reported team anchors to the original team containing its first
//     player, and every one of its players belongs to that team
//   - no player appears in two reported teams, and no two reported teams
//     claim the same original team
func reconcileWinners(original []domain.Team, winners map[string]domain.TeamResult) error {
	remaining := make([]map[string]bool, len(original))
	for i, team := range original {
		set := make(map[string]bool, len(team.Players))
		for _, p := range team.Players {
			set[p] = true
		}
		remaining[i] = set
	}

	used := make(map[string]bool)
	for i := range original {
		reported, ok := winners[strconv.Itoa(i)]
		if !ok {
			return ErrWinnersCount
		}
		if len(reported.Players) != len(reported.Scores) {
			return ErrScoresLength
		}
		if len(reported.Players) == 0 {
			return ErrTeamNotMatched
		}

		anchor := -1
		for j, set := range remaining {
			if set != nil && set[reported.Players[0]] {
				anchor = j
				break
			}
		}
		if anchor == -1 {
			return ErrTeamNotMatched
		}

		for _, p := range reported.Players {
			if used[p] {
				return ErrPlayerWrongTeam
			}
			used[p] = true
			if !remaining[anchor][p] {
				return ErrPlayerNotInTeam
			}
		}
		remaining[anchor] = nil
	}
	return nil
}
