package engine

import (
	"log"

	"github.com/avolkau/ringmaster/internal/domain"
	"github.com/avolkau/ringmaster/internal/events"
)

// CreateQuickMatch builds one standalone match. When teams is nil the rosters
// are filled by draining the registry in link order, consuming
// teamsInMatch*playersPerTeam players. The start notification goes out after
// the announcement delay.
func (e *Engine) CreateQuickMatch(teamsCount int, teams []domain.Team) (domain.Match, error) {
	if teamsCount != e.teamsInMatch {
		return domain.Match{}, ErrTeamCount
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if teams == nil {
		var err error
		teams, err = e.roster.Fill(e.teamsInMatch, e.playersPerTeam)
		if err != nil {
			return domain.Match{}, err
		}
	}

	match := &domain.Match{
		ID:    e.nextMatchID(),
		Teams: teams,
	}
	e.session.Matches[match.ID] = match

	e.announce([]domain.GameAssignment{{
		MatchID: match.ID,
		Rivals:  match.Teams,
	}})
	log.Printf("Created quickgame %s", match.ID)
	return *match, nil
}

// CreateTournament seeds a bracket with the given teams and immediately
// builds its first stage. When teams is nil, teamsCount rosters are filled
// from the registry in link order.
func (e *Engine) CreateTournament(teamsCount int, teams []domain.Team) (domain.Tournament, error) {
	if teamsCount < e.teamsInMatch {
		return domain.Tournament{}, ErrTeamCount
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if teams == nil {
		var err error
		teams, err = e.roster.Fill(teamsCount, e.playersPerTeam)
		if err != nil {
			return domain.Tournament{}, err
		}
	}

	t := &domain.Tournament{
		ID:             e.nextTournamentID(),
		NextStageTeams: teams,
	}
	e.session.Tournaments[t.ID] = t
	log.Printf("Created tournament %s with %d teams", t.ID, len(teams))

	e.advanceStageLocked(t)
	return *t, nil
}

// advanceStageLocked builds the next stage of a tournament from the queued
// teams. Team order fully determines pairing: the first teamsInMatch teams
// form a match, repeatedly, and a remainder of more than one team becomes a
// single undersized match. A lone leftover team stays queued and rolls
// forward into the next stage untouched. One team left means the bracket is
// done. Callers must hold e.mu.
func (e *Engine) advanceStageLocked(t *domain.Tournament) {
	t.StagePending = 0

	if len(t.NextStageTeams) == 1 {
		champion := t.NextStageTeams[0]
		t.Champion = &champion
		log.Printf("Tournament %s ended, champion: %v", t.ID, champion.Players)
		e.publisher.Publish(events.SubjectTournamentCompleted, events.TournamentCompleted{
			TournamentID: t.ID,
			Champion:     champion,
		})
		return
	}

	var games []domain.GameAssignment
	for len(t.NextStageTeams) >= e.teamsInMatch {
		match := &domain.Match{
			ID:           e.nextMatchID(),
			TournamentID: t.ID,
			Teams:        append([]domain.Team(nil), t.NextStageTeams[:e.teamsInMatch]...),
		}
		t.NextStageTeams = t.NextStageTeams[e.teamsInMatch:]
		t.StagePending++
		e.session.Matches[match.ID] = match
		games = append(games, domain.GameAssignment{
			MatchID:      match.ID,
			TournamentID: t.ID,
			Rivals:       match.Teams,
		})
	}

	// Fewer teams than a full match but more than one: pack the remainder
	// into one undersized match rather than granting a bye.
	if len(t.NextStageTeams) > 1 {
		match := &domain.Match{
			ID:           e.nextMatchID(),
			TournamentID: t.ID,
			Teams:        append([]domain.Team(nil), t.NextStageTeams...),
		}
		t.NextStageTeams = nil
		t.StagePending++
		e.session.Matches[match.ID] = match
		games = append(games, domain.GameAssignment{
			MatchID:      match.ID,
			TournamentID: t.ID,
			Rivals:       match.Teams,
		})
	}

	e.announce(games)
	log.Printf("Tournament %s stage started with %d match(es)", t.ID, len(games))
}

// resolveStageMatchLocked records one stage match's winner. When every match
// of the stage has resolved, the next stage is built immediately; progression
// is driven entirely by result arrival. Callers must hold e.mu.
func (e *Engine) resolveStageMatchLocked(t *domain.Tournament, winner domain.Team) {
	t.StagePending--
	t.NextStageTeams = append(t.NextStageTeams, winner)
	if t.StagePending <= 0 {
		log.Printf("Tournament %s stage ended", t.ID)
		e.advanceStageLocked(t)
	}
}
