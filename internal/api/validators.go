package api

import (
	"fmt"

	"github.com/avolkau/ringmaster/internal/domain"
)

// validateTeams checks explicitly provided rosters: the team count must match
// the request, every team must have exactly players_per_team members, every
// player must be linked, and no player may appear twice across teams. Returns
// the converted rosters, or a human-readable rejection message. A nil teams
// slice means "fill from the registry" and passes through untouched.
func (r *Router) validateTeams(teams []teamRequest, teamsCount int) ([]domain.Team, string) {
	if teams == nil {
		return nil, ""
	}

	if len(teams) != teamsCount {
		return nil, "Invalid number of provided teams"
	}

	seen := make(map[string]bool)
	out := make([]domain.Team, 0, len(teams))
	for i, team := range teams {
		if len(team.Players) != r.cfg.Game.PlayersPerTeam {
			return nil, fmt.Sprintf("Invalid number of players in team %d", i)
		}
		for _, player := range team.Players {
			if !r.roster.Exists(player) {
				return nil, fmt.Sprintf("Player does not exist: %s", player)
			}
			if seen[player] {
				return nil, fmt.Sprintf("Player was used twice: %s", player)
			}
			seen[player] = true
		}
		out = append(out, domain.Team{Players: append([]string(nil), team.Players...)})
	}
	return out, ""
}
