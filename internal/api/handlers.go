package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeStatus writes the human-readable status of the operation. The
// administrative surface always answers 200 with a message describing the
// last success or failure.
func writeStatus(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, map[string]string{"msg": msg})
}

type linkUserRequest struct {
	Token string `json:"token"`
}

type teamRequest struct {
	Players []string `json:"players"`
}

type createGameRequest struct {
	TeamsCount int           `json:"teamsCount"`
	Teams      []teamRequest `json:"teams,omitempty"`
}

// handleLinkUser decodes a link token and registers its player
func (r *Router) handleLinkUser(w http.ResponseWriter, req *http.Request) {
	var body linkUserRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeStatus(w, "Invalid request payload")
		return
	}

	claims, err := r.auth.VerifyLink(body.Token)
	if err != nil {
		log.Printf("Invalid link token: %v", err)
		writeStatus(w, "Invalid link token")
		return
	}
	if claims.GameID != r.cfg.Game.ID {
		log.Printf("Invalid gameId in link token")
		writeStatus(w, "Invalid gameId in link token")
		return
	}
	if r.roster.Exists(claims.PlayerID) {
		log.Printf("User already linked: %s", claims.PlayerID)
		writeStatus(w, "User already linked")
		return
	}

	ordinal := r.roster.Link(claims.PlayerID)
	log.Printf("Player %s linked to user %d", claims.PlayerID, ordinal)
	writeStatus(w, fmt.Sprintf("Player %s linked to user %d", claims.PlayerID, ordinal))
}

// handleCreateQuickgame validates the request and creates one standalone match
func (r *Router) handleCreateQuickgame(w http.ResponseWriter, req *http.Request) {
	var body createGameRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeStatus(w, "Invalid request payload")
		return
	}

	if body.TeamsCount != r.cfg.Game.TeamsInMatch {
		writeStatus(w, "Invalid number of teams for a single match")
		return
	}
	if r.roster.Count() < r.cfg.Game.TeamsInMatch*r.cfg.Game.PlayersPerTeam {
		writeStatus(w, "Insufficient number of players for a match")
		return
	}

	teams, msg := r.validateTeams(body.Teams, body.TeamsCount)
	if msg != "" {
		writeStatus(w, msg)
		return
	}

	if _, err := r.engine.CreateQuickMatch(body.TeamsCount, teams); err != nil {
		log.Printf("Failed to create quickgame: %v", err)
		writeStatus(w, "Failed to create quickgame")
		return
	}
	writeStatus(w, "Successfully created quickgame")
}

// handleCreateTournament validates the request and seeds a bracket
func (r *Router) handleCreateTournament(w http.ResponseWriter, req *http.Request) {
	var body createGameRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeStatus(w, "Invalid request payload")
		return
	}

	if body.TeamsCount < r.cfg.Game.TeamsInMatch {
		writeStatus(w, "Invalid number of teams for a tournament")
		return
	}
	if r.roster.Count() < r.cfg.Game.TeamsInMatch*r.cfg.Game.PlayersPerTeam {
		writeStatus(w, "Insufficient number of players for a tournament")
		return
	}

	teams, msg := r.validateTeams(body.Teams, body.TeamsCount)
	if msg != "" {
		writeStatus(w, msg)
		return
	}

	if _, err := r.engine.CreateTournament(body.TeamsCount, teams); err != nil {
		log.Printf("Failed to create tournament: %v", err)
		writeStatus(w, "Failed to create tournament")
		return
	}
	writeStatus(w, "Successfully created tournament")
}

// handleHealth returns process liveness plus connection status
func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"gameId":    r.cfg.Game.ID,
		"connected": r.gw.Connected(),
		"players":   r.roster.Count(),
	})
}
