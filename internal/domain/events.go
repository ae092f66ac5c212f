package domain

import "encoding/json"

// Wire event names on the game connection.
const (
	EventGameStarted = "gameStarted" // inbound: runtime reports a match started
	EventGameEnded   = "gameEnded"   // inbound: runtime reports a match result
	EventStartGame   = "startGame"   // outbound: backend schedules match(es)
)

// Envelope frames every message exchanged on the game connection.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// GameStartedEvent is sent by the game runtime when a match begins.
type GameStartedEvent struct {
	MatchID   string `json:"matchId"`
	Timestamp int64  `json:"timestamp"`
}

// TeamResult is one team's reported outcome: players with their scores,
// parallel slices.
type TeamResult struct {
	Players []string `json:"players"`
	Scores  []int    `json:"scores"`
}

// GameEndedEvent is sent by the game runtime when a match finishes. Winners
// are keyed by result slot ("0", "1", ...); slot "0" is the authoritative
// winner that advances a tournament.
type GameEndedEvent struct {
	MatchID      string                `json:"matchId"`
	TournamentID string                `json:"tournamentId,omitempty"`
	Winners      map[string]TeamResult `json:"winners"`
}

// GameAssignment describes one match the runtime should start.
type GameAssignment struct {
	MatchID      string `json:"matchId"`
	TournamentID string `json:"tournamentId,omitempty"`
	Rivals       []Team `json:"rivals"`
}

// StartGameEvent batches every match of a stage into one notification.
type StartGameEvent struct {
	Games []GameAssignment `json:"games"`
}
