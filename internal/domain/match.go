package domain

// Team is an ordered group of player identifiers. Scores are carried only on
// reported results and run parallel to Players.
type Team struct {
	Players []string `json:"players"`
	Scores  []int    `json:"scores,omitempty"`
}

// Match represents one scheduled contest between a fixed set of teams. The
// roster is fixed at creation; protocol events only attach timestamps.
type Match struct {
	ID           string `json:"matchId"`
	TournamentID string `json:"tournamentId,omitempty"` // empty for quickgames
	Teams        []Team `json:"teams"`
	StartedAt    int64  `json:"startedAt,omitempty"` // client-reported, 0 until the start event arrives
	EndedAt      int64  `json:"endedAt,omitempty"`
}

// Started reports whether the match received its start event.
func (m *Match) Started() bool {
	return m.StartedAt != 0
}

// Tournament is a single-elimination bracket. Winners of the current stage
// accumulate in NextStageTeams; when StagePending drops to zero the next
// stage is built from them, FIFO.
type Tournament struct {
	ID             string `json:"tournamentId"`
	StagePending   int    `json:"stagePending"`
	NextStageTeams []Team `json:"nextStageTeams"`
	Champion       *Team  `json:"champion,omitempty"`
}

// Finished reports whether the bracket has reduced to a champion.
func (t *Tournament) Finished() bool {
	return t.Champion != nil
}

// Session holds the in-memory state owned by the single active game
// connection. A new connection replaces the session wholesale.
type Session struct {
	GameID      string
	Matches     map[string]*Match
	Tournaments map[string]*Tournament
}

// NewSession creates an empty session for a game.
func NewSession(gameID string) *Session {
	return &Session{
		GameID:      gameID,
		Matches:     make(map[string]*Match),
		Tournaments: make(map[string]*Tournament),
	}
}
