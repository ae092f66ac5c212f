package engine

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/avolkau/ringmaster/internal/config"
	"github.com/avolkau/ringmaster/internal/domain"
	"github.com/avolkau/ringmaster/internal/events"
	"github.com/avolkau/ringmaster/internal/roster"
)

// Validation failures. Every operation fails closed: on any of these errors
// no state has been mutated.
var (
	ErrTeamCount          = errors.New("invalid number of teams")
	ErrUnknownMatch       = errors.New("match does not exist")
	ErrUnknownTournament  = errors.New("tournament does not exist")
	ErrAlreadyStarted     = errors.New("match already started")
	ErrAlreadyEnded       = errors.New("match already ended")
	ErrTournamentMismatch = errors.New("tournament id does not match")
	ErrNotStarted         = errors.New("match finishes before being started")
	ErrWinnersCount       = errors.New("winners count does not match initial rivals")
	ErrScoresLength       = errors.New("players and scores differ in length")
	ErrTeamNotMatched     = errors.New("reported team matches no original team")
	ErrPlayerWrongTeam    = errors.New("player in the wrong team")
	ErrPlayerNotInTeam    = errors.New("player does not belong to its team")
	ErrNoConnection       = errors.New("no active game connection")
)

// Notifier delivers start notifications to the connected game client. The
// gateway implements it; a nil or disconnected notifier drops the
// notification.
type Notifier interface {
	StartMatches(games []domain.GameAssignment) error
}

// Engine owns the session state for the single active game and runs the
// bracket and result-validation logic. All session mutation happens under one
// mutex; only the announcement delay runs outside it.
type Engine struct {
	gameID         string
	teamsInMatch   int
	playersPerTeam int
	announceDelay  time.Duration

	roster    *roster.Registry
	publisher events.Publisher

	mu               sync.Mutex
	session          *domain.Session
	generation       int64 // bumped on every session reset
	notifier         Notifier
	matchSeq         int64
	lastTournamentID string
}

// New creates an engine with a fresh session for the configured game
func New(cfg *config.Config, reg *roster.Registry, pub events.Publisher) *Engine {
	if pub == nil {
		pub = events.Nop()
	}
	return &Engine{
		gameID:           cfg.Game.ID,
		teamsInMatch:     cfg.Game.TeamsInMatch,
		playersPerTeam:   cfg.Game.PlayersPerTeam,
		announceDelay:    cfg.Game.AnnounceDelay,
		roster:           reg,
		publisher:        pub,
		session:          domain.NewSession(cfg.Game.ID),
		lastTournamentID: "0",
	}
}

// SetNotifier installs the delivery channel for start notifications
func (e *Engine) SetNotifier(n Notifier) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.notifier = n
}

// ResetSession discards all match and tournament state and starts a fresh
// session. Called by the gateway on every new authenticated connection: a new
// connection always starts clean, there is no resumption.
func (e *Engine) ResetSession() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session = domain.NewSession(e.gameID)
	e.generation++
}

// Match returns a copy of a match by id
func (e *Engine) Match(id string) (domain.Match, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	m, ok := e.session.Matches[id]
	if !ok {
		return domain.Match{}, false
	}
	return *m, true
}

// Tournament returns a copy of a tournament by id
func (e *Engine) Tournament(id string) (domain.Tournament, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	t, ok := e.session.Tournaments[id]
	if !ok {
		return domain.Tournament{}, false
	}
	out := *t
	out.NextStageTeams = append([]domain.Team(nil), t.NextStageTeams...)
	return out, true
}

// announce schedules delivery of a stage's start notification after the
// configured delay. The assignments are snapshotted by the caller while the
// lock is held; rosters are fixed at creation so the delay cannot observe a
// different roster. When no connection is active, or the session was replaced
// during the delay, the notification is dropped with a warning: the matches
// it names no longer exist for the client. Callers must hold e.mu.
func (e *Engine) announce(games []domain.GameAssignment) {
	if len(games) == 0 {
		return
	}
	scheduled := e.generation
	time.AfterFunc(e.announceDelay, func() {
		e.mu.Lock()
		n := e.notifier
		stale := e.generation != scheduled
		e.mu.Unlock()

		if stale {
			log.Printf("Dropping start notification for %d match(es): session replaced", len(games))
			return
		}
		if n == nil {
			log.Printf("Dropping start notification for %d match(es): no game connected", len(games))
			return
		}
		if err := n.StartMatches(games); err != nil {
			log.Printf("Failed to deliver start notification for %d match(es): %v", len(games), err)
		}
	})
}
