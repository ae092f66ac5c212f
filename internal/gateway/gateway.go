package gateway

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/avolkau/ringmaster/internal/auth"
	"github.com/avolkau/ringmaster/internal/domain"
	"github.com/avolkau/ringmaster/internal/engine"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // game runtimes connect from arbitrary hosts
	},
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second

	// Result events carry full rosters with scores.
	maxMessageSize = 64 * 1024
)

// Gateway owns the one authenticated game connection per process. It verifies
// the handshake token, resets the engine session on every new connection, and
// dispatches inbound protocol events to the engine.
type Gateway struct {
	gameID string
	auth   *auth.Service
	engine *engine.Engine

	mu      sync.Mutex
	current *client
}

// New creates a gateway and installs it as the engine's notifier
func New(gameID string, authService *auth.Service, eng *engine.Engine) *Gateway {
	g := &Gateway{
		gameID: gameID,
		auth:   authService,
		engine: eng,
	}
	eng.SetNotifier(g)
	return g
}

// client is one accepted game connection
type client struct {
	gw   *Gateway
	conn *websocket.Conn
	send chan []byte
}

// bearerToken extracts the handshake token from the Authorization header or
// the token query parameter
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

// HandleWS authenticates and upgrades a game connection. The token is
// verified before the upgrade; a bad signature or a wrong game id refuses the
// handshake with 401.
func (g *Gateway) HandleWS(w http.ResponseWriter, req *http.Request) {
	claims, err := g.auth.VerifyGame(bearerToken(req))
	if err != nil {
		log.Printf("Invalid authorization token signature, connection refused")
		http.Error(w, "invalid authorization token", http.StatusUnauthorized)
		return
	}
	if claims.GameID != g.gameID {
		log.Printf("Invalid gameId in authorization token, connection refused")
		http.Error(w, "invalid gameId in authorization token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	c := &client{
		gw:   g,
		conn: conn,
		send: make(chan []byte, 256),
	}
	g.attach(c)
	log.Printf("Game connected: %s", g.gameID)

	go c.writePump()
	go c.readPump()
}

// attach makes c the active connection, closing any previous one, and starts
// a fresh engine session. Prior in-memory state is discarded wholesale; there
// is exactly one active game session per process.
func (g *Gateway) attach(c *client) {
	// Reset before exposing the connection so a caller that observes the
	// gateway as connected always sees the fresh session.
	g.engine.ResetSession()

	g.mu.Lock()
	prev := g.current
	g.current = c
	g.mu.Unlock()

	if prev != nil {
		prev.conn.Close()
	}
}

// detach clears the active connection if it is still c
func (g *Gateway) detach(c *client) {
	g.mu.Lock()
	if g.current == c {
		g.current = nil
	}
	g.mu.Unlock()
	log.Printf("Game disconnected: %s", g.gameID)
}

// Connected reports whether a game connection is active
func (g *Gateway) Connected() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current != nil
}

// StartMatches implements engine.Notifier: it emits one startGame event
// batching every match of a stage to the active connection.
func (g *Gateway) StartMatches(games []domain.GameAssignment) error {
	g.mu.Lock()
	c := g.current
	g.mu.Unlock()

	if c == nil {
		return engine.ErrNoConnection
	}

	data, err := json.Marshal(domain.StartGameEvent{Games: games})
	if err != nil {
		return err
	}
	msg, err := json.Marshal(domain.Envelope{Event: domain.EventStartGame, Data: data})
	if err != nil {
		return err
	}

	select {
	case c.send <- msg:
	default:
		return engine.ErrNoConnection
	}
	log.Printf("startGame event sent with %d match(es)", len(games))
	return nil
}

// readPump reads protocol events from the connection and dispatches them to
// the engine. Malformed or semantically invalid events are logged and
// dropped; events for the same connection are handled in arrival order.
func (c *client) readPump() {
	defer func() {
		c.gw.detach(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNoStatusReceived) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}
		c.dispatch(msg)
	}
}

// dispatch routes one inbound envelope
func (c *client) dispatch(msg []byte) {
	var env domain.Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		log.Printf("Dropping malformed message: %v", err)
		return
	}

	switch env.Event {
	case domain.EventGameStarted:
		var ev domain.GameStartedEvent
		if err := json.Unmarshal(env.Data, &ev); err != nil {
			log.Printf("Dropping malformed gameStarted event: %v", err)
			return
		}
		if err := c.gw.engine.HandleGameStarted(ev); err != nil {
			log.Printf("Rejected gameStarted for match %s: %v", ev.MatchID, err)
			return
		}
		log.Printf("Match started: %s at %d", ev.MatchID, ev.Timestamp)

	case domain.EventGameEnded:
		var ev domain.GameEndedEvent
		if err := json.Unmarshal(env.Data, &ev); err != nil {
			log.Printf("Dropping malformed gameEnded event: %v", err)
			return
		}
		if err := c.gw.engine.HandleGameEnded(ev); err != nil {
			log.Printf("Rejected gameEnded for match %s: %v", ev.MatchID, err)
			return
		}
		log.Printf("Match ended: %s", ev.MatchID)

	default:
		log.Printf("Dropping unknown event %q", env.Event)
	}
}

// writePump sends queued messages and keepalive pings to the connection
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
