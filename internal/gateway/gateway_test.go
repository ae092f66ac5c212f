package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkau/ringmaster/internal/auth"
	"github.com/avolkau/ringmaster/internal/config"
	"github.com/avolkau/ringmaster/internal/domain"
	"github.com/avolkau/ringmaster/internal/engine"
	"github.com/avolkau/ringmaster/internal/roster"
)

type fixture struct {
	srv    *httptest.Server
	gw     *Gateway
	auth   *auth.Service
	engine *engine.Engine
}

func newFixture(t *testing.T, players ...string) *fixture {
	t.Helper()

	cfg := &config.Config{}
	cfg.ApplyDefaults()
	cfg.Game.ID = "arena-1"
	cfg.Game.AnnounceDelay = time.Millisecond
	cfg.Auth.Secret = "test-secret"

	reg := roster.New()
	for _, p := range players {
		reg.Link(p)
	}

	authService := auth.NewService(cfg.Auth.Secret, cfg.Auth.TokenDuration)
	eng := engine.New(cfg, reg, nil)
	gw := New(cfg.Game.ID, authService, eng)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", gw.HandleWS)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return &fixture{srv: srv, gw: gw, auth: authService, engine: eng}
}

func (f *fixture) wsURL() string {
	return "ws" + strings.TrimPrefix(f.srv.URL, "http") + "/ws"
}

// dial connects with a valid auth token
func (f *fixture) dial(t *testing.T) *websocket.Conn {
	t.Helper()

	token, err := f.auth.GenerateGame("arena-1")
	require.NoError(t, err)

	header := http.Header{"Authorization": []string{"Bearer " + token}}
	conn, _, err := websocket.DefaultDialer.Dial(f.wsURL(), header)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func envelope(t *testing.T, event string, data any) domain.Envelope {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	return domain.Envelope{Event: event, Data: raw}
}

func TestHandshakeRejectsMissingToken(t *testing.T) {
	f := newFixture(t)

	_, resp, err := websocket.DefaultDialer.Dial(f.wsURL(), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandshakeRejectsWrongGame(t *testing.T) {
	f := newFixture(t)

	token, err := f.auth.GenerateGame("other-game")
	require.NoError(t, err)

	header := http.Header{"Authorization": []string{"Bearer " + token}}
	_, resp, err := websocket.DefaultDialer.Dial(f.wsURL(), header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandshakeAcceptsQueryToken(t *testing.T) {
	f := newFixture(t)

	token, err := f.auth.GenerateGame("arena-1")
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(f.wsURL()+"?token="+token, nil)
	require.NoError(t, err)
	conn.Close()
}

func TestConnectResetsSession(t *testing.T) {
	f := newFixture(t, "p1", "p2", "p3", "p4")

	match, err := f.engine.CreateQuickMatch(2, nil)
	require.NoError(t, err)

	f.dial(t)

	require.Eventually(t, func() bool {
		_, ok := f.engine.Match(match.ID)
		return !ok
	}, 2*time.Second, 10*time.Millisecond, "a new connection must discard prior state")
}

func TestStartNotificationDelivered(t *testing.T) {
	f := newFixture(t, "p1", "p2", "p3", "p4")
	conn := f.dial(t)

	require.Eventually(t, f.gw.Connected, 2*time.Second, 10*time.Millisecond)

	match, err := f.engine.CreateQuickMatch(2, nil)
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var env domain.Envelope
	require.NoError(t, conn.ReadJSON(&env))
	require.Equal(t, domain.EventStartGame, env.Event)

	var start domain.StartGameEvent
	require.NoError(t, json.Unmarshal(env.Data, &start))
	require.Len(t, start.Games, 1)
	assert.Equal(t, match.ID, start.Games[0].MatchID)
	assert.Equal(t, match.Teams, start.Games[0].Rivals)
}

func TestInboundEventsDriveTheMatch(t *testing.T) {
	f := newFixture(t, "p1", "p2", "p3", "p4")
	conn := f.dial(t)
	require.Eventually(t, f.gw.Connected, 2*time.Second, 10*time.Millisecond)

	match, err := f.engine.CreateQuickMatch(2, nil)
	require.NoError(t, err)

	started := envelope(t, domain.EventGameStarted, domain.GameStartedEvent{MatchID: match.ID, Timestamp: 42})
	require.NoError(t, conn.WriteJSON(started))

	require.Eventually(t, func() bool {
		m, ok := f.engine.Match(match.ID)
		return ok && m.Started()
	}, 2*time.Second, 10*time.Millisecond)

	ended := envelope(t, domain.EventGameEnded, domain.GameEndedEvent{
		MatchID: match.ID,
		Winners: map[string]domain.TeamResult{
			"0": {Players: []string{"p1", "p2"}, Scores: []int{1, 1}},
			"1": {Players: []string{"p3", "p4"}, Scores: []int{0, 0}},
		},
	})
	require.NoError(t, conn.WriteJSON(ended))

	require.Eventually(t, func() bool {
		m, ok := f.engine.Match(match.ID)
		return ok && m.EndedAt != 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestMalformedEventsAreDropped(t *testing.T) {
	f := newFixture(t, "p1", "p2", "p3", "p4")
	conn := f.dial(t)
	require.Eventually(t, f.gw.Connected, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	require.NoError(t, conn.WriteJSON(envelope(t, "unknownEvent", map[string]string{})))
	require.NoError(t, conn.WriteJSON(envelope(t, domain.EventGameStarted, domain.GameStartedEvent{MatchID: "nope"})))

	// The connection must survive all of the above.
	match, err := f.engine.CreateQuickMatch(2, nil)
	require.NoError(t, err)

	started := envelope(t, domain.EventGameStarted, domain.GameStartedEvent{MatchID: match.ID, Timestamp: 1})
	require.NoError(t, conn.WriteJSON(started))

	require.Eventually(t, func() bool {
		m, ok := f.engine.Match(match.ID)
		return ok && m.Started()
	}, 2*time.Second, 10*time.Millisecond)
}
