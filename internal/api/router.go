package api

import (
	"net/http"

	"github.com/avolkau/ringmaster/internal/auth"
	"github.com/avolkau/ringmaster/internal/config"
	"github.com/avolkau/ringmaster/internal/engine"
	"github.com/avolkau/ringmaster/internal/gateway"
	"github.com/avolkau/ringmaster/internal/roster"
)

// Router holds the HTTP routes and dependencies
type Router struct {
	mux    *http.ServeMux
	cfg    *config.Config
	auth   *auth.Service
	roster *roster.Registry
	engine *engine.Engine
	gw     *gateway.Gateway
}

// NewRouter creates a new HTTP router
func NewRouter(cfg *config.Config, authService *auth.Service, reg *roster.Registry, eng *engine.Engine, gw *gateway.Gateway) *Router {
	r := &Router{
		mux:    http.NewServeMux(),
		cfg:    cfg,
		auth:   authService,
		roster: reg,
		engine: eng,
		gw:     gw,
	}

	// Administrative surface
	r.mux.HandleFunc("POST /link-user", r.handleLinkUser)
	r.mux.HandleFunc("POST /create-quickgame", r.handleCreateQuickgame)
	r.mux.HandleFunc("POST /create-tournament", r.handleCreateTournament)

	// Game connection
	r.mux.HandleFunc("GET /ws", gw.HandleWS)

	// Health check
	r.mux.HandleFunc("GET /health", r.handleHealth)

	return r
}

// ServeHTTP implements http.Handler
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	// CORS headers for API
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if req.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	r.mux.ServeHTTP(w, req)
}
