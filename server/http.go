package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"chat-wire/contract"
	"chat-wire/hub"
	"chat-wire/internal"
	"chat-wire/observability"
	"chat-wire/projection"
	"chat-wire/services"

	"github.com/gorilla/websocket"
)

// Server owns the HTTP surface: the auth/profile/history API and the
// websocket endpoint feeding the live core.
type Server struct {
	log      *slog.Logger
	config   internal.Config
	auth     services.IAuthService
	users    services.IUserService
	chat     services.IChatService
	identity services.IIdentityService
	registry contract.Registry
	presence *hub.PresenceTracker
	metrics  *observability.Metrics
	timeline *projection.Timeline
	upgrader websocket.Upgrader
}

func New(log *slog.Logger, config internal.Config,
	authService services.IAuthService, userService services.IUserService,
	chatService services.IChatService, identityService services.IIdentityService,
	registry contract.Registry, presence *hub.PresenceTracker,
	metrics *observability.Metrics, timeline *projection.Timeline) *Server {
	return &Server{
		log:      log,
		config:   config,
		auth:     authService,
		users:    userService,
		chat:     chatService,
		identity: identityService,
		registry: registry,
		presence: presence,
		metrics:  metrics,
		timeline: timeline,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", s.requireAuth(s.handleLogout))
	mux.HandleFunc("GET /api/auth/me", s.requireAuth(s.handleMe))
	mux.HandleFunc("PUT /api/auth/me", s.requireAuth(s.handleUpdateMe))
	mux.HandleFunc("GET /api/users", s.requireAuth(s.handleListUsers))
	mux.HandleFunc("GET /api/messages/{peerID}", s.requireAuth(s.handleHistory))

	mux.HandleFunc("GET /ws", s.handleWS)

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /stats", s.handleStats)

	return mux
}

// HTTPServer builds the process-wide listener around the routes.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.config.Host, s.config.Port),
		Handler: s.Routes(),
	}
}
