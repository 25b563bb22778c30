package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/taskmaster-app/taskmaster/internal/config"
	"github.com/taskmaster-app/taskmaster/internal/handler"
	"github.com/taskmaster-app/taskmaster/internal/middleware"
	"github.com/taskmaster-app/taskmaster/internal/oauth"
	"github.com/taskmaster-app/taskmaster/internal/store"
	ws "github.com/taskmaster-app/taskmaster/internal/websocket"
)

type Server struct {
	db           *sql.DB
	hub          *ws.Hub
	authH        *handler.AuthHandler
	listH        *handler.ListHandler
	sessionStore *store.SessionStore
	userStore    *store.UserStore
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

func New(db *sql.DB, cfg config.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	listStore := store.NewListStore(db)
	itemStore := store.NewItemStore(db)
	sessionStore := store.NewSessionStore(db)

	google := oauth.NewGoogle(cfg)
	if cfg.OAuthPartial() {
		logger.Warn("google oauth partially configured; sign-in with google disabled")
	}

	return &Server{
		db:           db,
		hub:          hub,
		authH:        handler.NewAuthHandler(userStore, sessionStore, google, logger.With("component", "auth")),
		listH:        handler.NewListHandler(listStore, itemStore, hub, logger.With("component", "list")),
		sessionStore: sessionStore,
		userStore:    userStore,
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("GET /{$}", s.authH.LoginPage)
	outerMux.HandleFunc("GET /login", s.authH.LoginPage)
	outerMux.HandleFunc("POST /login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /signup", s.authH.SignupPage)
	outerMux.HandleFunc("POST /signup", s.rateLimitedHandler(s.authH.Signup))
	outerMux.HandleFunc("GET /auth/google", s.authH.GoogleLogin)
	outerMux.HandleFunc("GET /auth/google/taskmaster", s.authH.GoogleCallback)
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes, wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore, s.userStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /mylist", s.listH.MyList)
	mux.HandleFunc("GET /logout", s.authH.Logout)

	mux.HandleFunc("POST /add", s.listH.AddItem)
	mux.HandleFunc("POST /addList", s.listH.AddList)
	mux.HandleFunc("POST /edit", s.listH.EditItem)
	mux.HandleFunc("POST /editListTitle", s.listH.EditListTitle)
	mux.HandleFunc("POST /delete", s.listH.DeleteItem)

	// Live list sync
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))
}
