// Package http serves the spendlog web UI: session-backed auth, the
// expense dashboard, CSV export and the chat assistant.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"spendlog/internal/cache"
	"spendlog/internal/chat"
	"spendlog/internal/services"
	"spendlog/internal/storage"
	appweb "spendlog/web"
)

const sessionCookie = "spendlog_session"

// Options tunes server behaviour; zero values fall back to defaults.
type Options struct {
	SessionDuration    time.Duration
	CacheTTL           time.Duration
	CacheMaxUsers      int
	RateLimitPerMinute int
}

func (o *Options) fillDefaults() {
	if o.SessionDuration <= 0 {
		o.SessionDuration = 7 * 24 * time.Hour
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = 5 * time.Minute
	}
	if o.CacheMaxUsers <= 0 {
		o.CacheMaxUsers = 1000
	}
	if o.RateLimitPerMinute <= 0 {
		o.RateLimitPerMinute = 60
	}
}

type Server struct {
	http.Server

	repo      *storage.Repository
	expenses  *services.ExpenseService
	responder *chat.Responder
	templates *template.Template

	sessionDuration time.Duration
	summaryCache    *cache.SummaryCache
	rateLimiter     *rateLimiter

	stopSweep    chan struct{}
	shutdownOnce sync.Once
}

// NewServer wires routes, templates and middleware into a
// ready-to-run server.
func NewServer(addr string, repo *storage.Repository, expenses *services.ExpenseService, responder *chat.Responder, opts Options) *Server {
	opts.fillDefaults()

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		repo:            repo,
		expenses:        expenses,
		responder:       responder,
		sessionDuration: opts.SessionDuration,
		summaryCache:    cache.NewSummaryCache(opts.CacheMaxUsers, opts.CacheTTL),
		rateLimiter:     newRateLimiter(opts.RateLimitPerMinute),
		stopSweep:       make(chan struct{}),
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	mux.HandleFunc("/register", s.withMiddleware(s.handleRegister))
	mux.HandleFunc("/login", s.withMiddleware(s.handleLogin))
	mux.HandleFunc("/logout", s.withMiddleware(s.requireAuth(s.handleLogout)))

	mux.HandleFunc("/", s.withMiddleware(s.requireAuth(s.handleIndex)))
	mux.HandleFunc("/add", s.withMiddleware(s.requireAuth(s.handleAdd)))
	mux.HandleFunc("/expenses/delete", s.withMiddleware(s.requireAuth(s.handleDelete)))
	mux.HandleFunc("/export", s.withMiddleware(s.requireAuth(s.handleExport)))

	mux.HandleFunc("/chat", s.withMiddleware(s.requireAuth(s.handleChatPage)))
	mux.HandleFunc("/chat/message", s.withMiddleware(s.requireAuth(s.handleChatMessage)))

	go s.sweepCaches()

	return s
}

// sweepCaches periodically drops expired summary entries and stale
// rate-limit counters.
func (s *Server) sweepCaches() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.summaryCache.CleanExpired(); n > 0 {
				slog.Debug("Summary cache cleanup", "entries_removed", n)
			}
			s.rateLimiter.cleanupStaleEntries()
		case <-s.stopSweep:
			return
		}
	}
}

// Shutdown stops the sweep goroutine and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		close(s.stopSweep)
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.Ping(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Readiness check failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "template", name)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed", "error", err, "template", name)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
