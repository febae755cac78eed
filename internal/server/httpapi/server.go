// Package httpapi serves the journal over HTTP: a REST surface under /api,
// a single-endpoint RPC surface under /rpc and the live entry feed.
package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/dmitrijs2005/gophjournal/internal/server/metrics"
	"github.com/dmitrijs2005/gophjournal/internal/server/models"
	"github.com/dmitrijs2005/gophjournal/internal/server/oauth"
	"github.com/dmitrijs2005/gophjournal/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// EntryService is the entry API the handlers need.
type EntryService interface {
	Create(ctx context.Context, ownerID, title, content string) (*models.Entry, error)
	List(ctx context.Context, ownerID string) ([]*models.Entry, error)
	Delete(ctx context.Context, id int64, ownerID string) error
	Update(ctx context.Context, id int64, ownerID string, patch models.EntryPatch) (*models.Entry, error)
}

// UserService is the account and session API the handlers need.
type UserService interface {
	Register(ctx context.Context, email, password, name string) (*models.User, error)
	Login(ctx context.Context, email, password string, meta services.SessionMeta) (*services.LoginResult, error)
	SocialLogin(ctx context.Context, p *oauth.Profile, meta services.SessionMeta) (*services.LoginResult, error)
	Resolve(ctx context.Context, c services.Credentials) (string, error)
	RefreshToken(ctx context.Context, sessionToken string) (*models.TokenPair, error)
	Logout(ctx context.Context, sessionToken string) error
	Me(ctx context.Context, userID string) (*models.User, error)
}

// Exporter uploads an owner's entries and returns a download link.
type Exporter interface {
	Export(ctx context.Context, ownerID string) (*models.ExportResult, error)
}

// LiveFeed upgrades a request to a websocket subscribed to ownerID.
type LiveFeed interface {
	ServeWs(w http.ResponseWriter, r *http.Request, ownerID string)
}

// Options tune cookies, CORS and redirects.
type Options struct {
	AllowedOrigins []string
	CookieSecure   bool
	FrontendURL    string
}

// Server holds the handler dependencies. Exporter, Feed, Google and
// Metrics are optional.
type Server struct {
	Entries  EntryService
	Users    UserService
	Exporter Exporter
	Feed     LiveFeed
	Google   oauth.Provider
	Metrics  *metrics.Metrics
	Options  Options
	Logger   logging.Logger
}

// Router builds the chi router for s.
func (s *Server) Router() http.Handler {
	if s.Logger == nil {
		s.Logger = logging.Nop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	if s.Metrics != nil {
		r.Use(s.Metrics.InstrumentHandler)
	}
	r.Use(newCORS(s.Options.AllowedOrigins).Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if s.Metrics != nil {
		r.Handle("/metrics", s.Metrics.Handler())
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", s.register)
		r.Post("/login", s.login)
		r.Post("/refresh", s.refresh)
		r.Post("/logout", s.logout)
		r.Get("/google", s.googleStart)
		r.Get("/google/callback", s.googleCallback)
		r.With(s.requireUser).Get("/me", s.me)
	})

	r.Route("/api/entries", func(r chi.Router) {
		r.With(s.requireLiveUser).Get("/live", s.liveEntries)

		r.Group(func(r chi.Router) {
			r.Use(s.requireUser)
			r.Get("/", s.listEntries)
			r.Post("/", s.addEntry)
			r.Get("/export", s.exportEntries)
			r.Patch("/{id}", s.updateEntry)
			r.Put("/{id}", s.updateEntry)
			r.Delete("/{id}", s.deleteEntry)
		})
	})

	r.Post("/rpc/{procedure}", s.rpc)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Not Found"})
	})

	return r
}
