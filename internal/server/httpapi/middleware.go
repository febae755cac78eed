package httpapi

import (
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/netx"
	"github.com/dmitrijs2005/gophjournal/internal/server/auth"
	"github.com/dmitrijs2005/gophjournal/internal/server/services"
	"github.com/go-chi/chi/v5/middleware"
)

// cors answers preflight requests and marks responses to allowed origins
// as readable with credentials.
type cors struct {
	origins netx.Origins
}

func newCORS(origins []string) *cors {
	return &cors{origins: netx.NewOrigins(origins)}
}

func (c *cors) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if c.origins.Allows(origin) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			h.Set("Access-Control-Max-Age", "3600")
			h.Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.Logger.Info(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// credentials collects the identities an ordinary request carries: a
// bearer token and the session cookie.
func credentials(r *http.Request) services.Credentials {
	c := services.Credentials{AccessToken: auth.BearerToken(r.Header.Get("Authorization"))}
	if ck, err := r.Cookie(common.SessionCookieName); err == nil {
		c.SessionToken = ck.Value
	}
	return c
}

// liveCredentials also accepts a token query parameter, for websocket
// clients that cannot set headers on the upgrade request.
func liveCredentials(r *http.Request) services.Credentials {
	c := credentials(r)
	if c.AccessToken == "" {
		c.AccessToken = r.URL.Query().Get("token")
	}
	return c
}

// requireUser resolves the caller and stores the user id in the request
// context, answering 401 when nobody is signed in.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return s.authenticate(next, credentials)
}

func (s *Server) requireLiveUser(next http.Handler) http.Handler {
	return s.authenticate(next, liveCredentials)
}

func (s *Server) authenticate(next http.Handler, from func(*http.Request) services.Credentials) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := s.Users.Resolve(r.Context(), from(r))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
	})
}

func currentUser(r *http.Request) string {
	id, _ := auth.UserIDFromContext(r.Context())
	return id
}

func sessionMeta(r *http.Request) services.SessionMeta {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return services.SessionMeta{IPAddress: ip, UserAgent: r.UserAgent()}
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   s.Options.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.Options.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
