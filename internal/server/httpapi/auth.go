package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/cryptox"
	"github.com/dmitrijs2005/gophjournal/internal/server/models"
	"github.com/dmitrijs2005/gophjournal/internal/server/oauth"
	"github.com/dmitrijs2005/gophjournal/internal/server/services"
)

const (
	oauthStateCookie    = "journal_oauth_state"
	oauthVerifierCookie = "journal_oauth_verifier"
	oauthCookieTTL      = 10 * time.Minute
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresAt    time.Time    `json:"expires_at"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	u, err := s.Users.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.Users.Login(r.Context(), req.Email, req.Password, sessionMeta(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.setSessionCookie(w, res.Tokens.RefreshToken, res.Tokens.ExpiresAt)
	writeJSON(w, http.StatusOK, newLoginResponse(res))
}

func newLoginResponse(res *services.LoginResult) loginResponse {
	return loginResponse{
		User:         res.User,
		AccessToken:  res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
		ExpiresAt:    res.Tokens.ExpiresAt,
	}
}

// sessionToken prefers the cookie and falls back to a refresh_token body
// field for clients without a cookie jar.
func sessionToken(r *http.Request) (string, error) {
	if ck, err := r.Cookie(common.SessionCookieName); err == nil && ck.Value != "" {
		return ck.Value, nil
	}
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		return "", err
	}
	return req.RefreshToken, nil
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	token, err := sessionToken(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	pair, err := s.Users.RefreshToken(r.Context(), token)
	if err != nil {
		s.clearSessionCookie(w)
		s.writeError(w, r, err)
		return
	}

	s.setSessionCookie(w, pair.RefreshToken, pair.ExpiresAt)
	writeJSON(w, http.StatusOK, pair)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	token, err := sessionToken(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.Users.Logout(r.Context(), token); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, successBody{Success: true})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	u, err := s.Users.Me(r.Context(), currentUser(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) googleStart(w http.ResponseWriter, r *http.Request) {
	if s.Google == nil {
		s.writeError(w, r, common.ErrNotConfigured)
		return
	}

	state, err := cryptox.NewToken(16)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	verifier := oauth.NewVerifier()

	s.setOAuthCookie(w, oauthStateCookie, state)
	s.setOAuthCookie(w, oauthVerifierCookie, verifier)

	http.Redirect(w, r, s.Google.AuthCodeURL(state, verifier), http.StatusFound)
}

func (s *Server) googleCallback(w http.ResponseWriter, r *http.Request) {
	if s.Google == nil {
		s.writeError(w, r, common.ErrNotConfigured)
		return
	}

	q := r.URL.Query()
	stateCk, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCk.Value == "" || stateCk.Value != q.Get("state") {
		s.writeError(w, r, badRequest("validation error: oauth state mismatch"))
		return
	}
	verifierCk, err := r.Cookie(oauthVerifierCookie)
	if err != nil || verifierCk.Value == "" {
		s.writeError(w, r, badRequest("validation error: missing oauth verifier"))
		return
	}
	code := q.Get("code")
	if code == "" {
		s.writeError(w, r, badRequest("validation error: missing authorization code"))
		return
	}

	s.clearOAuthCookie(w, oauthStateCookie)
	s.clearOAuthCookie(w, oauthVerifierCookie)

	profile, err := s.Google.Exchange(r.Context(), code, verifierCk.Value)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.Users.SocialLogin(r.Context(), profile, sessionMeta(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.setSessionCookie(w, res.Tokens.RefreshToken, res.Tokens.ExpiresAt)

	target := s.Options.FrontendURL
	if target == "" {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (s *Server) setOAuthCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/api/auth/google",
		MaxAge:   int(oauthCookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.Options.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearOAuthCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Path:     "/api/auth/google",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.Options.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
