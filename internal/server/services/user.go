package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/cryptox"
	"github.com/dmitrijs2005/gophjournal/internal/dbx"
	"github.com/dmitrijs2005/gophjournal/internal/server/auth"
	"github.com/dmitrijs2005/gophjournal/internal/server/config"
	"github.com/dmitrijs2005/gophjournal/internal/server/models"
	"github.com/dmitrijs2005/gophjournal/internal/server/oauth"
	"github.com/dmitrijs2005/gophjournal/internal/server/repositories/repomanager"
)

// MinPasswordLength is the shortest password Register accepts.
const MinPasswordLength = 8

const sessionTokenBytes = 32

// SessionMeta describes the client a session is issued to.
type SessionMeta struct {
	IPAddress string
	UserAgent string
}

// Credentials is whatever identity a request carried. Either field may be
// empty.
type Credentials struct {
	AccessToken  string
	SessionToken string
}

// LoginResult is returned by Login and SocialLogin.
type LoginResult struct {
	User   *models.User
	Tokens models.TokenPair
}

// UserService registers users, signs them in and resolves request
// credentials to a user id.
type UserService struct {
	repomanager    repomanager.RepositoryManager
	jwtSecret      []byte
	accessTokenTTL time.Duration
	sessionTTL     time.Duration
	hashParams     cryptox.Params
	now            func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewUserService(m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		repomanager:    m,
		jwtSecret:      []byte(cfg.SecretKey),
		accessTokenTTL: cfg.AccessTokenValidityDuration,
		sessionTTL:     cfg.SessionValidityDuration,
		hashParams:     cryptox.DefaultParams,
		now:            time.Now,
	}
}

// SetHashParams overrides the argon2id cost used for new password hashes.
// Existing hashes carry their own parameters and keep verifying.
func (s *UserService) SetHashParams(p cryptox.Params) {
	s.hashParams = p
}

// Register creates a user with an email and password credential. The user
// row and the credential account are written in one transaction.
func (s *UserService) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, MinPasswordLength)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	db := s.repomanager.DB()
	if _, err := s.repomanager.Users(db).GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email %s is already registered", common.ErrorConflict, email)
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, storeError("register", err)
	}

	hash, err := cryptox.HashPassword(password, s.hashParams)
	if err != nil {
		return nil, storeError("register", err)
	}

	var user *models.User
	err = s.repomanager.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := s.repomanager.Users(tx).Create(ctx, &models.User{Email: email, Name: name})
		if err != nil {
			return err
		}
		_, err = s.repomanager.Accounts(tx).Create(ctx, &models.Account{
			AccountID:    u.ID,
			ProviderID:   common.ProviderCredential,
			UserID:       u.ID,
			PasswordHash: hash,
		})
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, fmt.Errorf("%w: email %s is already registered", common.ErrorConflict, email)
		}
		return nil, storeError("register", err)
	}
	return user, nil
}

// Login checks email and password and opens a session.
func (s *UserService) Login(ctx context.Context, email, password string, meta SessionMeta) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrorValidation)
	}

	db := s.repomanager.DB()
	user, err := s.repomanager.Users(db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.burnHash(password)
			return nil, fmt.Errorf("%w: invalid email or password", common.ErrorUnauthorized)
		}
		return nil, storeError("login", err)
	}

	acc, err := s.repomanager.Accounts(db).FindByUser(ctx, user.ID, common.ProviderCredential)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.burnHash(password)
			return nil, fmt.Errorf("%w: invalid email or password", common.ErrorUnauthorized)
		}
		return nil, storeError("login", err)
	}

	ok, err := cryptox.VerifyPassword(password, acc.PasswordHash)
	if err != nil {
		return nil, storeError("login", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: invalid email or password", common.ErrorUnauthorized)
	}

	return s.openSession(ctx, user, meta)
}

// SocialLogin signs in with a provider profile. It reuses the linked
// account, links the provider to an existing user with the same verified
// email, or creates both the user and the link.
func (s *UserService) SocialLogin(ctx context.Context, p *oauth.Profile, meta SessionMeta) (*LoginResult, error) {
	if p == nil || p.Provider == "" || p.AccountID == "" {
		return nil, fmt.Errorf("%w: incomplete provider profile", common.ErrorValidation)
	}

	db := s.repomanager.DB()
	acc, err := s.repomanager.Accounts(db).FindByProvider(ctx, p.Provider, p.AccountID)
	switch {
	case err == nil:
		if err := s.repomanager.Accounts(db).UpdateTokens(ctx, acc.ID, p.AccessToken, p.RefreshToken, p.Scope); err != nil {
			return nil, storeError("social login", err)
		}
		user, err := s.repomanager.Users(db).GetByID(ctx, acc.UserID)
		if err != nil {
			return nil, storeError("social login", err)
		}
		return s.openSession(ctx, user, meta)
	case !errors.Is(err, common.ErrorNotFound):
		return nil, storeError("social login", err)
	}

	email, err := normalizeEmail(p.Email)
	if err != nil {
		return nil, err
	}

	var user *models.User
	err = s.repomanager.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		users := s.repomanager.Users(tx)

		u, err := users.GetByEmail(ctx, email)
		switch {
		case err == nil:
			if !p.EmailVerified {
				return fmt.Errorf("%w: email %s is registered and the provider did not verify it", common.ErrorConflict, email)
			}
			if !u.EmailVerified {
				if err := users.MarkEmailVerified(ctx, u.ID); err != nil {
					return err
				}
				u.EmailVerified = true
			}
		case errors.Is(err, common.ErrorNotFound):
			name := strings.TrimSpace(p.Name)
			if name == "" {
				name, _, _ = strings.Cut(email, "@")
			}
			u, err = users.Create(ctx, &models.User{
				Email:         email,
				Name:          name,
				EmailVerified: p.EmailVerified,
				Image:         p.Image,
			})
			if err != nil {
				return err
			}
		default:
			return err
		}

		_, err = s.repomanager.Accounts(tx).Create(ctx, &models.Account{
			AccountID:    p.AccountID,
			ProviderID:   p.Provider,
			UserID:       u.ID,
			AccessToken:  p.AccessToken,
			RefreshToken: p.RefreshToken,
			Scope:        p.Scope,
		})
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, err
		}
		return nil, storeError("social login", err)
	}

	return s.openSession(ctx, user, meta)
}

// Resolve maps request credentials to a user id. A valid access token wins;
// otherwise a live session token is accepted.
func (s *UserService) Resolve(ctx context.Context, c Credentials) (string, error) {
	var tokenErr error
	if c.AccessToken != "" {
		userID, err := auth.GetUserIDFromToken(c.AccessToken, s.jwtSecret)
		if err == nil {
			return userID, nil
		}
		tokenErr = err
	}

	if c.SessionToken == "" {
		if tokenErr != nil {
			return "", fmt.Errorf("%w: %w", common.ErrorUnauthorized, tokenErr)
		}
		return "", fmt.Errorf("%w: anonymous", common.ErrorUnauthorized)
	}

	sess, err := s.findSession(ctx, s.repomanager.DB(), c.SessionToken)
	if err != nil {
		return "", err
	}
	return sess.UserID, nil
}

// RefreshToken rotates the session behind sessionToken and returns a new
// token pair. The old token stops working.
func (s *UserService) RefreshToken(ctx context.Context, sessionToken string) (*models.TokenPair, error) {
	if sessionToken == "" {
		return nil, fmt.Errorf("%w: missing refresh token", common.ErrorUnauthorized)
	}

	var pair *models.TokenPair
	err := s.repomanager.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		old, err := s.findSession(ctx, tx, sessionToken)
		if err != nil {
			return err
		}

		repo := s.repomanager.Sessions(tx)
		if err := repo.Delete(ctx, sessionToken); err != nil {
			return err
		}

		pair, err = s.issue(ctx, tx, old.UserID, SessionMeta{IPAddress: old.IPAddress, UserAgent: old.UserAgent})
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return nil, err
		}
		return nil, storeError("refresh token", err)
	}
	return pair, nil
}

// Logout ends the session. Unknown tokens are ignored.
func (s *UserService) Logout(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return nil
	}
	if err := s.repomanager.Sessions(s.repomanager.DB()).Delete(ctx, sessionToken); err != nil {
		return storeError("logout", err)
	}
	return nil
}

// Me returns the profile of userID.
func (s *UserService) Me(ctx context.Context, userID string) (*models.User, error) {
	if err := requireOwner(userID); err != nil {
		return nil, err
	}
	u, err := s.repomanager.Users(s.repomanager.DB()).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: user %s", common.ErrorUnauthorized, userID)
		}
		return nil, storeError("me", err)
	}
	return u, nil
}

// SweepExpiredSessions deletes every session that has expired by now.
func (s *UserService) SweepExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.repomanager.Sessions(s.repomanager.DB()).DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, storeError("sweep sessions", err)
	}
	return n, nil
}

func (s *UserService) findSession(ctx context.Context, db dbx.DBTX, token string) (*models.Session, error) {
	sess, err := s.repomanager.Sessions(db).FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: unknown session", common.ErrorUnauthorized)
		}
		return nil, storeError("find session", err)
	}
	if sess.Expired(s.now()) {
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, common.ErrSessionExpired)
	}
	return sess, nil
}

func (s *UserService) openSession(ctx context.Context, user *models.User, meta SessionMeta) (*LoginResult, error) {
	pair, err := s.issue(ctx, s.repomanager.DB(), user.ID, meta)
	if err != nil {
		return nil, storeError("open session", err)
	}
	return &LoginResult{User: user, Tokens: *pair}, nil
}

// issue stores a new session for userID through db and signs an access
// token to go with it.
func (s *UserService) issue(ctx context.Context, db dbx.DBTX, userID string, meta SessionMeta) (*models.TokenPair, error) {
	access, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenTTL)
	if err != nil {
		return nil, err
	}
	token, err := cryptox.NewToken(sessionTokenBytes)
	if err != nil {
		return nil, err
	}

	sess := &models.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: s.now().Add(s.sessionTTL).UTC(),
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	}
	if err := s.repomanager.Sessions(db).Create(ctx, sess); err != nil {
		return nil, err
	}

	return &models.TokenPair{AccessToken: access, RefreshToken: token, ExpiresAt: sess.ExpiresAt}, nil
}

// burnHash verifies password against a throwaway hash so that a login for
// an unknown email costs the same as one with a wrong password.
func (s *UserService) burnHash(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = cryptox.HashPassword("gophjournal", s.hashParams)
	})
	if s.dummyHash != "" {
		_, _ = cryptox.VerifyPassword(password, s.dummyHash)
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", fmt.Errorf("%w: email is required", common.ErrorValidation)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: invalid email %q", common.ErrorValidation, email)
	}
	return email, nil
}
