// Package oauth implements social login providers on top of x/oauth2.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

// Profile is the identity returned by a provider after a successful code
// exchange.
type Profile struct {
	Provider      string
	AccountID     string
	Email         string
	EmailVerified bool
	Name          string
	Image         string
	AccessToken   string
	RefreshToken  string
	Scope         string
}

// Provider drives the authorization code flow for one identity provider.
type Provider interface {
	// AuthCodeURL returns the consent page URL for state and PKCE verifier.
	AuthCodeURL(state, verifier string) string
	// Exchange trades code for tokens and fetches the user's profile.
	Exchange(ctx context.Context, code, verifier string) (*Profile, error)
}

const googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// Google is the Google OpenID Connect provider.
type Google struct {
	cfg         *oauth2.Config
	userInfoURL string
}

func NewGoogle(clientID, clientSecret, redirectURL string) *Google {
	return newGoogle(clientID, clientSecret, redirectURL, endpoints.Google, googleUserInfoURL)
}

func newGoogle(clientID, clientSecret, redirectURL string, endpoint oauth2.Endpoint, userInfoURL string) *Google {
	return &Google{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		userInfoURL: userInfoURL,
	}
}

func (g *Google) AuthCodeURL(state, verifier string) string {
	return g.cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier))
}

type googleUserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (g *Google) Exchange(ctx context.Context, code, verifier string) (*Profile, error) {
	tok, err := g.cfg.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("%w: code exchange: %v", common.ErrorUnauthorized, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.cfg.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, fmt.Errorf("userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: userinfo: %s; body: %s", common.ErrorUnauthorized, resp.Status, string(b))
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if info.Sub == "" {
		return nil, fmt.Errorf("%w: userinfo without subject", common.ErrorUnauthorized)
	}

	scope, _ := tok.Extra("scope").(string)

	return &Profile{
		Provider:      common.ProviderGoogle,
		AccountID:     info.Sub,
		Email:         info.Email,
		EmailVerified: info.EmailVerified,
		Name:          info.Name,
		Image:         info.Picture,
		AccessToken:   tok.AccessToken,
		RefreshToken:  tok.RefreshToken,
		Scope:         scope,
	}, nil
}

// NewVerifier returns a fresh PKCE code verifier.
func NewVerifier() string {
	return oauth2.GenerateVerifier()
}
