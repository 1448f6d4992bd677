package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/Giri-Aayush/sui-faucet-console/internal/models"
	"github.com/Giri-Aayush/sui-faucet-console/internal/session"
	"github.com/Giri-Aayush/sui-faucet-console/pkg/utils"
	"go.uber.org/zap"
)

const (
	loginPath   = "/api/v1/auth/login"
	profilePath = "/api/v1/auth/profile"
)

// AuthAPI manages the admin session
type AuthAPI struct {
	anonymous *Caller
	authed    *Caller
	session   *session.Session
	logger    *zap.Logger
}

// Login exchanges credentials for a bearer token and stores it. On any
// failure the current session is left untouched.
func (a *AuthAPI) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	creds := models.LoginRequest{Username: strings.TrimSpace(username), Password: password}
	if err := utils.ValidateStruct(creds); err != nil {
		return nil, &Error{Kind: KindInvalidRequest, Message: "Please enter both username and password", Err: err}
	}

	var resp models.LoginResponse
	if err := a.anonymous.PostJSON(ctx, loginPath, creds, &resp); err != nil {
		return nil, err
	}

	token := resp.BearerToken()
	if token == "" {
		return nil, ErrMissingToken
	}
	if err := a.session.SetToken(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	a.logger.Info("Logged in", zap.String("username", creds.Username))
	return &resp, nil
}

// Logout drops the stored token. No request is made.
func (a *AuthAPI) Logout(ctx context.Context) error {
	return a.session.Clear(ctx)
}

// GetProfile returns the logged-in admin's profile
func (a *AuthAPI) GetProfile(ctx context.Context) (map[string]any, error) {
	var profile map[string]any
	if err := a.authed.GetJSON(ctx, profilePath, nil, &profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// IsAuthenticated reports whether a token is held
func (a *AuthAPI) IsAuthenticated() bool {
	return a.session.HasToken()
}

// HoldsToken reports whether token is the session's active token
func (a *AuthAPI) HoldsToken(token string) bool {
	return a.session.Matches(token)
}

// Claims decodes the held token for display
func (a *AuthAPI) Claims() (*session.TokenClaims, error) {
	return a.session.Claims()
}
