package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/logistica/estoque-auth/internal/auth/domain"
	"github.com/logistica/estoque-auth/internal/auth/store"
	"github.com/logistica/estoque-auth/pkg/cryptox"
	"github.com/logistica/estoque-auth/pkg/slogx"
)

// AuthService verifies credentials and issues sessions. Every failure
// on the credential path collapses to ErrInvalidCredentials so a caller
// cannot tell an unknown username from a wrong password or a
// deactivated account; the logs keep the distinction.
type AuthService struct {
	Store    store.Store
	Sessions *SessionService
}

// PasswordLoginRequest carries an interactive login attempt. Remember
// selects the extended session lifetime; RequireAdmin refuses
// non-administrators up front (used by the admin UI entrance).
type PasswordLoginRequest struct {
	Username     string
	Password     string
	Remember     bool
	RequireAdmin bool
}

// TokenLoginRequest carries a physical-credential login attempt. Token
// sessions are always short-lived.
type TokenLoginRequest struct {
	Token        string
	RequireAdmin bool
}

// AuthenticateByPassword verifies a username/password pair and issues a
// session on success.
func (s *AuthService) AuthenticateByPassword(ctx context.Context, req PasswordLoginRequest) (domain.AuthResult, error) {
	l := slogx.FromContext(ctx)

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return domain.AuthResult{}, ErrMissingFields
	}

	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Warn("login failed: unknown username", slog.String("username", username))
			return domain.AuthResult{}, ErrInvalidCredentials
		}
		return domain.AuthResult{}, err
	}

	// Verify before the active check so the work done is the same for
	// active and deactivated accounts.
	if cryptox.VerifyPassword(req.Password, user.PasswordHash) != nil {
		l.Warn("login failed: wrong password", slog.String("user_id", user.ID))
		return domain.AuthResult{}, ErrInvalidCredentials
	}

	if !user.Active {
		l.Warn("login failed: deactivated account", slog.String("user_id", user.ID))
		return domain.AuthResult{}, ErrInvalidCredentials
	}

	return s.finishLogin(ctx, user, req.Remember, req.RequireAdmin)
}

// AuthenticateByToken resolves a physical credential and issues a
// short-lived session on success.
func (s *AuthService) AuthenticateByToken(ctx context.Context, req TokenLoginRequest) (domain.AuthResult, error) {
	l := slogx.FromContext(ctx)

	if strings.TrimSpace(req.Token) == "" {
		return domain.AuthResult{}, ErrMissingFields
	}

	user, err := s.Store.Users().GetUserByTokenHash(ctx, cryptox.FingerprintToken(req.Token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Warn("token login failed: unknown credential")
			return domain.AuthResult{}, ErrInvalidCredentials
		}
		return domain.AuthResult{}, err
	}

	if !user.Active {
		l.Warn("token login failed: deactivated account", slog.String("user_id", user.ID))
		return domain.AuthResult{}, ErrInvalidCredentials
	}

	return s.finishLogin(ctx, user, false, req.RequireAdmin)
}

func (s *AuthService) finishLogin(ctx context.Context, user domain.User, remember, requireAdmin bool) (domain.AuthResult, error) {
	l := slogx.FromContext(ctx)

	if requireAdmin && !user.Role.IsAdmin() {
		l.Warn("login refused: administrator required", slog.String("user_id", user.ID))
		return domain.AuthResult{}, ErrInsufficientPrivilege
	}

	token, session, err := s.Sessions.Create(ctx, user.ID, remember)
	if err != nil {
		return domain.AuthResult{}, err
	}

	if err := s.Store.Users().UpdateLastAuth(ctx, user.ID, time.Now().UTC()); err != nil {
		l.Error("failed to record last authentication", slog.String("user_id", user.ID), slog.Any("error", err))
	}

	perms, err := permissionsFor(ctx, s.Store, user)
	if err != nil {
		return domain.AuthResult{}, err
	}

	l.Info("login succeeded",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
		slog.Bool("remember", remember),
	)

	return domain.AuthResult{
		User:         user,
		SessionToken: token,
		ExpiresAt:    session.ExpiresAt,
		Permissions:  perms,
	}, nil
}

// Logout revokes the presented session. Unknown or already-terminal
// tokens succeed silently.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.Sessions.Revoke(ctx, token)
}
