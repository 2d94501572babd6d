package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/logistica/estoque-auth/internal/auth/domain"
	"github.com/logistica/estoque-auth/internal/auth/store"
	"github.com/logistica/estoque-auth/pkg/cryptox"
	"github.com/logistica/estoque-auth/pkg/idx"
	"github.com/logistica/estoque-auth/pkg/slogx"
)

// SessionService issues and validates opaque session tokens. Only the
// SHA-256 fingerprint of a token is ever persisted; presenting the
// token is the only way to reach the session record.
type SessionService struct {
	Store store.Store

	// TTL is the default session lifetime; RememberTTL is the extended
	// lifetime selected by the remember flag at login.
	TTL         time.Duration
	RememberTTL time.Duration
}

// Create issues a new active session for the user and returns the
// plaintext token with its expiry. The token cannot be recovered later.
func (s *SessionService) Create(ctx context.Context, userID string, remember bool) (string, domain.Session, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", domain.Session{}, err
	}

	ttl := s.TTL
	if remember {
		ttl = s.RememberTTL
	}

	now := time.Now().UTC()
	session := domain.Session{
		ID:        idx.New().String(),
		TokenHash: cryptox.FingerprintToken(token),
		UserID:    userID,
		Status:    domain.SessionActive,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		UpdatedAt: now,
	}

	if err := s.Store.Sessions().CreateSession(ctx, session); err != nil {
		return "", domain.Session{}, err
	}

	slogx.FromContext(ctx).Debug("session created",
		slog.String("session_id", session.ID),
		slog.String("user_id", userID),
		slog.Time("expires_at", session.ExpiresAt),
	)
	return token, session, nil
}

// Validate resolves a presented token to its session and owning user.
// A session past its deadline is marked expired on first sight (lazy
// expiry) and fails validation; a session owned by a deactivated
// account fails too. All failures surface ErrUnauthenticated.
func (s *SessionService) Validate(ctx context.Context, token string) (domain.Session, domain.User, error) {
	l := slogx.FromContext(ctx)

	if token == "" {
		return domain.Session{}, domain.User{}, ErrUnauthenticated
	}

	session, err := s.Store.Sessions().GetSessionByTokenHash(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Session{}, domain.User{}, ErrUnauthenticated
		}
		return domain.Session{}, domain.User{}, err
	}

	if session.Status != domain.SessionActive {
		l.Debug("rejected terminal session",
			slog.String("session_id", session.ID),
			slog.String("status", string(session.Status)),
		)
		return domain.Session{}, domain.User{}, ErrUnauthenticated
	}

	if session.ExpiredAt(time.Now().UTC()) {
		if err := s.Store.Sessions().SetSessionStatus(ctx, session.ID, domain.SessionExpired); err != nil {
			l.Error("failed to persist lazy expiry", slog.String("session_id", session.ID), slog.Any("error", err))
		}
		return domain.Session{}, domain.User{}, ErrUnauthenticated
	}

	user, err := s.Store.Users().GetUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Session{}, domain.User{}, ErrUnauthenticated
		}
		return domain.Session{}, domain.User{}, err
	}
	if !user.Active {
		l.Debug("rejected session of deactivated account", slog.String("user_id", user.ID))
		return domain.Session{}, domain.User{}, ErrUnauthenticated
	}

	return session, user, nil
}

// Revoke marks the session behind the token as revoked. Revoking an
// already-terminal or unknown session is a no-op so logout is always
// safe to retry.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	session, err := s.Store.Sessions().GetSessionByTokenHash(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	if session.Status != domain.SessionActive {
		return nil
	}

	if err := s.Store.Sessions().SetSessionStatus(ctx, session.ID, domain.SessionRevoked); err != nil {
		return err
	}

	slogx.FromContext(ctx).Debug("session revoked", slog.String("session_id", session.ID))
	return nil
}

// RevokeAllForUser revokes every active session the user owns.
func (s *SessionService) RevokeAllForUser(ctx context.Context, userID string) error {
	return s.Store.Sessions().RevokeAllUserSessions(ctx, userID)
}
