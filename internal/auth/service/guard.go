package service

import (
	"context"
	"log/slog"

	"github.com/logistica/estoque-auth/internal/auth/domain"
	"github.com/logistica/estoque-auth/internal/auth/store"
	"github.com/logistica/estoque-auth/pkg/slogx"
)

// GuardService answers the access-control questions handlers ask at the
// top of each protected operation. Checks are read-only apart from the
// lazy expiry write inside session validation. Denials never name the
// permission that was missing; that detail goes to the logs.
type GuardService struct {
	Store    store.Store
	Sessions *SessionService
}

// RequireSession validates the presented token and returns its owner.
// Any failure is ErrUnauthenticated.
func (s *GuardService) RequireSession(ctx context.Context, token string) (domain.User, error) {
	_, user, err := s.Sessions.Validate(ctx, token)
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// RequireAdmin validates the session and requires its owner to be an
// administrator. A valid session without the role yields ErrForbidden.
func (s *GuardService) RequireAdmin(ctx context.Context, token string) (domain.User, error) {
	user, err := s.RequireSession(ctx, token)
	if err != nil {
		return domain.User{}, err
	}
	if !user.Role.IsAdmin() {
		slogx.FromContext(ctx).Warn("admin surface denied", slog.String("user_id", user.ID))
		return domain.User{}, ErrForbidden
	}
	return user, nil
}

// RequirePermission validates the session and requires the named
// permission. Administrators pass regardless of their grants but still
// need a valid session.
func (s *GuardService) RequirePermission(ctx context.Context, token, permission string) (domain.User, error) {
	user, err := s.RequireSession(ctx, token)
	if err != nil {
		return domain.User{}, err
	}
	if user.Role.IsAdmin() {
		return user, nil
	}

	names, err := s.Store.Grants().ListGrantNamesForUser(ctx, user.ID)
	if err != nil {
		return domain.User{}, err
	}
	for _, name := range names {
		if name == permission {
			return user, nil
		}
	}

	slogx.FromContext(ctx).Warn("permission denied",
		slog.String("user_id", user.ID),
		slog.String("permission", permission),
	)
	return domain.User{}, ErrForbidden
}

// PermissionsFor derives the effective permission set for an already
// authenticated user: the full catalog for administrators, direct
// grants otherwise.
func (s *GuardService) PermissionsFor(ctx context.Context, user domain.User) ([]string, error) {
	return permissionsFor(ctx, s.Store, user)
}
