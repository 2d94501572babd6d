package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/logistica/estoque-auth/internal/auth/domain"
	"github.com/logistica/estoque-auth/internal/auth/store"
	"github.com/logistica/estoque-auth/pkg/idx"
	"github.com/logistica/estoque-auth/pkg/slogx"
)

// PermissionService manages the permission catalog and per-user grants.
// Catalog entries are append-only; grants are replaced atomically.
type PermissionService struct {
	Store store.Store
}

// List returns the full catalog, ordered by name.
func (s *PermissionService) List(ctx context.Context) ([]domain.Permission, error) {
	return s.Store.Permissions().ListPermissions(ctx)
}

// EnsureRegistered registers the named permission if it is not already
// in the catalog, and returns the catalog entry either way.
func (s *PermissionService) EnsureRegistered(ctx context.Context, name, description string) (domain.Permission, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Permission{}, ErrMissingFields
	}
	return ensureRegistered(ctx, s.Store, name, description)
}

func ensureRegistered(ctx context.Context, st store.Store, name, description string) (domain.Permission, error) {
	perm, err := st.Permissions().GetPermissionByName(ctx, name)
	if err == nil {
		return perm, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.Permission{}, err
	}

	perm = domain.Permission{
		ID:          idx.New().String(),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := st.Permissions().CreatePermission(ctx, perm); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Lost a race with a concurrent registration; the winner's
			// entry is just as good.
			return st.Permissions().GetPermissionByName(ctx, name)
		}
		return domain.Permission{}, err
	}

	slogx.FromContext(ctx).Info("permission registered", slog.String("name", name))
	return perm, nil
}

// GrantsFor returns the permission names granted directly to the user,
// ordered by name. The administrator bypass is the caller's concern.
func (s *PermissionService) GrantsFor(ctx context.Context, userID string) ([]string, error) {
	return s.Store.Grants().ListGrantNamesForUser(ctx, userID)
}

// ReplaceGrants swaps the user's grant set for exactly the named
// permissions, in one transaction. Names absent from the catalog are
// registered first, so a partial replacement is never observable.
func (s *PermissionService) ReplaceGrants(ctx context.Context, userID, grantedBy string, names []string) error {
	l := slogx.FromContext(ctx)

	seen := make(map[string]struct{}, len(names))
	cleaned := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		cleaned = append(cleaned, name)
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().GetUserByID(ctx, userID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}

		now := time.Now().UTC()
		perms := make([]domain.Permission, 0, len(cleaned))
		for _, name := range cleaned {
			perm, err := ensureRegistered(ctx, tx, name, "registered during a grant update")
			if err != nil {
				return err
			}
			perms = append(perms, perm)
		}

		if err := tx.Grants().DeleteGrantsForUser(ctx, userID); err != nil {
			return err
		}
		for _, perm := range perms {
			err := tx.Grants().CreateGrant(ctx, domain.Grant{
				UserID:       userID,
				PermissionID: perm.ID,
				GrantedBy:    grantedBy,
				GrantedAt:    now,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	l.Info("grants replaced",
		slog.String("user_id", userID),
		slog.Int("count", len(cleaned)),
	)
	return nil
}

// permissionsFor derives the effective permission set for an identity:
// the full catalog for administrators, direct grants otherwise.
func permissionsFor(ctx context.Context, st store.Store, user domain.User) ([]string, error) {
	if user.Role.IsAdmin() {
		perms, err := st.Permissions().ListPermissions(ctx)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(perms))
		for _, p := range perms {
			names = append(names, p.Name)
		}
		return names, nil
	}
	return st.Grants().ListGrantNamesForUser(ctx, user.ID)
}
