package service

import (
	"context"
	"testing"

	"github.com/logistica/estoque-auth/internal/auth/domain"
	"github.com/stretchr/testify/require"
)

func TestGuardRequireSession(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sessions := newSessionService(st)
	guard := &GuardService{Store: st, Sessions: sessions}

	user := seedUser(t, st, "alice", "pw", domain.RoleStandard)
	token, _, err := sessions.Create(ctx, user.ID, false)
	require.NoError(t, err)

	got, err := guard.RequireSession(ctx, token)
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)

	_, err = guard.RequireSession(ctx, "never-issued")
	require.ErrorIs(t, err, ErrUnauthenticated)

	require.NoError(t, sessions.Revoke(ctx, token))
	_, err = guard.RequireSession(ctx, token)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestGuardRequireAdmin(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sessions := newSessionService(st)
	guard := &GuardService{Store: st, Sessions: sessions}

	standard := seedUser(t, st, "alice", "pw", domain.RoleStandard)
	admin := seedUser(t, st, "root", "pw", domain.RoleAdministrator)

	standardToken, _, err := sessions.Create(ctx, standard.ID, false)
	require.NoError(t, err)
	adminToken, _, err := sessions.Create(ctx, admin.ID, false)
	require.NoError(t, err)

	got, err := guard.RequireAdmin(ctx, adminToken)
	require.NoError(t, err)
	require.Equal(t, admin.ID, got.ID)

	// Valid session without the role is forbidden, not unauthenticated.
	_, err = guard.RequireAdmin(ctx, standardToken)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = guard.RequireAdmin(ctx, "never-issued")
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestGuardRequirePermission(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sessions := newSessionService(st)
	perms := &PermissionService{Store: st}
	guard := &GuardService{Store: st, Sessions: sessions}

	standard := seedUser(t, st, "alice", "pw", domain.RoleStandard)
	admin := seedUser(t, st, "root", "pw", domain.RoleAdministrator)

	require.NoError(t, perms.ReplaceGrants(ctx, standard.ID, admin.ID, []string{"view_reports"}))

	standardToken, _, err := sessions.Create(ctx, standard.ID, false)
	require.NoError(t, err)
	adminToken, _, err := sessions.Create(ctx, admin.ID, false)
	require.NoError(t, err)

	t.Run("granted permission passes", func(t *testing.T) {
		got, err := guard.RequirePermission(ctx, standardToken, "view_reports")
		require.NoError(t, err)
		require.Equal(t, standard.ID, got.ID)
	})

	t.Run("missing permission is forbidden", func(t *testing.T) {
		_, err := guard.RequirePermission(ctx, standardToken, "manage_users")
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("administrators bypass grants but still need a session", func(t *testing.T) {
		got, err := guard.RequirePermission(ctx, adminToken, "manage_users")
		require.NoError(t, err)
		require.Equal(t, admin.ID, got.ID)

		require.NoError(t, sessions.Revoke(ctx, adminToken))
		_, err = guard.RequirePermission(ctx, adminToken, "manage_users")
		require.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("permissions never granted still gate cleanly", func(t *testing.T) {
		_, err := guard.RequirePermission(ctx, standardToken, "not_in_catalog")
		require.ErrorIs(t, err, ErrForbidden)
	})
}

func TestGuardPermissionsFor(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sessions := newSessionService(st)
	perms := &PermissionService{Store: st}
	guard := &GuardService{Store: st, Sessions: sessions}

	standard := seedUser(t, st, "alice", "pw", domain.RoleStandard)
	admin := seedUser(t, st, "root", "pw", domain.RoleAdministrator)

	require.NoError(t, perms.ReplaceGrants(ctx, standard.ID, admin.ID, []string{"view_reports"}))

	names, err := guard.PermissionsFor(ctx, standard)
	require.NoError(t, err)
	require.Equal(t, []string{"view_reports"}, names)

	catalog, err := perms.List(ctx)
	require.NoError(t, err)

	adminNames, err := guard.PermissionsFor(ctx, admin)
	require.NoError(t, err)
	require.Len(t, adminNames, len(catalog))
}
