package service

import (
	"context"
	"testing"

	"github.com/logistica/estoque-auth/internal/auth/domain"
	"github.com/logistica/estoque-auth/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestBootstrap(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &BootstrapService{Store: st, Token: "setup-token"}

	t.Run("empty system is not bootstrapped", func(t *testing.T) {
		ok, err := svc.IsBootstrapped(ctx)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("wrong token refused", func(t *testing.T) {
		_, _, err := svc.Bootstrap(ctx, "wrong", domain.BootstrapData{AdminUsername: "root"})
		require.ErrorIs(t, err, ErrBootstrapUnauthorized)
	})

	t.Run("creates the first administrator with a generated password", func(t *testing.T) {
		adminID, password, err := svc.Bootstrap(ctx, "setup-token", domain.BootstrapData{
			AdminUsername: "root",
			AdminEmail:    "root@estoque.local",
		})
		require.NoError(t, err)
		require.NotEmpty(t, adminID)
		require.NotEmpty(t, password)

		admin, err := st.Users().GetUserByID(ctx, adminID)
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdministrator, admin.Role)
		require.True(t, admin.Active)
		require.NoError(t, cryptox.VerifyPassword(password, admin.PasswordHash))
	})

	t.Run("second attempt refused", func(t *testing.T) {
		ok, err := svc.IsBootstrapped(ctx)
		require.NoError(t, err)
		require.True(t, ok)

		_, _, err = svc.Bootstrap(ctx, "setup-token", domain.BootstrapData{AdminUsername: "root2"})
		require.ErrorIs(t, err, ErrBootstrapAlready)
	})
}

func TestBootstrapWithSuppliedPassword(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &BootstrapService{Store: st, Token: "setup-token"}

	adminID, password, err := svc.Bootstrap(ctx, "setup-token", domain.BootstrapData{
		AdminUsername: "root",
		AdminPassword: "chosen-by-operator",
	})
	require.NoError(t, err)
	require.Equal(t, "chosen-by-operator", password)

	admin, err := st.Users().GetUserByID(ctx, adminID)
	require.NoError(t, err)
	require.NoError(t, cryptox.VerifyPassword("chosen-by-operator", admin.PasswordHash))
}
