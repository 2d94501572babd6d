package auth_test

import (
	"testing"

	"github.com/logistica/estoque-auth/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestBootstrapFlow(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)
	ctx := t.Context()

	t.Run("wrong token is refused", func(t *testing.T) {
		_, err := client.Bootstrap(ctx, "wrong-token", authsdk.BootstrapRequest{
			AdminUsername: adminUsername,
		})
		requireAPIErrorCode(t, err, authsdk.ErrorCodeUnauthenticated)
	})

	t.Run("bootstrap creates a working administrator", func(t *testing.T) {
		adminID := bootstrapService(t, client)

		session := adminLogin(t, client)
		defer func() { _ = session.Logout(ctx) }()

		require.Equal(t, adminID, session.User().ID)
		require.Equal(t, "administrator", session.User().Role)
		require.NotEmpty(t, session.Permissions(), "administrator should see the seeded catalog")
	})

	t.Run("second bootstrap is refused", func(t *testing.T) {
		_, err := client.Bootstrap(ctx, bootstrapToken, authsdk.BootstrapRequest{
			AdminUsername: "admin2",
		})
		requireAPIErrorCode(t, err, authsdk.ErrorCodeUnauthenticated)
	})
}

func TestBootstrapGeneratesPassword(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)
	ctx := t.Context()

	resp, err := client.Bootstrap(ctx, bootstrapToken, authsdk.BootstrapRequest{
		AdminUsername: "admin",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Password, "a password should be generated when none is supplied")

	session, err := client.Login(ctx, authsdk.LoginRequest{
		Username: "admin",
		Password: resp.Password,
	})
	require.NoError(t, err, "the generated password should work")
	require.NoError(t, session.Logout(ctx))
}
