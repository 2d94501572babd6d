package auth_test

import (
	"testing"

	"github.com/logistica/estoque-auth/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestLoginAndSessionLifecycle(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)
	ctx := t.Context()
	bootstrapService(t, client)

	t.Run("login yields a valid session", func(t *testing.T) {
		session := adminLogin(t, client)

		check, err := session.CheckSession(ctx)
		require.NoError(t, err)
		require.True(t, check.Authenticated)
		require.NotNil(t, check.User)
		require.Equal(t, adminUsername, check.User.Username)
		require.NotEmpty(t, check.Permissions)

		require.NoError(t, session.Logout(ctx))

		// The same token is dead after logout.
		check, err = session.CheckSession(ctx)
		require.NoError(t, err)
		require.False(t, check.Authenticated)
		require.Nil(t, check.User)
	})

	t.Run("wrong password and unknown user return the same error", func(t *testing.T) {
		_, wrongPass := client.Login(ctx, authsdk.LoginRequest{
			Username: adminUsername,
			Password: "not-the-password",
		})
		requireAPIErrorCode(t, wrongPass, authsdk.ErrorCodeInvalidCredentials)

		_, unknown := client.Login(ctx, authsdk.LoginRequest{
			Username: "ghost",
			Password: "whatever",
		})
		requireAPIErrorCode(t, unknown, authsdk.ErrorCodeInvalidCredentials)

		wp := wrongPass.(*authsdk.APIError)
		un := unknown.(*authsdk.APIError)
		require.Equal(t, wp.StatusCode, un.StatusCode)
		require.Equal(t, wp.Description, un.Description, "responses must not distinguish the two cases")
	})

	t.Run("remember extends the session deadline", func(t *testing.T) {
		short := adminLogin(t, client)
		defer func() { _ = short.Logout(ctx) }()

		long, err := client.Login(ctx, authsdk.LoginRequest{
			Username: adminUsername,
			Password: adminPassword,
			Remember: true,
		})
		require.NoError(t, err)
		defer func() { _ = long.Logout(ctx) }()

		require.True(t, long.ExpiresAt().After(short.ExpiresAt()))
	})

	t.Run("require_admin refuses standard accounts", func(t *testing.T) {
		admin := adminLogin(t, client)
		defer func() { _ = admin.Logout(ctx) }()

		_, err := admin.CreateUser(ctx, authsdk.CreateUserRequest{
			Username: "clerk",
			Password: "Clerk123!",
			Role:     "standard",
		})
		require.NoError(t, err)

		_, err = client.Login(ctx, authsdk.LoginRequest{
			Username:     "clerk",
			Password:     "Clerk123!",
			RequireAdmin: true,
		})
		requireAPIErrorCode(t, err, authsdk.ErrorCodeInsufficientPrivilege)

		// Without the flag the same credentials work.
		session, err := client.Login(ctx, authsdk.LoginRequest{
			Username: "clerk",
			Password: "Clerk123!",
		})
		require.NoError(t, err)
		require.NoError(t, session.Logout(ctx))
	})
}

func TestTokenLogin(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)
	ctx := t.Context()
	bootstrapService(t, client)

	admin := adminLogin(t, client)
	defer func() { _ = admin.Logout(ctx) }()

	_, err := admin.CreateUser(ctx, authsdk.CreateUserRequest{
		Username: "operator",
		Password: "Operator123!",
		Role:     "standard",
		Token:    "nfc-tag-operator",
	})
	require.NoError(t, err)

	t.Run("enrolled credential logs in", func(t *testing.T) {
		session, err := client.TokenLogin(ctx, authsdk.TokenLoginRequest{Token: "nfc-tag-operator"})
		require.NoError(t, err)
		require.Equal(t, "operator", session.User().Username)
		require.NoError(t, session.Logout(ctx))
	})

	t.Run("unknown credential is invalid_credentials", func(t *testing.T) {
		_, err := client.TokenLogin(ctx, authsdk.TokenLoginRequest{Token: "nfc-tag-unknown"})
		requireAPIErrorCode(t, err, authsdk.ErrorCodeInvalidCredentials)
	})
}
