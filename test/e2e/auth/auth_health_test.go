package auth_test

import (
	"testing"

	"github.com/logistica/estoque-auth/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestHealthEndpoints(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)

	t.Run("livez reports ok", func(t *testing.T) {
		health, err := client.Livez(t.Context())
		require.NoError(t, err)
		require.Equal(t, "ok", health.Status)
		require.NotEmpty(t, health.Uptime)
		require.NotEmpty(t, health.Version)
	})

	t.Run("readyz reports ok with database check", func(t *testing.T) {
		health, err := client.Readyz(t.Context())
		require.NoError(t, err)
		require.Equal(t, "ok", health.Status)
		require.NotNil(t, health.Checks)
		require.Equal(t, "ok", health.Checks.Database)
	})
}
