package auth_test

import (
	"net/http"
	"testing"

	"github.com/logistica/estoque-auth/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestLoginRateLimit(t *testing.T) {
	baseURL, cleanup := setupAuthContainerWithDefaultRateLimits(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)
	ctx := t.Context()
	bootstrapService(t, client)

	// The login endpoint runs the strict profile, 5 requests per minute
	// per source address. Failed attempts count the same as successes.
	var limited *authsdk.APIError
	for i := 0; i < 10; i++ {
		_, err := client.Login(ctx, authsdk.LoginRequest{
			Username: "nobody",
			Password: "wrong-password",
		})
		require.Error(t, err)

		apiErr, ok := err.(*authsdk.APIError)
		require.True(t, ok, "expected an APIError, got %T", err)
		if apiErr.StatusCode == http.StatusTooManyRequests {
			limited = apiErr
			break
		}
		require.Equal(t, authsdk.ErrorCodeInvalidCredentials, apiErr.Code)
	}

	require.NotNil(t, limited, "login endpoint never rate limited")
	require.Equal(t, "rate_limit_exceeded", limited.Code)
}
