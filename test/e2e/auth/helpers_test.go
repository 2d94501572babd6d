package auth_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/logistica/estoque-auth/pkg/authsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for auth service end-to-end tests.
 * This includes container setup, service operations, and assertions.
 */

const (
	testImageName = "estoque-auth-test:latest"

	bootstrapToken = "test-bootstrap-token-12345"
	adminUsername  = "admin"
	adminPassword  = "Admin123!"
)

// TestMain manages the test lifecycle, builds the Docker image once before
// all tests and cleans it up after all tests complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building Auth Service Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up Auth Service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

// buildDockerImage builds the test Docker image if it doesn't exist.
func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/auth/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

// cleanupDockerImage removes the test Docker image.
func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // Ignore errors - image might not exist
}

// setupAuthContainer starts the auth service in a container and returns the base URL.
// Rate limits are raised well above the defaults so rapid test traffic never trips them;
// use setupAuthContainerWithDefaultRateLimits to test the limiter itself.
func setupAuthContainer(t *testing.T) (string, func()) {
	t.Helper()
	return startContainer(t, map[string]string{
		"RATELIMIT_STRICT_REQUESTS":   "1000",
		"RATELIMIT_STRICT_WINDOW_SEC": "60",
		"RATELIMIT_STRICT_BURST":      "1000",
		"RATELIMIT_MODERATE_REQUESTS": "1000",
		"RATELIMIT_MODERATE_BURST":    "1000",
		"RATELIMIT_LENIENT_REQUESTS":  "2000",
		"RATELIMIT_LENIENT_BURST":     "2000",
	})
}

// setupAuthContainerWithDefaultRateLimits starts the auth service with
// production rate limits, for testing that rate limiting actually works.
func setupAuthContainerWithDefaultRateLimits(t *testing.T) (string, func()) {
	t.Helper()
	return startContainer(t, nil)
}

func startContainer(t *testing.T, extraEnv map[string]string) (string, func()) {
	t.Helper()
	ctx := context.Background()

	env := map[string]string{
		"BOOTSTRAP_TOKEN":    bootstrapToken,
		"AUTH_DATABASE_FILE": "/tmp/auth.db",
		"AUTH_PEPPER_FILE":   "/tmp/pepper",
		"ENV":                "test",
		"LOG_LEVEL":          "info",
		"LOG_FORMAT":         "json",
	}
	for k, v := range extraEnv {
		env[k] = v
	}

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env:          env,
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%s", host, mappedPort.Port())

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return baseURL, cleanup
}

// bootstrapService bootstraps the auth service and returns the admin user ID.
func bootstrapService(t *testing.T, client *authsdk.SDKClient) string {
	t.Helper()
	ctx := context.Background()

	resp, err := client.Bootstrap(ctx, bootstrapToken, authsdk.BootstrapRequest{
		AdminUsername: adminUsername,
		AdminEmail:    "admin@estoque.local",
		AdminPassword: adminPassword,
	})
	require.NoError(t, err, "Bootstrap should succeed")
	require.NotEmpty(t, resp.AdminUserID, "Admin user ID should not be empty")
	require.Equal(t, adminPassword, resp.Password, "Supplied password should be echoed back")

	return resp.AdminUserID
}

// adminLogin bootstraps (if needed) and logs in as the administrator.
func adminLogin(t *testing.T, client *authsdk.SDKClient) *authsdk.Session {
	t.Helper()

	session, err := client.Login(t.Context(), authsdk.LoginRequest{
		Username: adminUsername,
		Password: adminPassword,
	})
	require.NoError(t, err, "Admin login should succeed")
	require.NotNil(t, session)

	return session
}

// requireAPIErrorCode asserts that err is an APIError with the given code.
func requireAPIErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)

	apiErr, ok := err.(*authsdk.APIError)
	require.True(t, ok, "expected *authsdk.APIError, got %T: %v", err, err)
	require.Equal(t, code, apiErr.Code)
}
