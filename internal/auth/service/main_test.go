package service

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/logistica/estoque-auth/internal/auth/domain"
	"github.com/logistica/estoque-auth/internal/auth/store"
	"github.com/logistica/estoque-auth/internal/auth/store/drivers/sqlite"
	"github.com/logistica/estoque-auth/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "estoque-auth-service-test")
	if err != nil {
		slog.Error("failed to create temp dir", slog.Any("err", err))
		os.Exit(1)
	}
	defer os.RemoveAll(dir)

	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	os.Exit(m.Run())
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

// seedUser creates an active user directly in the store and returns it.
func seedUser(t *testing.T, st store.Store, username, password string, role domain.Role) domain.User {
	t.Helper()

	creds := &CredentialService{Store: st}
	user, err := creds.CreateUser(context.Background(), CreateUserRequest{
		Username: username,
		Email:    username + "@estoque.local",
		Password: password,
		Role:     role,
	})
	require.NoError(t, err)
	return user
}

func newSessionService(st store.Store) *SessionService {
	return &SessionService{
		Store:       st,
		TTL:         time.Hour,
		RememberTTL: 30 * 24 * time.Hour,
	}
}
