package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/logistica/estoque-auth/internal/auth/domain"
	"github.com/logistica/estoque-auth/internal/auth/store"
	"github.com/logistica/estoque-auth/pkg/cryptox"
	"github.com/logistica/estoque-auth/pkg/idx"
	"github.com/logistica/estoque-auth/pkg/slogx"
)

var (
	ErrBootstrapAlready             = errors.New("system already bootstrapped")
	ErrBootstrapUnauthorized        = errors.New("unauthorized bootstrap attempt")
	ErrBootstrapFailedToCreateAdmin = errors.New("failed to create admin user")
)

// BootstrapService creates the first administrator on an empty system.
// Together with the last-administrator refusal this guarantees the
// system is never without an active administrator once set up.
type BootstrapService struct {
	Store store.Store
	Token string // Pre-configured bootstrap token
}

// IsBootstrapped reports whether any user exists yet.
func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

// Bootstrap creates the initial administrator. If req.AdminPassword is
// empty a password is generated and returned; retrieve it from the
// response, it is not stored anywhere in plaintext.
func (s *BootstrapService) Bootstrap(ctx context.Context, token string, req domain.BootstrapData) (string, string, error) {
	l := slogx.FromContext(ctx)

	if bootstrapped, _ := s.IsBootstrapped(ctx); bootstrapped {
		l.Warn("attempted bootstrap on already-bootstrapped system")
		return "", "", ErrBootstrapAlready
	}

	if token != s.Token {
		l.Warn("unauthorized bootstrap attempt")
		return "", "", ErrBootstrapUnauthorized
	}

	username := strings.TrimSpace(req.AdminUsername)
	if username == "" {
		return "", "", ErrMissingFields
	}

	password := req.AdminPassword
	if password == "" {
		generated, err := cryptox.GeneratePassword()
		if err != nil {
			l.Error("failed to generate admin password", slog.Any("error", err))
			return "", "", ErrBootstrapFailedToCreateAdmin
		}
		password = generated
	}

	passHash, err := cryptox.HashPassword(password)
	if err != nil {
		l.Error("failed to hash admin password", slog.Any("error", err))
		return "", "", ErrBootstrapFailedToCreateAdmin
	}

	now := time.Now().UTC()
	adminUserID := idx.New().String()
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// Re-check inside the transaction so concurrent bootstrap
		// attempts cannot both win.
		empty, err := tx.Users().IsEmpty(ctx)
		if err != nil {
			return err
		}
		if !empty {
			return ErrBootstrapAlready
		}

		return tx.Users().CreateUser(ctx, domain.User{
			ID:           adminUserID,
			Username:     username,
			Email:        strings.TrimSpace(req.AdminEmail),
			PasswordHash: passHash,
			Role:         domain.RoleAdministrator,
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	})
	if err != nil {
		if errors.Is(err, ErrBootstrapAlready) {
			return "", "", err
		}
		l.Error("failed to create admin user", slog.String("admin_user_id", adminUserID), slog.Any("error", err))
		return "", "", ErrBootstrapFailedToCreateAdmin
	}

	l.Info("successfully bootstrapped system", slog.String("admin_user_id", adminUserID))
	return adminUserID, password, nil
}
