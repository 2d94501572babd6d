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

// CredentialService manages user account records. Lookups used on
// authentication paths only surface active accounts; an inactive account
// is indistinguishable from a missing one to the caller, with the
// granular reason going to the logs instead.
type CredentialService struct {
	Store store.Store
}

// CreateUserRequest carries the inputs for account creation. Password is
// the plaintext to hash; Token is an optional plaintext physical
// credential whose fingerprint is stored.
type CreateUserRequest struct {
	Username string
	Email    string
	Password string
	Role     domain.Role
	Token    string
}

// UpdateUserRequest carries optional mutations. Nil fields are left
// unchanged; a non-nil empty Token clears the physical credential.
type UpdateUserRequest struct {
	Email *string
	Role  *domain.Role
	Token *string
}

// FindByUsername returns the active user with the given username.
// Inactive and missing both yield ErrNotFound.
func (s *CredentialService) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByUsername(ctx, strings.TrimSpace(username))
	return s.onlyActive(ctx, user, err)
}

// FindByID returns the active user with the given id.
func (s *CredentialService) FindByID(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	return s.onlyActive(ctx, user, err)
}

// FindByToken resolves a physical credential to its active owner.
func (s *CredentialService) FindByToken(ctx context.Context, token string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByTokenHash(ctx, cryptox.FingerprintToken(token))
	return s.onlyActive(ctx, user, err)
}

func (s *CredentialService) onlyActive(ctx context.Context, user domain.User, err error) (domain.User, error) {
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	if !user.Active {
		slogx.FromContext(ctx).Debug("lookup hit deactivated account", slog.String("user_id", user.ID))
		return domain.User{}, ErrNotFound
	}
	return user, nil
}

// GetUser returns a user by id regardless of the active flag. Admin
// listings and edits operate on deactivated accounts too.
func (s *CredentialService) GetUser(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// ListUsers returns every account, active or not, oldest first.
func (s *CredentialService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

// CreateUser registers a new account. The username must be unique;
// collisions return ErrDuplicateIdentity without touching the record.
func (s *CredentialService) CreateUser(ctx context.Context, req CreateUserRequest) (domain.User, error) {
	l := slogx.FromContext(ctx)

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return domain.User{}, ErrMissingFields
	}
	if _, err := domain.ParseRole(string(req.Role)); err != nil {
		return domain.User{}, ErrMissingFields
	}

	passHash, err := cryptox.HashPassword(req.Password)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: passHash,
		Role:         req.Role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.Token != "" {
		hash := cryptox.FingerprintToken(req.Token)
		user.TokenHash = &hash
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			l.Warn("username or credential already taken", slog.String("username", username))
			return domain.User{}, ErrDuplicateIdentity
		}
		return domain.User{}, err
	}

	l.Info("user created",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
		slog.String("role", string(user.Role)),
	)
	return user, nil
}

// UpdateUser applies the non-nil fields of req to the account. Demoting
// the last active administrator to a standard role is refused with
// ErrLastAdministrator.
func (s *CredentialService) UpdateUser(ctx context.Context, userID string, req UpdateUserRequest) (domain.User, error) {
	l := slogx.FromContext(ctx)

	var updated domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}

		if req.Email != nil {
			user.Email = strings.TrimSpace(*req.Email)
		}
		if req.Role != nil {
			role, err := domain.ParseRole(string(*req.Role))
			if err != nil {
				return ErrMissingFields
			}
			if user.Role.IsAdmin() && !role.IsAdmin() && user.Active {
				admins, err := tx.Users().CountActiveAdmins(ctx)
				if err != nil {
					return err
				}
				if admins <= 1 {
					l.Warn("refused demotion of last administrator", slog.String("user_id", userID))
					return ErrLastAdministrator
				}
			}
			user.Role = role
		}
		if req.Token != nil {
			if *req.Token == "" {
				user.TokenHash = nil
			} else {
				hash := cryptox.FingerprintToken(*req.Token)
				user.TokenHash = &hash
			}
		}

		if err := tx.Users().UpdateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrDuplicateIdentity
			}
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	l.Info("user updated", slog.String("user_id", userID))
	return updated, nil
}

// SetPassword replaces the account's password hash. The plaintext is
// hashed before any store access and never logged.
func (s *CredentialService) SetPassword(ctx context.Context, userID, password string) error {
	if password == "" {
		return ErrMissingFields
	}

	passHash, err := cryptox.HashPassword(password)
	if err != nil {
		return err
	}

	if err := s.Store.Users().UpdatePasswordHash(ctx, userID, passHash); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	slogx.FromContext(ctx).Info("password changed", slog.String("user_id", userID))
	return nil
}

// Deactivate flips the account inactive and revokes every active session
// it owns, atomically. Deactivating the last active administrator is
// refused with ErrLastAdministrator so the system is never left without
// one. Records are never physically deleted.
func (s *CredentialService) Deactivate(ctx context.Context, userID string) error {
	l := slogx.FromContext(ctx)

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !user.Active {
			// Already inactive; nothing to do.
			return nil
		}

		if user.Role.IsAdmin() {
			admins, err := tx.Users().CountActiveAdmins(ctx)
			if err != nil {
				return err
			}
			if admins <= 1 {
				l.Warn("refused deactivation of last administrator", slog.String("user_id", userID))
				return ErrLastAdministrator
			}
		}

		if err := tx.Users().SetActive(ctx, userID, false); err != nil {
			return err
		}
		return tx.Sessions().RevokeAllUserSessions(ctx, userID)
	})
	if err != nil {
		return err
	}

	l.Info("user deactivated", slog.String("user_id", userID))
	return nil
}
