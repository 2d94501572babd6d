package store

import (
	"context"
	"errors"
	"time"

	"github.com/logistica/estoque-auth/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for
// now) implement this. It exposes sub-repositories to keep concerns tidy
// and testable, and Tx/WithTx for the multi-step operations that must be
// atomic (grant replacement, deactivation with cascading revocation).
type Store interface {
	Users() Users
	Permissions() Permissions
	Grants() Grants
	Sessions() Sessions

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to handle transactions.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the backing store is still reachable.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id, active or not. Callers that must
	// not distinguish inactive from missing apply that policy themselves.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used during password authentication.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// GetUserByTokenHash resolves a physical-credential fingerprint.
	GetUserByTokenHash(ctx context.Context, tokenHash string) (domain.User, error)

	// ListUsers returns all users ordered by creation date (oldest first).
	ListUsers(ctx context.Context) ([]domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the username is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUser mutates email, role, token_hash and bumps updated_at.
	UpdateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets the password_hash (argon2id) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// UpdateLastAuth records the timestamp of a successful authentication.
	UpdateLastAuth(ctx context.Context, userID string, at time.Time) error

	// SetActive flips the active flag. Records are never physically deleted.
	SetActive(ctx context.Context, userID string, active bool) error

	// CountActiveAdmins returns the number of active administrator accounts.
	CountActiveAdmins(ctx context.Context) (int, error)

	// IsEmpty returns true if there are no users (bootstrap check).
	IsEmpty(ctx context.Context) (bool, error)
}

type Permissions interface {
	// GetPermissionByName fetches a catalog entry by its unique name.
	GetPermissionByName(ctx context.Context, name string) (domain.Permission, error)

	// ListPermissions returns the full catalog ordered by name.
	ListPermissions(ctx context.Context) ([]domain.Permission, error)

	// CreatePermission registers a new catalog entry. Returns
	// ErrAlreadyExists when the name is taken.
	CreatePermission(ctx context.Context, p domain.Permission) error
}

type Grants interface {
	// ListGrantNamesForUser returns the permission names the user holds
	// directly, ordered by name.
	ListGrantNamesForUser(ctx context.Context, userID string) ([]string, error)

	// CreateGrant inserts a single grant row.
	CreateGrant(ctx context.Context, g domain.Grant) error

	// DeleteGrantsForUser removes every grant the user holds. Used as the
	// first half of an atomic grant replacement.
	DeleteGrantsForUser(ctx context.Context, userID string) error
}

type Sessions interface {
	// CreateSession stores a new session record.
	CreateSession(ctx context.Context, s domain.Session) error

	// GetSessionByTokenHash returns the session by its token fingerprint.
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (domain.Session, error)

	// SetSessionStatus moves a session into a terminal state and bumps
	// updated_at. Terminal states are never left again.
	SetSessionStatus(ctx context.Context, sessionID string, status domain.SessionStatus) error

	// RevokeAllUserSessions marks every active session owned by the user
	// as revoked. Used on account deactivation.
	RevokeAllUserSessions(ctx context.Context, userID string) error

	// ExpireSessionsBefore bulk-marks active sessions past their deadline
	// as expired (housekeeping; validation also expires lazily).
	ExpireSessionsBefore(ctx context.Context, now time.Time) error

	// DeleteTerminalSessionsBefore removes expired/revoked sessions whose
	// deadline passed before the cutoff, to bound table growth.
	DeleteTerminalSessionsBefore(ctx context.Context, cutoff time.Time) error
}
