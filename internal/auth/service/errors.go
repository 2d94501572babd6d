package service

import "errors"

// Sentinel errors returned by the service layer. Handlers map these to
// HTTP status codes; callers compare with errors.Is.
var (
	// ErrMissingFields indicates a request was rejected before any
	// store access because required inputs were absent.
	ErrMissingFields = errors.New("missing_fields")

	// ErrInvalidCredentials covers unknown usernames, wrong passwords,
	// unknown physical tokens, and inactive accounts during login. The
	// collapse is deliberate so responses never reveal which accounts
	// exist; logs carry the granular reason.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrInactiveAccount is returned for operations on an account that
	// has already been identified but is deactivated.
	ErrInactiveAccount = errors.New("inactive_account")

	// ErrUnauthenticated indicates no valid session accompanied the
	// request.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden indicates a valid session whose owner lacks the
	// required permission.
	ErrForbidden = errors.New("forbidden")

	// ErrInsufficientPrivilege indicates the caller is authenticated
	// but is not an administrator.
	ErrInsufficientPrivilege = errors.New("insufficient_privilege")

	// ErrDuplicateIdentity indicates a username or email collision.
	ErrDuplicateIdentity = errors.New("duplicate_identity")

	// ErrNotFound indicates the referenced user or permission does not
	// exist.
	ErrNotFound = errors.New("not_found")

	// ErrLastAdministrator indicates an operation would leave the
	// system with no active administrator.
	ErrLastAdministrator = errors.New("last_administrator")
)
