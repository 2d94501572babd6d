package domain

import (
	"errors"
	"time"
)

// Role is the closed set of account roles. Administrators bypass grant
// checks entirely; standard users only hold what has been granted.
type Role string

const (
	RoleStandard      Role = "standard"
	RoleAdministrator Role = "administrator"
)

// ErrInvalidRole reports a role string outside the closed set.
var ErrInvalidRole = errors.New("domain: invalid role")

// ParseRole validates a role string against the closed set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleStandard, RoleAdministrator:
		return Role(s), nil
	default:
		return "", ErrInvalidRole
	}
}

// IsAdmin reports whether the role carries the administrative override.
func (r Role) IsAdmin() bool { return r == RoleAdministrator }

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string  // argon2id encoded
	TokenHash    *string // SHA-256 fingerprint of the physical credential (nullable)
	Role         Role
	Active       bool
	CreatedAt    time.Time
	LastAuthAt   *time.Time // nullable until first successful authentication
	UpdatedAt    time.Time
}
