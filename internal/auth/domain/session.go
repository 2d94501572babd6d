package domain

import "time"

// SessionStatus tracks the session state machine:
// active -> {expired | revoked}. Both end states are terminal; a session
// is never reactivated.
type SessionStatus string

const (
	SessionActive  SessionStatus = "active"
	SessionExpired SessionStatus = "expired"
	SessionRevoked SessionStatus = "revoked"
)

// Session models the stored session record. The opaque token handed to
// the caller is never persisted; only its SHA-256 fingerprint is.
type Session struct {
	ID        string
	TokenHash string
	UserID    string
	Status    SessionStatus
	CreatedAt time.Time
	ExpiresAt time.Time
	UpdatedAt time.Time
}

// ExpiredAt reports whether the session deadline has passed at the given
// instant, regardless of the persisted status.
func (s Session) ExpiredAt(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
