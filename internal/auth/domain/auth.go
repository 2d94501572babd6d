package domain

import "time"

// AuthResult is what a successful authentication hands back: the
// identity, the freshly issued opaque session token, and the derived
// permission set (the full catalog for administrators).
type AuthResult struct {
	User         User
	SessionToken string
	ExpiresAt    time.Time
	Permissions  []string
}

// BootstrapData carries the initial administrator details for first-run
// setup. Password may be empty, in which case one is generated.
type BootstrapData struct {
	AdminUsername string
	AdminEmail    string
	AdminPassword string
}
