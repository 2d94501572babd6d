package authsdk

import "time"

// ErrorResponse is the JSON error shape every failing endpoint returns.
type ErrorResponse struct {
	// Error is the machine-readable error code (e.g., "invalid_credentials")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}

// User is the public view of an account record. Password hashes and
// credential fingerprints are never exposed; HasToken only reports
// whether a physical credential is enrolled.
type User struct {
	ID         string     `json:"id"`
	Username   string     `json:"username"`
	Email      string     `json:"email,omitempty"`
	Role       string     `json:"role"`
	Active     bool       `json:"active"`
	HasToken   bool       `json:"has_token"`
	CreatedAt  time.Time  `json:"created_at"`
	LastAuthAt *time.Time `json:"last_auth_at,omitempty"`
}

// Permission is a catalog entry.
type Permission struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// LoginRequest is the body of POST /v1/auth/login.
type LoginRequest struct {
	// Username is the account's login name
	Username string `json:"username"`

	// Password is the plaintext password to verify
	Password string `json:"password"`

	// Remember selects the extended session lifetime
	Remember bool `json:"remember,omitempty"`

	// RequireAdmin refuses the login unless the account is an administrator
	RequireAdmin bool `json:"require_admin,omitempty"`
}

// TokenLoginRequest is the body of POST /v1/auth/token-login.
type TokenLoginRequest struct {
	// Token is the plaintext physical credential (e.g., an NFC tag id)
	Token string `json:"token"`

	// RequireAdmin refuses the login unless the account is an administrator
	RequireAdmin bool `json:"require_admin,omitempty"`
}

// LoginResponse is returned on successful authentication. SessionToken
// is shown exactly once and cannot be recovered later.
type LoginResponse struct {
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`

	// Permissions is the effective permission set: the full catalog for
	// administrators, direct grants otherwise.
	Permissions []string `json:"permissions"`
}

// CheckSessionResponse is returned by GET /v1/auth/check-session.
type CheckSessionResponse struct {
	Authenticated bool     `json:"authenticated"`
	User          *User    `json:"user,omitempty"`
	Permissions   []string `json:"permissions,omitempty"`
}

// CreateUserRequest is the body of POST /v1/admin/users.
type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
	Role     string `json:"role"`

	// Token is an optional plaintext physical credential to enroll
	Token string `json:"token,omitempty"`
}

// UpdateUserRequest is the body of PATCH /v1/admin/users/{id}. Omitted
// fields are left unchanged; an empty Token clears the enrolled
// credential.
type UpdateUserRequest struct {
	Email *string `json:"email,omitempty"`
	Role  *string `json:"role,omitempty"`
	Token *string `json:"token,omitempty"`
}

// SetPasswordRequest is the body of PUT /v1/admin/users/{id}/password.
type SetPasswordRequest struct {
	Password string `json:"password"`
}

// ReplaceGrantsRequest is the body of PUT /v1/admin/users/{id}/permissions.
// The user's grant set becomes exactly these names; unknown names are
// registered in the catalog first.
type ReplaceGrantsRequest struct {
	Permissions []string `json:"permissions"`
}

// UsersResponse wraps the admin user listing.
type UsersResponse struct {
	Users []User `json:"users"`
}

// PermissionsResponse wraps the catalog listing.
type PermissionsResponse struct {
	Permissions []Permission `json:"permissions"`
}

// GrantsResponse is returned after a grant replacement.
type GrantsResponse struct {
	Permissions []string `json:"permissions"`
}

// BootstrapRequest is the body of POST /v1/bootstrap. AdminPassword may
// be left empty to have one generated.
type BootstrapRequest struct {
	AdminUsername string `json:"admin_username"`
	AdminEmail    string `json:"admin_email,omitempty"`
	AdminPassword string `json:"admin_password,omitempty"`
}

// BootstrapResponse reports the created administrator. Password is the
// plaintext admin password and is only ever returned here.
type BootstrapResponse struct {
	AdminUserID string `json:"admin_user_id"`
	Password    string `json:"password"`
}

// HealthChecks reports the state of critical dependencies.
type HealthChecks struct {
	Database string `json:"database"`
}

// HealthResponse is returned by the /livez and /readyz endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
