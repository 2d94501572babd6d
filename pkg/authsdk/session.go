package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Session is an authenticated client carrying an opaque session token.
// It exposes the operations available to a logged-in user plus the
// administrative surface (which the server gates on the role).
type Session struct {
	client *SDKClient
	token  string

	user        User
	permissions []string
	expiresAt   time.Time
}

func newSession(c *SDKClient, resp LoginResponse) *Session {
	return &Session{
		client:      c,
		token:       resp.SessionToken,
		user:        resp.User,
		permissions: resp.Permissions,
		expiresAt:   resp.ExpiresAt,
	}
}

// Token returns the raw session token, e.g. for persisting across
// process restarts.
func (s *Session) Token() string { return s.token }

// User returns the identity captured at login time. CheckSession gives
// the current server-side view.
func (s *Session) User() User { return s.user }

// Permissions returns the permission set captured at login time.
func (s *Session) Permissions() []string { return s.permissions }

// ExpiresAt returns the session deadline captured at login time.
func (s *Session) ExpiresAt() time.Time { return s.expiresAt }

// CheckSession asks the server whether the session is still valid and
// returns the current identity and permission set.
func (s *Session) CheckSession(ctx context.Context) (CheckSessionResponse, error) {
	var resp CheckSessionResponse

	httpResp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/auth/check-session", nil, nil)
	if err != nil {
		return resp, err
	}
	return resp, decodeJSON(httpResp, &resp, http.StatusOK)
}

// Logout revokes the session on the server. The Session must not be
// used afterwards.
func (s *Session) Logout(ctx context.Context) error {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/auth/logout", nil, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// ListUsers returns every account. Requires an administrator session.
func (s *Session) ListUsers(ctx context.Context) ([]User, error) {
	var resp UsersResponse

	httpResp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/admin/users", nil, nil)
	if err != nil {
		return nil, err
	}
	if err := decodeJSON(httpResp, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// GetUser fetches a single account by id. Requires an administrator
// session.
func (s *Session) GetUser(ctx context.Context, userID string) (User, error) {
	var user User

	httpResp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/admin/users/"+url.PathEscape(userID), nil, nil)
	if err != nil {
		return user, err
	}
	return user, decodeJSON(httpResp, &user, http.StatusOK)
}

// CreateUser registers a new account. Requires an administrator
// session.
func (s *Session) CreateUser(ctx context.Context, req CreateUserRequest) (User, error) {
	var user User
	err := s.authJSON(ctx, http.MethodPost, "/v1/admin/users", req, &user, http.StatusCreated)
	return user, err
}

// UpdateUser mutates an account's email, role, or physical credential.
// Requires an administrator session.
func (s *Session) UpdateUser(ctx context.Context, userID string, req UpdateUserRequest) (User, error) {
	var user User
	err := s.authJSON(ctx, http.MethodPatch, "/v1/admin/users/"+url.PathEscape(userID), req, &user, http.StatusOK)
	return user, err
}

// DeactivateUser deactivates an account and revokes its sessions.
// Requires an administrator session. Deactivating the last active
// administrator fails with ErrorCodeLastAdministrator.
func (s *Session) DeactivateUser(ctx context.Context, userID string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, "/v1/admin/users/"+url.PathEscape(userID), nil, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// SetUserPassword replaces an account's password. Requires an
// administrator session.
func (s *Session) SetUserPassword(ctx context.Context, userID, password string) error {
	body, err := json.Marshal(SetPasswordRequest{Password: password})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := s.doAuthRequest(ctx, http.MethodPut, "/v1/admin/users/"+url.PathEscape(userID)+"/password",
		bytes.NewReader(body), map[string]string{"Content-Type": "application/json"})
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// ReplaceUserPermissions swaps an account's grant set for exactly the
// named permissions. Requires an administrator session.
func (s *Session) ReplaceUserPermissions(ctx context.Context, userID string, permissions []string) ([]string, error) {
	var resp GrantsResponse
	err := s.authJSON(ctx, http.MethodPut, "/v1/admin/users/"+url.PathEscape(userID)+"/permissions",
		ReplaceGrantsRequest{Permissions: permissions}, &resp, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return resp.Permissions, nil
}

// ListPermissions returns the permission catalog. Requires an
// administrator session.
func (s *Session) ListPermissions(ctx context.Context) ([]Permission, error) {
	var resp PermissionsResponse

	httpResp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/admin/permissions", nil, nil)
	if err != nil {
		return nil, err
	}
	if err := decodeJSON(httpResp, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return resp.Permissions, nil
}

// doAuthRequest performs an HTTP request carrying the session token.
func (s *Session) doAuthRequest(
	ctx context.Context,
	method, path string,
	body io.Reader,
	headers map[string]string,
) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.client.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.token)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := s.client.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

func (s *Session) authJSON(ctx context.Context, method, path string, body, target any, expectedStatus int) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := s.doAuthRequest(ctx, method, path, bytes.NewReader(encoded), map[string]string{
		"Content-Type": "application/json",
	})
	if err != nil {
		return err
	}
	return decodeJSON(resp, target, expectedStatus)
}
