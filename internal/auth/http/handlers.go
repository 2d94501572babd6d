package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/logistica/estoque-auth/internal/auth/domain"
	"github.com/logistica/estoque-auth/internal/auth/service"
	"github.com/logistica/estoque-auth/pkg/authsdk"
	"github.com/logistica/estoque-auth/pkg/slogx"
)

// SessionCookieName is the cookie browsers use to carry the session
// token; API clients use the Authorization header instead.
const SessionCookieName = "estoque_session"

// sessionTokenFromRequest extracts the session token from the
// Authorization header (preferred) or the session cookie. Returns ""
// when neither is present.
func sessionTokenFromRequest(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}

	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// writeServiceError maps service sentinel errors onto the API error
// shape. Unexpected errors are logged and collapsed to a generic 500 so
// internals never leak.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrMissingFields):
		authsdk.ErrInvalidRequest.WriteError(w)
	case errors.Is(err, service.ErrInvalidCredentials):
		authsdk.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrInsufficientPrivilege):
		authsdk.ErrInsufficientPrivilege.WriteError(w)
	case errors.Is(err, service.ErrUnauthenticated):
		authsdk.ErrUnauthenticated.WriteError(w)
	case errors.Is(err, service.ErrForbidden):
		authsdk.ErrForbidden.WriteError(w)
	case errors.Is(err, service.ErrDuplicateIdentity):
		authsdk.ErrDuplicateIdentity.WriteError(w)
	case errors.Is(err, service.ErrNotFound):
		authsdk.ErrNotFound.WriteError(w)
	case errors.Is(err, service.ErrLastAdministrator):
		authsdk.ErrLastAdministrator.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed", "error", err)
		authsdk.ErrServerError.WriteError(w)
	}
}

// sdkUser converts a domain user to its public API shape.
func sdkUser(u domain.User) authsdk.User {
	return authsdk.User{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Role:       string(u.Role),
		Active:     u.Active,
		HasToken:   u.TokenHash != nil,
		CreatedAt:  u.CreatedAt,
		LastAuthAt: u.LastAuthAt,
	}
}
