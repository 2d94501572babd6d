package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/logistica/estoque-auth/pkg/httpx"
)

// Error codes used by the HTTP surface.
const (
	ErrorCodeInvalidRequest        = "invalid_request"
	ErrorCodeInvalidCredentials    = "invalid_credentials"
	ErrorCodeInsufficientPrivilege = "insufficient_privilege"
	ErrorCodeUnauthenticated       = "unauthenticated"
	ErrorCodeForbidden             = "forbidden"
	ErrorCodeDuplicateIdentity     = "duplicate_identity"
	ErrorCodeNotFound              = "not_found"
	ErrorCodeLastAdministrator     = "last_administrator"
	ErrorCodeServerError           = "server_error"
)

// APIError is the error shape the service returns on every failure. It
// implements the error interface so the SDK client can hand it to
// callers, and the server uses WriteError to emit it.
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine-readable error code (e.g., "invalid_credentials")
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this APIError to an HTTP response writer. 401
// responses carry a WWW-Authenticate challenge.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	if e.StatusCode == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="estoque-auth"`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

// Predefined errors. Descriptions are deliberately generic on the
// credential and authorization paths so responses never reveal which
// accounts or permissions exist.
var (
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredentials,
		Description: "invalid credentials",
	}

	ErrInsufficientPrivilege = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeInsufficientPrivilege,
		Description: "administrator access is required",
	}

	ErrUnauthenticated = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeUnauthenticated,
		Description: "a valid session is required",
	}

	ErrForbidden = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeForbidden,
		Description: "access denied",
	}

	ErrDuplicateIdentity = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeDuplicateIdentity,
		Description: "username or credential already in use",
	}

	ErrNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "resource not found",
	}

	ErrLastAdministrator = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeLastAdministrator,
		Description: "the system must keep at least one active administrator",
	}

	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// NewAPIError creates an APIError with the given status code, error
// code, and description.
func NewAPIError(statusCode int, code, description string) *APIError {
	return &APIError{
		StatusCode:  statusCode,
		Code:        code,
		Description: description,
	}
}

// parseErrorResponse turns an HTTP error response into a typed error.
// Returns nil for 2xx responses.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
