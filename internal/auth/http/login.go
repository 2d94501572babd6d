package http

import (
	"encoding/json"
	"net/http"

	"github.com/logistica/estoque-auth/internal/auth/domain"
	"github.com/logistica/estoque-auth/internal/auth/service"
	"github.com/logistica/estoque-auth/pkg/authsdk"
	"github.com/logistica/estoque-auth/pkg/httpx"
)

type LoginHandler struct {
	AuthService *service.AuthService
}

// HandlePassword handles the interactive login endpoint.
//
//	@Summary		Log in with username and password
//	@Description	Verifies the credentials and issues an opaque session token. Unknown usernames, wrong passwords, and deactivated accounts all return the same 401 so accounts cannot be enumerated.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest	true	"Login credentials"
//	@Success		200		{object}	authsdk.LoginResponse	"Session token, identity, and effective permissions"
//	@Failure		400		{object}	authsdk.ErrorResponse	"Missing username or password"
//	@Failure		401		{object}	authsdk.ErrorResponse	"Invalid credentials"
//	@Failure		403		{object}	authsdk.ErrorResponse	"Administrator required but account is standard"
//	@Router			/v1/auth/login [post].
func (h *LoginHandler) HandlePassword(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	result, err := h.AuthService.AuthenticateByPassword(r.Context(), service.PasswordLoginRequest{
		Username:     req.Username,
		Password:     req.Password,
		Remember:     req.Remember,
		RequireAdmin: req.RequireAdmin,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.writeLogin(w, r, result)
}

// HandleToken handles the physical-credential login endpoint.
//
//	@Summary		Log in with a physical credential
//	@Description	Resolves an enrolled physical credential (e.g., NFC tag) to its owner and issues a short-lived session. Unknown credentials and deactivated owners both return the same 401.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.TokenLoginRequest	true	"Physical credential"
//	@Success		200		{object}	authsdk.LoginResponse		"Session token, identity, and effective permissions"
//	@Failure		400		{object}	authsdk.ErrorResponse		"Missing token"
//	@Failure		401		{object}	authsdk.ErrorResponse		"Invalid credentials"
//	@Failure		403		{object}	authsdk.ErrorResponse		"Administrator required but account is standard"
//	@Router			/v1/auth/token-login [post].
func (h *LoginHandler) HandleToken(w http.ResponseWriter, r *http.Request) {
	var req authsdk.TokenLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	result, err := h.AuthService.AuthenticateByToken(r.Context(), service.TokenLoginRequest{
		Token:        req.Token,
		RequireAdmin: req.RequireAdmin,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.writeLogin(w, r, result)
}

func (h *LoginHandler) writeLogin(w http.ResponseWriter, r *http.Request, result domain.AuthResult) {
	// Browsers get the token as a cookie too; API clients read it from
	// the body and send it back as a bearer token.
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    result.SessionToken,
		Path:     "/",
		Expires:  result.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})

	httpx.WriteJSON(w, http.StatusOK, authsdk.LoginResponse{
		SessionToken: result.SessionToken,
		ExpiresAt:    result.ExpiresAt,
		User:         sdkUser(result.User),
		Permissions:  result.Permissions,
	})
}
