package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/logistica/estoque-auth/internal/auth/service"
	"github.com/logistica/estoque-auth/pkg/authsdk"
	"github.com/logistica/estoque-auth/pkg/httpx"
)

type SessionHandler struct {
	AuthService  *service.AuthService
	GuardService *service.GuardService
}

// HandleLogout handles session revocation.
//
//	@Summary		Log out
//	@Description	Revokes the presented session. Revoking an unknown or already-terminal session succeeds silently, so logout is always safe to retry.
//	@Tags			Auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		204	"Session revoked"
//	@Router			/v1/auth/logout [post].
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	token := sessionTokenFromRequest(r)

	if err := h.AuthService.Logout(r.Context(), token); err != nil {
		writeServiceError(w, r, err)
		return
	}

	// Clear the browser cookie regardless of whether the token was known.
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}

// HandleCheck reports whether the presented session is still valid.
//
//	@Summary		Check the current session
//	@Description	Validates the presented session token and returns the owning identity with its effective permission set. An invalid, expired, or revoked session yields authenticated=false with 200 rather than an error, so UIs can poll it cheaply.
//	@Tags			Auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	authsdk.CheckSessionResponse	"Session state and identity"
//	@Router			/v1/auth/check-session [get].
func (h *SessionHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	token := sessionTokenFromRequest(r)

	user, err := h.GuardService.RequireSession(r.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			httpx.WriteJSON(w, http.StatusOK, authsdk.CheckSessionResponse{Authenticated: false})
			return
		}
		writeServiceError(w, r, err)
		return
	}

	perms, err := h.GuardService.PermissionsFor(r.Context(), user)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	u := sdkUser(user)
	httpx.WriteJSON(w, http.StatusOK, authsdk.CheckSessionResponse{
		Authenticated: true,
		User:          &u,
		Permissions:   perms,
	})
}
