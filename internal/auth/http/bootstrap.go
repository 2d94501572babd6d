package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/logistica/estoque-auth/internal/auth/domain"
	"github.com/logistica/estoque-auth/internal/auth/service"
	"github.com/logistica/estoque-auth/pkg/authsdk"
	"github.com/logistica/estoque-auth/pkg/httpx"
	"github.com/logistica/estoque-auth/pkg/slogx"
)

type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

// ServeHTTP handles first-run setup.
//
//	@Summary		Bootstrap the service
//	@Description	Creates the first administrator on an empty system. Only available while no users exist and only with the configured bootstrap token. When no password is supplied one is generated and returned exactly once.
//	@Tags			Bootstrap
//	@Accept			json
//	@Produce		json
//	@Param			X-Bootstrap-Token	header		string						true	"Bootstrap token"
//	@Param			request				body		authsdk.BootstrapRequest	true	"Initial administrator"
//	@Success		201					{object}	authsdk.BootstrapResponse	"Created administrator id and password"
//	@Failure		400					{object}	authsdk.ErrorResponse		"Invalid body or missing username"
//	@Failure		401					{object}	authsdk.ErrorResponse		"Missing or wrong token, or already bootstrapped"
//	@Failure		404					{object}	authsdk.ErrorResponse		"Bootstrap not enabled"
//	@Failure		500					{object}	authsdk.ErrorResponse		"Failed to create the administrator"
//	@Router			/v1/bootstrap [post].
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())
	l.Info("bootstrap requested")

	if h.BootstrapService.Token == "" {
		authsdk.NewAPIError(http.StatusNotFound, authsdk.ErrorCodeNotFound,
			"bootstrap endpoint is not enabled").WriteError(w)
		return
	}

	token := r.Header.Get("X-Bootstrap-Token")
	if token == "" {
		authsdk.NewAPIError(http.StatusUnauthorized, authsdk.ErrorCodeUnauthenticated,
			"bootstrap token is required in X-Bootstrap-Token header").WriteError(w)
		return
	}

	var req authsdk.BootstrapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	adminUserID, password, err := h.BootstrapService.Bootstrap(r.Context(), token, domain.BootstrapData{
		AdminUsername: strings.TrimSpace(req.AdminUsername),
		AdminEmail:    strings.TrimSpace(req.AdminEmail),
		AdminPassword: req.AdminPassword,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBootstrapAlready):
			authsdk.NewAPIError(http.StatusUnauthorized, authsdk.ErrorCodeUnauthenticated,
				"system has already been bootstrapped").WriteError(w)
		case errors.Is(err, service.ErrBootstrapUnauthorized):
			authsdk.NewAPIError(http.StatusUnauthorized, authsdk.ErrorCodeUnauthenticated,
				"invalid bootstrap token").WriteError(w)
		case errors.Is(err, service.ErrMissingFields):
			authsdk.ErrInvalidRequest.WriteError(w)
		default:
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	// The password is only shown here; it is not stored in plaintext.
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, authsdk.BootstrapResponse{
		AdminUserID: adminUserID,
		Password:    password,
	})
}
