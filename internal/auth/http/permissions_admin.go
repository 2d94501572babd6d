package http

import (
	"net/http"

	"github.com/logistica/estoque-auth/internal/auth/service"
	"github.com/logistica/estoque-auth/pkg/authsdk"
	"github.com/logistica/estoque-auth/pkg/httpx"
)

type PermissionsAdminHandler struct {
	GuardService      *service.GuardService
	PermissionService *service.PermissionService
}

// HandleList returns the permission catalog.
//
//	@Summary		List the permission catalog
//	@Description	Returns every registered permission, ordered by name. The catalog is append-only: it holds the seeded baseline plus anything registered through grant replacement.
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	authsdk.PermissionsResponse	"The catalog"
//	@Failure		401	{object}	authsdk.ErrorResponse		"No valid session"
//	@Failure		403	{object}	authsdk.ErrorResponse		"Not an administrator"
//	@Router			/v1/admin/permissions [get].
func (h *PermissionsAdminHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if _, err := h.GuardService.RequireAdmin(r.Context(), sessionTokenFromRequest(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}

	perms, err := h.PermissionService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := authsdk.PermissionsResponse{Permissions: make([]authsdk.Permission, 0, len(perms))}
	for _, p := range perms {
		resp.Permissions = append(resp.Permissions, authsdk.Permission{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			CreatedAt:   p.CreatedAt,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
