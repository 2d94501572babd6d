package http

import (
	"encoding/json"
	"net/http"

	"github.com/logistica/estoque-auth/internal/auth/domain"
	"github.com/logistica/estoque-auth/internal/auth/service"
	"github.com/logistica/estoque-auth/pkg/authsdk"
	"github.com/logistica/estoque-auth/pkg/httpx"
)

// UsersAdminHandler serves the administrative account surface. Every
// handler starts with an explicit RequireAdmin check rather than
// relying on middleware, so the access rule is visible at the top of
// each operation.
type UsersAdminHandler struct {
	GuardService      *service.GuardService
	CredentialService *service.CredentialService
	PermissionService *service.PermissionService
}

// HandleList lists every account.
//
//	@Summary		List users
//	@Description	Returns every account, active and deactivated, oldest first.
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	authsdk.UsersResponse	"All accounts"
//	@Failure		401	{object}	authsdk.ErrorResponse	"No valid session"
//	@Failure		403	{object}	authsdk.ErrorResponse	"Not an administrator"
//	@Router			/v1/admin/users [get].
func (h *UsersAdminHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if _, err := h.GuardService.RequireAdmin(r.Context(), sessionTokenFromRequest(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}

	users, err := h.CredentialService.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := authsdk.UsersResponse{Users: make([]authsdk.User, 0, len(users))}
	for _, u := range users {
		resp.Users = append(resp.Users, sdkUser(u))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleGet fetches a single account.
//
//	@Summary		Get a user
//	@Description	Returns one account by id, active or not.
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string					true	"User id"
//	@Success		200	{object}	authsdk.User			"The account"
//	@Failure		401	{object}	authsdk.ErrorResponse	"No valid session"
//	@Failure		403	{object}	authsdk.ErrorResponse	"Not an administrator"
//	@Failure		404	{object}	authsdk.ErrorResponse	"Unknown user"
//	@Router			/v1/admin/users/{id} [get].
func (h *UsersAdminHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if _, err := h.GuardService.RequireAdmin(r.Context(), sessionTokenFromRequest(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}

	user, err := h.CredentialService.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sdkUser(user))
}

// HandleCreate registers a new account.
//
//	@Summary		Create a user
//	@Description	Registers a new active account. The username must be unique; an optional physical credential can be enrolled at creation.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		authsdk.CreateUserRequest	true	"Account details"
//	@Success		201		{object}	authsdk.User				"The created account"
//	@Failure		400		{object}	authsdk.ErrorResponse		"Missing fields or unknown role"
//	@Failure		401		{object}	authsdk.ErrorResponse		"No valid session"
//	@Failure		403		{object}	authsdk.ErrorResponse		"Not an administrator"
//	@Failure		409		{object}	authsdk.ErrorResponse		"Username or credential already in use"
//	@Router			/v1/admin/users [post].
func (h *UsersAdminHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if _, err := h.GuardService.RequireAdmin(r.Context(), sessionTokenFromRequest(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req authsdk.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	user, err := h.CredentialService.CreateUser(r.Context(), service.CreateUserRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
		Token:    req.Token,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, sdkUser(user))
}

// HandleUpdate mutates an account.
//
//	@Summary		Update a user
//	@Description	Applies the provided fields to the account. Omitted fields are left unchanged; an empty token clears the enrolled credential. Demoting the last active administrator is refused.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string						true	"User id"
//	@Param			request	body		authsdk.UpdateUserRequest	true	"Fields to change"
//	@Success		200		{object}	authsdk.User				"The updated account"
//	@Failure		400		{object}	authsdk.ErrorResponse		"Unknown role"
//	@Failure		401		{object}	authsdk.ErrorResponse		"No valid session"
//	@Failure		403		{object}	authsdk.ErrorResponse		"Not an administrator"
//	@Failure		404		{object}	authsdk.ErrorResponse		"Unknown user"
//	@Failure		409		{object}	authsdk.ErrorResponse		"Credential already in use, or last administrator"
//	@Router			/v1/admin/users/{id} [patch].
func (h *UsersAdminHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	if _, err := h.GuardService.RequireAdmin(r.Context(), sessionTokenFromRequest(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req authsdk.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	update := service.UpdateUserRequest{
		Email: req.Email,
		Token: req.Token,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		update.Role = &role
	}

	user, err := h.CredentialService.UpdateUser(r.Context(), r.PathValue("id"), update)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sdkUser(user))
}

// HandleDeactivate deactivates an account.
//
//	@Summary		Deactivate a user
//	@Description	Marks the account inactive and revokes every session it owns, in one transaction. Records are never physically deleted. Deactivating the last active administrator is refused with 409.
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path	string	true	"User id"
//	@Success		204	"Account deactivated"
//	@Failure		401	{object}	authsdk.ErrorResponse	"No valid session"
//	@Failure		403	{object}	authsdk.ErrorResponse	"Not an administrator"
//	@Failure		404	{object}	authsdk.ErrorResponse	"Unknown user"
//	@Failure		409	{object}	authsdk.ErrorResponse	"Last administrator"
//	@Router			/v1/admin/users/{id} [delete].
func (h *UsersAdminHandler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	if _, err := h.GuardService.RequireAdmin(r.Context(), sessionTokenFromRequest(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.CredentialService.Deactivate(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}

// HandleSetPassword replaces an account's password.
//
//	@Summary		Set a user's password
//	@Description	Replaces the account's password with a fresh salted hash. The plaintext is never stored or logged.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path	string						true	"User id"
//	@Param			request	body	authsdk.SetPasswordRequest	true	"New password"
//	@Success		204		"Password replaced"
//	@Failure		400		{object}	authsdk.ErrorResponse	"Missing password"
//	@Failure		401		{object}	authsdk.ErrorResponse	"No valid session"
//	@Failure		403		{object}	authsdk.ErrorResponse	"Not an administrator"
//	@Failure		404		{object}	authsdk.ErrorResponse	"Unknown user"
//	@Router			/v1/admin/users/{id}/password [put].
func (h *UsersAdminHandler) HandleSetPassword(w http.ResponseWriter, r *http.Request) {
	if _, err := h.GuardService.RequireAdmin(r.Context(), sessionTokenFromRequest(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req authsdk.SetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.CredentialService.SetPassword(r.Context(), r.PathValue("id"), req.Password); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}

// HandleReplaceGrants replaces an account's grant set.
//
//	@Summary		Replace a user's permissions
//	@Description	Atomically swaps the account's grant set for exactly the named permissions. Names missing from the catalog are registered first; a partial replacement is never observable.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string							true	"User id"
//	@Param			request	body		authsdk.ReplaceGrantsRequest	true	"The complete new grant set"
//	@Success		200		{object}	authsdk.GrantsResponse			"The resulting grant set"
//	@Failure		401		{object}	authsdk.ErrorResponse			"No valid session"
//	@Failure		403		{object}	authsdk.ErrorResponse			"Not an administrator"
//	@Failure		404		{object}	authsdk.ErrorResponse			"Unknown user"
//	@Router			/v1/admin/users/{id}/permissions [put].
func (h *UsersAdminHandler) HandleReplaceGrants(w http.ResponseWriter, r *http.Request) {
	admin, err := h.GuardService.RequireAdmin(r.Context(), sessionTokenFromRequest(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req authsdk.ReplaceGrantsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	userID := r.PathValue("id")
	if err := h.PermissionService.ReplaceGrants(r.Context(), userID, admin.ID, req.Permissions); err != nil {
		writeServiceError(w, r, err)
		return
	}

	names, err := h.PermissionService.GrantsFor(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.GrantsResponse{Permissions: names})
}
