package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/techacademialendaria/lendarios-access/internal/access/domain"
	"github.com/techacademialendaria/lendarios-access/internal/access/service"
	"github.com/techacademialendaria/lendarios-access/pkg/accesssdk"
	"github.com/techacademialendaria/lendarios-access/pkg/httpx"
	"github.com/techacademialendaria/lendarios-access/pkg/slogx"
)

type UsersHandler struct {
	UserService *service.UserService
}

func toUserAccessDTO(ua domain.UserAccess) accesssdk.UserAccess {
	return accesssdk.UserAccess{
		UserID:    ua.User.ID,
		Email:     ua.User.Email,
		Name:      ua.User.Name,
		RoleID:    ua.RoleID,
		Areas:     ua.Areas,
		MindID:    ua.MindID,
		CreatedAt: ua.User.CreatedAt.Unix(),
	}
}

// HandleList godoc
//
//	@Summary		List Users
//	@Description	List every account with its effective role, areas and mind link.
//	@Tags			Users
//	@Produce		json
//	@Success		200	{object}	accesssdk.ListUsersResponse	"users"
//	@Failure		401	{object}	accesssdk.ErrorResponse		"error, error_description"
//	@Failure		500	{object}	accesssdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/users [get].
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	users, err := h.UserService.ListUsers(ctx)
	if err != nil {
		log.Error("failed to list users", "error", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, accesssdk.ErrorResponse{
			Error:            accesssdk.ErrorCodeServerError,
			ErrorDescription: "Failed to list users",
		})
		return
	}

	response := accesssdk.ListUsersResponse{
		Users: make([]accesssdk.UserAccess, len(users)),
	}
	for i, ua := range users {
		response.Users[i] = toUserAccessDTO(ua)
	}

	httpx.WriteJSON(w, http.StatusOK, response)
}

// HandleGetAccess godoc
//
//	@Summary		Get User Access
//	@Description	Return one user's effective role, areas and mind link.
//	@Tags			Users
//	@Produce		json
//	@Param			id	path		string					true	"User ID"
//	@Success		200	{object}	accesssdk.UserAccess	"user access view"
//	@Failure		404	{object}	accesssdk.ErrorResponse	"error, error_description"
//	@Failure		500	{object}	accesssdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/users/{id}/access [get].
func (h *UsersHandler) HandleGetAccess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	access, err := h.UserService.GetUserAccess(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			httpx.WriteJSON(w, http.StatusNotFound, accesssdk.ErrorResponse{
				Error:            accesssdk.ErrorCodeNotFound,
				ErrorDescription: "User not found",
			})
			return
		}
		log.Error("failed to get user access", "error", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, accesssdk.ErrorResponse{
			Error:            accesssdk.ErrorCodeServerError,
			ErrorDescription: "Failed to get user access",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserAccessDTO(access))
}

// HandleUpdateAccess godoc
//
//	@Summary		Update User Access
//	@Description	Reconcile a user's stored access onto the desired role/areas/mind state. The mind association is applied first
//	@Description	and independently, so a failed role change can leave the identity updated.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"User ID"
//	@Param			request	body		accesssdk.UpdateAccessRequest	true	"Desired access state"
//	@Success		200		{object}	accesssdk.UserAccess			"resulting access view"
//	@Failure		400		{object}	accesssdk.ErrorResponse			"error, error_description"
//	@Failure		403		{object}	accesssdk.ErrorResponse			"error, error_description"
//	@Failure		404		{object}	accesssdk.ErrorResponse			"error, error_description"
//	@Failure		500		{object}	accesssdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/users/{id}/access [put].
func (h *UsersHandler) HandleUpdateAccess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accesssdk.UpdateAccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
			Error:            accesssdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	actorID := httpx.UserIDFromContext(ctx)
	actorRole := httpx.RoleFromContext(ctx)
	if actorID == "" || actorRole == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, accesssdk.ErrorResponse{
			Error:            accesssdk.ErrorCodeUnauthorized,
			ErrorDescription: "Authentication required",
		})
		return
	}

	access, err := h.UserService.UpdateUserAccess(ctx, service.UpdateAccessParams{
		UserID: r.PathValue("id"),
		Desired: domain.GrantState{
			RoleID: req.RoleID,
			Areas:  req.Areas,
			MindID: req.MindID,
		},
		ActorID:     actorID,
		ActorRoleID: actorRole,
	})
	if err != nil {
		writeUserAccessError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserAccessDTO(access))
}

// HandleDelete godoc
//
//	@Summary		Delete User
//	@Description	Remove an account together with its grants and mind link.
//	@Tags			Users
//	@Produce		json
//	@Param			id	path	string	true	"User ID"
//	@Success		204	"user removed"
//	@Failure		403	{object}	accesssdk.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	accesssdk.ErrorResponse	"error, error_description"
//	@Failure		500	{object}	accesssdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/users/{id} [delete].
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	actorID := httpx.UserIDFromContext(ctx)
	actorRole := httpx.RoleFromContext(ctx)
	if actorID == "" || actorRole == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, accesssdk.ErrorResponse{
			Error:            accesssdk.ErrorCodeUnauthorized,
			ErrorDescription: "Authentication required",
		})
		return
	}

	err := h.UserService.RemoveUser(ctx, r.PathValue("id"), actorID, actorRole)
	if err != nil {
		writeUserAccessError(w, log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeUserAccessError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		httpx.WriteJSON(w, http.StatusNotFound, accesssdk.ErrorResponse{
			Error:            accesssdk.ErrorCodeNotFound,
			ErrorDescription: "User not found",
		})
	case errors.Is(err, service.ErrCannotManageSelf):
		httpx.WriteJSON(w, http.StatusForbidden, accesssdk.ErrorResponse{
			Error:            accesssdk.ErrorCodeForbidden,
			ErrorDescription: "You cannot change your own access",
		})
	case errors.Is(err, service.ErrForbiddenTarget):
		httpx.WriteJSON(w, http.StatusForbidden, accesssdk.ErrorResponse{
			Error:            accesssdk.ErrorCodeForbidden,
			ErrorDescription: "User is outside your management hierarchy",
		})
	case errors.Is(err, service.ErrUnassignableRole):
		httpx.WriteJSON(w, http.StatusForbidden, accesssdk.ErrorResponse{
			Error:            accesssdk.ErrorCodeForbidden,
			ErrorDescription: "Role is not assignable by your role",
		})
	case service.IsValidationError(err):
		httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
			Error:            accesssdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Invalid role/areas combination",
		})
	default:
		log.Error("failed to update user access", "error", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, accesssdk.ErrorResponse{
			Error:            accesssdk.ErrorCodeServerError,
			ErrorDescription: "Failed to update user access",
		})
	}
}
