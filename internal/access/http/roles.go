package http

import (
	"net/http"

	"github.com/techacademialendaria/lendarios-access/internal/access/service"
	"github.com/techacademialendaria/lendarios-access/pkg/accesssdk"
	"github.com/techacademialendaria/lendarios-access/pkg/httpx"
)

type RolesHandler struct {
	RolesService *service.RolesService
}

// ServeHTTP godoc
//
//	@Summary		List Roles
//	@Description	Return the role catalog and the closed area set. Each role's assignable flag is computed against the caller's role.
//	@Tags			Roles
//	@Produce		json
//	@Success		200	{object}	accesssdk.ListRolesResponse	"roles, areas"
//	@Failure		401	{object}	accesssdk.ErrorResponse		"error, error_description"
//	@Failure		500	{object}	accesssdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/roles [get].
func (h *RolesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorRole := httpx.RoleFromContext(ctx)

	assignable := make(map[string]bool)
	for _, role := range h.RolesService.AssignableRoles(actorRole) {
		assignable[role.ID] = true
	}

	roles := h.RolesService.Roles()
	response := accesssdk.ListRolesResponse{
		Roles: make([]accesssdk.Role, len(roles)),
		Areas: h.RolesService.Areas(),
	}
	for i, role := range roles {
		response.Roles[i] = accesssdk.Role{
			ID:             role.ID,
			DisplayName:    role.DisplayName,
			HierarchyLevel: role.HierarchyLevel,
			Assignable:     assignable[role.ID],
		}
	}

	httpx.WriteJSON(w, http.StatusOK, response)
}
