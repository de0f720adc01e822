package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/techacademialendaria/lendarios-access/internal/access/rbac"
	"github.com/techacademialendaria/lendarios-access/internal/access/service"
	"github.com/techacademialendaria/lendarios-access/pkg/accesssdk"
	"github.com/techacademialendaria/lendarios-access/pkg/httpx"
	"github.com/techacademialendaria/lendarios-access/pkg/slogx"
)

type InvitesHandler struct {
	InviteService *service.InviteService

	// PublicOrigin is the console origin the invite URL is built on.
	PublicOrigin string
}

// HandleCreate godoc
//
//	@Summary		Create Invite
//	@Description	Create a pending invite for an email with a target role and optional areas, message and mind association.
//	@Description	The response embeds the invite URL with the raw token exactly once; only a fingerprint is stored.
//	@Tags			Invites
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accesssdk.InviteRequest		true	"Invite request"
//	@Success		201		{object}	accesssdk.InviteResponse	"id, email, role_id, invite_url, expires_at, delivered"
//	@Failure		400		{object}	accesssdk.ErrorResponse		"error, error_description"
//	@Failure		401		{object}	accesssdk.ErrorResponse		"error, error_description"
//	@Failure		403		{object}	accesssdk.ErrorResponse		"error, error_description"
//	@Failure		409		{object}	accesssdk.ErrorResponse		"error, error_description"
//	@Failure		500		{object}	accesssdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invites [post].
func (h *InvitesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accesssdk.InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
			Error:            accesssdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	if req.Email == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
			Error:            accesssdk.ErrorCodeInvalidRequest,
			ErrorDescription: "email is required",
		})
		return
	}
	if req.RoleID == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
			Error:            accesssdk.ErrorCodeInvalidRequest,
			ErrorDescription: "role_id is required",
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

	invite, token, err := h.InviteService.CreateInvite(ctx, service.CreateInviteParams{
		Email:         req.Email,
		RoleID:        req.RoleID,
		Areas:         req.Areas,
		Message:       req.Message,
		MindID:        req.MindID,
		InvitedBy:     actorID,
		InviterRoleID: actorRole,
		ExpiresDays:   req.ExpiresDays,
	})
	if err != nil {
		writeInviteError(w, log, err)
		return
	}

	inviteURL := service.InviteURL(h.PublicOrigin, token)

	// Notification is best-effort: a delivery failure still returns 201 and
	// the operator shares the URL by hand.
	delivered := h.InviteService.SendInviteEmail(ctx, invite, inviteURL)

	httpx.WriteJSON(w, http.StatusCreated, accesssdk.InviteResponse{
		ID:        invite.ID,
		Email:     invite.Email,
		RoleID:    invite.RoleID,
		Areas:     invite.Areas,
		InviteURL: inviteURL,
		ExpiresAt: invite.ExpiresAt.Unix(),
		Delivered: delivered,
	})
}

// HandleList godoc
//
//	@Summary		List Pending Invites
//	@Description	List pending, unexpired invites newest-first. Token fingerprints are never included.
//	@Tags			Invites
//	@Produce		json
//	@Success		200	{object}	accesssdk.ListInvitesResponse	"invites"
//	@Failure		401	{object}	accesssdk.ErrorResponse			"error, error_description"
//	@Failure		500	{object}	accesssdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invites [get].
func (h *InvitesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	invites, err := h.InviteService.ListPendingInvites(ctx)
	if err != nil {
		log.Error("failed to list invites", "error", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, accesssdk.ErrorResponse{
			Error:            accesssdk.ErrorCodeServerError,
			ErrorDescription: "Failed to list invites",
		})
		return
	}

	now := time.Now().UTC()
	response := accesssdk.ListInvitesResponse{
		Invites: make([]accesssdk.InviteSummary, len(invites)),
	}
	for i, inv := range invites {
		response.Invites[i] = accesssdk.InviteSummary{
			ID:            inv.ID,
			Email:         inv.Email,
			RoleID:        inv.RoleID,
			Areas:         inv.Areas,
			Message:       inv.Message,
			MindID:        inv.MindID,
			InvitedBy:     inv.InvitedBy,
			Status:        string(inv.StatusAt(now)),
			ExpiresAt:     inv.ExpiresAt.Unix(),
			DaysRemaining: inv.DaysRemaining(now),
			CreatedAt:     inv.CreatedAt.Unix(),
		}
	}

	httpx.WriteJSON(w, http.StatusOK, response)
}

// HandleCancel godoc
//
//	@Summary		Cancel Invite
//	@Description	Cancel a pending invite so its token can no longer be redeemed. Accepted, cancelled or expired invites return 409.
//	@Tags			Invites
//	@Produce		json
//	@Param			id	path	string	true	"Invite ID"
//	@Success		204	"invite cancelled"
//	@Failure		404	{object}	accesssdk.ErrorResponse	"error, error_description"
//	@Failure		409	{object}	accesssdk.ErrorResponse	"error, error_description"
//	@Failure		500	{object}	accesssdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invites/{id} [delete].
func (h *InvitesHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	inviteID := r.PathValue("id")
	if inviteID == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
			Error:            accesssdk.ErrorCodeInvalidRequest,
			ErrorDescription: "invite id is required",
		})
		return
	}

	err := h.InviteService.CancelInvite(ctx, inviteID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInviteNotFound):
			httpx.WriteJSON(w, http.StatusNotFound, accesssdk.ErrorResponse{
				Error:            accesssdk.ErrorCodeNotFound,
				ErrorDescription: "Invite not found",
			})
		case errors.Is(err, service.ErrInviteNotPending):
			httpx.WriteJSON(w, http.StatusConflict, accesssdk.ErrorResponse{
				Error:            accesssdk.ErrorCodeConflict,
				ErrorDescription: "Invite is no longer pending",
			})
		default:
			log.Error("failed to cancel invite", "error", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, accesssdk.ErrorResponse{
				Error:            accesssdk.ErrorCodeServerError,
				ErrorDescription: "Failed to cancel invite",
			})
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeInviteError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInviteRequest):
		httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
			Error:            accesssdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Invalid invite parameters",
		})
	case errors.Is(err, rbac.ErrUnknownRole):
		httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
			Error:            accesssdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Unknown role_id",
		})
	case errors.Is(err, rbac.ErrMissingAreas):
		httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
			Error:            accesssdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Collaborator invites require at least one area",
		})
	case errors.Is(err, rbac.ErrInvalidArea):
		httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
			Error:            accesssdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Area is not in the catalog",
		})
	case errors.Is(err, service.ErrUnassignableRole):
		httpx.WriteJSON(w, http.StatusForbidden, accesssdk.ErrorResponse{
			Error:            accesssdk.ErrorCodeForbidden,
			ErrorDescription: "Role is not assignable by your role",
		})
	case errors.Is(err, service.ErrDuplicateInvite):
		httpx.WriteJSON(w, http.StatusConflict, accesssdk.ErrorResponse{
			Error:            accesssdk.ErrorCodeConflict,
			ErrorDescription: "A pending invite already exists for this email",
		})
	case errors.Is(err, service.ErrEmailAlreadyRegistered):
		httpx.WriteJSON(w, http.StatusConflict, accesssdk.ErrorResponse{
			Error:            accesssdk.ErrorCodeConflict,
			ErrorDescription: "Email already has an account",
		})
	default:
		log.Error("failed to create invite", "error", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, accesssdk.ErrorResponse{
			Error:            accesssdk.ErrorCodeServerError,
			ErrorDescription: "Failed to create invite",
		})
	}
}
