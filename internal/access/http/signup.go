package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/techacademialendaria/lendarios-access/internal/access/service"
	"github.com/techacademialendaria/lendarios-access/pkg/accesssdk"
	"github.com/techacademialendaria/lendarios-access/pkg/httpx"
	"github.com/techacademialendaria/lendarios-access/pkg/slogx"
)

type SignupHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP godoc
//
//	@Summary		Signup via Invite
//	@Description	Redeem a single-use invite token into a new account. The invite's role, areas and mind association are granted atomically.
//	@Tags			Signup
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accesssdk.SignupRequest		true	"Signup request"
//	@Success		201		{object}	accesssdk.SignupResponse	"user_id, email, name"
//	@Failure		400		{object}	accesssdk.ErrorResponse		"error, error_description"
//	@Failure		500		{object}	accesssdk.ErrorResponse		"error, error_description"
//	@Router			/v1/signup [post].
func (h *SignupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accesssdk.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
			Error:            accesssdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	if req.InviteToken == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
			Error:            accesssdk.ErrorCodeInvalidRequest,
			ErrorDescription: "invite_token is required",
		})
		return
	}
	if req.Name == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
			Error:            accesssdk.ErrorCodeInvalidRequest,
			ErrorDescription: "name is required",
		})
		return
	}
	if req.Password == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
			Error:            accesssdk.ErrorCodeInvalidRequest,
			ErrorDescription: "password is required",
		})
		return
	}

	user, err := h.InviteService.RedeemInvite(ctx, req.InviteToken, req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInviteNotFound):
			// One answer for unknown, used, cancelled and expired tokens.
			httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
				Error:            accesssdk.ErrorCodeInvalidGrant,
				ErrorDescription: "Invite token is invalid or expired",
			})
		case errors.Is(err, service.ErrInvalidInviteRequest):
			httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
				Error:            accesssdk.ErrorCodeInvalidRequest,
				ErrorDescription: "Invalid signup parameters",
			})
		default:
			log.Error("failed to redeem invite", "error", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, accesssdk.ErrorResponse{
				Error:            accesssdk.ErrorCodeServerError,
				ErrorDescription: "Failed to complete signup",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, accesssdk.SignupResponse{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	})
}
