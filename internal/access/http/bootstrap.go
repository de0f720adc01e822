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

type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

// ServeHTTP godoc
//
//	@Summary		Bootstrap Initial Owner
//	@Description	Provision the very first account with the reserved owner role. Works exactly once, on an empty database,
//	@Description	gated by the configured bootstrap token. This is the only path that assigns the owner role.
//	@Tags			Bootstrap
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accesssdk.BootstrapRequest	true	"Bootstrap request"
//	@Success		201		{object}	accesssdk.BootstrapResponse	"user_id, email"
//	@Failure		400		{object}	accesssdk.ErrorResponse		"error, error_description"
//	@Failure		401		{object}	accesssdk.ErrorResponse		"error, error_description"
//	@Failure		409		{object}	accesssdk.ErrorResponse		"error, error_description"
//	@Failure		500		{object}	accesssdk.ErrorResponse		"error, error_description"
//	@Router			/v1/bootstrap [post].
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accesssdk.BootstrapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
			Error:            accesssdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	user, err := h.BootstrapService.Bootstrap(ctx, service.BootstrapParams{
		Token:    req.Token,
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBootstrapDisabled):
			httpx.WriteJSON(w, http.StatusNotFound, accesssdk.ErrorResponse{
				Error:            accesssdk.ErrorCodeNotFound,
				ErrorDescription: "Bootstrap is not enabled",
			})
		case errors.Is(err, service.ErrBootstrapToken):
			httpx.WriteJSON(w, http.StatusUnauthorized, accesssdk.ErrorResponse{
				Error:            accesssdk.ErrorCodeUnauthorized,
				ErrorDescription: "Invalid bootstrap token",
			})
		case errors.Is(err, service.ErrAlreadyBootstrapped):
			httpx.WriteJSON(w, http.StatusConflict, accesssdk.ErrorResponse{
				Error:            accesssdk.ErrorCodeConflict,
				ErrorDescription: "Service has already been bootstrapped",
			})
		case errors.Is(err, service.ErrInvalidBootstrapArgs):
			httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
				Error:            accesssdk.ErrorCodeInvalidRequest,
				ErrorDescription: "Invalid bootstrap parameters",
			})
		default:
			log.Error("failed to bootstrap", "error", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, accesssdk.ErrorResponse{
				Error:            accesssdk.ErrorCodeServerError,
				ErrorDescription: "Failed to bootstrap",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, accesssdk.BootstrapResponse{
		UserID: user.ID,
		Email:  user.Email,
	})
}
