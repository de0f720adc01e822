package accesssdk

import (
	"context"
	"net/http"
)

// CreateInvite creates a pending invite. Requires the ops:write scope.
// The returned InviteURL embeds the raw token and is shown exactly once.
func (c *Client) CreateInvite(ctx context.Context, req InviteRequest) (*InviteResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/v1/invites", req)
	if err != nil {
		return nil, err
	}

	var out InviteResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListInvites returns pending invites newest-first. Requires ops:read.
func (c *Client) ListInvites(ctx context.Context) (*ListInvitesResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodGet, "/v1/invites", nil)
	if err != nil {
		return nil, err
	}

	var out ListInvitesResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelInvite cancels a pending invite. Requires ops:write. Invites that
// have been accepted, cancelled or expired return a conflict error.
func (c *Client) CancelInvite(ctx context.Context, inviteID string) error {
	resp, err := c.doJSON(ctx, http.MethodDelete, "/v1/invites/"+inviteID, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// Signup redeems an invite token into a new account. Public endpoint.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*SignupResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/v1/signup", req)
	if err != nil {
		return nil, err
	}

	var out SignupResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}
