package accesssdk

import (
	"context"
	"net/http"
)

// ListUsers returns every account with its effective access. Requires
// ops:read.
func (c *Client) ListUsers(ctx context.Context) (*ListUsersResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodGet, "/v1/users", nil)
	if err != nil {
		return nil, err
	}

	var out ListUsersResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUserAccess returns one user's access view. Requires ops:read.
func (c *Client) GetUserAccess(ctx context.Context, userID string) (*UserAccess, error) {
	resp, err := c.doJSON(ctx, http.MethodGet, "/v1/users/"+userID+"/access", nil)
	if err != nil {
		return nil, err
	}

	var out UserAccess
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUserAccess reconciles a user's access onto the desired state and
// returns the resulting view. Requires ops:write.
func (c *Client) UpdateUserAccess(ctx context.Context, userID string, req UpdateAccessRequest) (*UserAccess, error) {
	resp, err := c.doJSON(ctx, http.MethodPut, "/v1/users/"+userID+"/access", req)
	if err != nil {
		return nil, err
	}

	var out UserAccess
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser removes an account together with its grants and mind link.
// Requires ops:write.
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	resp, err := c.doJSON(ctx, http.MethodDelete, "/v1/users/"+userID, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}
