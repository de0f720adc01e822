package accesssdk

import (
	"context"
	"net/http"
)

// ListRoles returns the role catalog and area set. Each role's Assignable
// flag is computed against the calling user's own role. Requires ops:read.
func (c *Client) ListRoles(ctx context.Context) (*ListRolesResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodGet, "/v1/roles", nil)
	if err != nil {
		return nil, err
	}

	var out ListRolesResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
