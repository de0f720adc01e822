package access_test

import (
	"net/http"
	"testing"

	"github.com/techacademialendaria/lendarios-access/pkg/accesssdk"
)

// TestMissingToken verifies protected endpoints reject anonymous requests.
func TestMissingToken(t *testing.T) {
	baseURL, cleanup := setupAccessContainer(t)
	defer cleanup()

	_, _ = bootstrapOwner(t, baseURL)

	anonymous := accesssdk.NewClient(baseURL, "")

	_, err := anonymous.ListUsers(t.Context())
	assertAPIError(t, err, http.StatusUnauthorized, "Anonymous user listing should be rejected")

	_, err = anonymous.CreateInvite(t.Context(), accesssdk.InviteRequest{
		Email:  "sneaky@example.com",
		RoleID: "student",
	})
	assertAPIError(t, err, http.StatusUnauthorized, "Anonymous invite creation should be rejected")
}

// TestInvalidToken verifies a garbage bearer token is rejected.
func TestInvalidToken(t *testing.T) {
	baseURL, cleanup := setupAccessContainer(t)
	defer cleanup()

	_, _ = bootstrapOwner(t, baseURL)

	forged := accesssdk.NewClient(baseURL, "invalid-token-12345")

	_, err := forged.ListUsers(t.Context())
	assertAPIError(t, err, http.StatusUnauthorized, "Garbage token should be rejected")
}

// TestInsufficientScope verifies write endpoints require the ops:write scope.
func TestInsufficientScope(t *testing.T) {
	baseURL, cleanup := setupAccessContainer(t)
	defer cleanup()

	_, ownerID := bootstrapOwner(t, baseURL)

	readOnly := accesssdk.NewClient(baseURL, mintToken(t, ownerID, "owner", []string{"ops:read"}))

	// Reads work
	_, err := readOnly.ListUsers(t.Context())
	if err != nil {
		t.Fatalf("read scope should allow listing users: %v", err)
	}

	// Writes do not
	_, err = readOnly.CreateInvite(t.Context(), accesssdk.InviteRequest{
		Email:  "scoped@example.com",
		RoleID: "student",
	})
	assertAPIError(t, err, http.StatusForbidden, "Invite creation without ops:write should be rejected")
}
