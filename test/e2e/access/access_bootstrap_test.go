package access_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/techacademialendaria/lendarios-access/pkg/accesssdk"
)

// TestBootstrapSuccess verifies successful bootstrap creates the owner account.
func TestBootstrapSuccess(t *testing.T) {
	baseURL, cleanup := setupAccessContainer(t)
	defer cleanup()

	owner, ownerID := bootstrapOwner(t, baseURL)

	t.Logf("Bootstrap successful")
	t.Logf("Owner User ID: %s", ownerID)

	// The owner shows up in the user listing with the top role
	users, err := owner.ListUsers(t.Context())
	require.NoError(t, err)
	require.Len(t, users.Users, 1)
	require.Equal(t, ownerEmail, users.Users[0].Email)
	require.Equal(t, "owner", users.Users[0].RoleID)
}

// TestBootstrapIdempotency verifies that bootstrap can only be called once.
func TestBootstrapIdempotency(t *testing.T) {
	baseURL, cleanup := setupAccessContainer(t)
	defer cleanup()

	_, ownerID := bootstrapOwner(t, baseURL)

	t.Logf("First bootstrap successful")
	t.Logf("Owner User ID: %s", ownerID)

	// Second bootstrap should fail with 409
	public := accesssdk.NewClient(baseURL, "")
	_, err := public.Bootstrap(t.Context(), accesssdk.BootstrapRequest{
		Token:    bootstrapToken,
		Email:    "another-owner@example.com",
		Name:     "Another Owner",
		Password: "AnotherPassword123!",
	})

	assertAPIError(t, err, http.StatusConflict, "Second bootstrap should be rejected")

	t.Logf("Second bootstrap correctly rejected")
}

// TestBootstrapWrongToken verifies the shared secret is enforced.
func TestBootstrapWrongToken(t *testing.T) {
	baseURL, cleanup := setupAccessContainer(t)
	defer cleanup()

	public := accesssdk.NewClient(baseURL, "")
	_, err := public.Bootstrap(t.Context(), accesssdk.BootstrapRequest{
		Token:    "not-the-real-token",
		Email:    ownerEmail,
		Name:     ownerName,
		Password: ownerPassword,
	})

	assertAPIError(t, err, http.StatusUnauthorized, "Bootstrap with wrong token should be rejected")
}
