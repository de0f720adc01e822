package access_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/techacademialendaria/lendarios-access/pkg/accesssdk"
)

// TestListRoles verifies the role catalog and area set, and that the
// assignable flag reflects the caller's own role.
func TestListRoles(t *testing.T) {
	baseURL, cleanup := setupAccessContainer(t)
	defer cleanup()

	owner, _ := bootstrapOwner(t, baseURL)
	adminID := onboardUser(t, baseURL, owner, "admin@example.com", "admin", nil)
	admin := accesssdk.NewClient(baseURL, mintToken(t, adminID, "admin", []string{"ops:read"}))

	resp, err := admin.ListRoles(t.Context())
	require.NoError(t, err)

	require.ElementsMatch(t,
		[]string{"marketing", "pedagogical", "financial", "content", "support", "tech"},
		resp.Areas)

	assignable := map[string]bool{}
	for _, role := range resp.Roles {
		assignable[role.ID] = role.Assignable
		require.NotEmpty(t, role.DisplayName)
		require.NotZero(t, role.HierarchyLevel)
	}

	require.Len(t, resp.Roles, 5)
	require.False(t, assignable["owner"], "owner is never assignable")
	require.False(t, assignable["admin"], "admins cannot hand out their own level")
	require.True(t, assignable["collaborator"])
	require.True(t, assignable["student"])
	require.True(t, assignable["free_user"])
}
