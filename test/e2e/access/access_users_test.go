package access_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/techacademialendaria/lendarios-access/pkg/accesssdk"
)

// onboardUser creates and redeems an invite, returning the new user's ID.
func onboardUser(t *testing.T, baseURL string, owner *accesssdk.Client, email, roleID string, areas []string) string {
	t.Helper()

	inviteResp, err := owner.CreateInvite(t.Context(), accesssdk.InviteRequest{
		Email:  email,
		RoleID: roleID,
		Areas:  areas,
	})
	require.NoError(t, err)

	public := accesssdk.NewClient(baseURL, "")
	signupResp, err := public.Signup(t.Context(), accesssdk.SignupRequest{
		InviteToken: inviteTokenFromURL(t, inviteResp.InviteURL),
		Name:        email,
		Password:    "Password123!",
	})
	require.NoError(t, err)
	return signupResp.UserID
}

// TestUpdateUserAccess tests role and area changes through the admin surface:
// 1. Bootstrap and onboard a student
// 2. Promote them to collaborator with areas
// 3. Swap their areas without changing the role
// 4. Revoke the role entirely
func TestUpdateUserAccess(t *testing.T) {
	baseURL, cleanup := setupAccessContainer(t)
	defer cleanup()

	owner, _ := bootstrapOwner(t, baseURL)
	userID := onboardUser(t, baseURL, owner, "student@example.com", "student", nil)

	collaborator := "collaborator"
	access, err := owner.UpdateUserAccess(t.Context(), userID, accesssdk.UpdateAccessRequest{
		RoleID: &collaborator,
		Areas:  []string{"financial"},
	})
	require.NoError(t, err)
	require.Equal(t, "collaborator", access.RoleID)
	require.Equal(t, []string{"financial"}, access.Areas)

	t.Logf("Promoted to collaborator")

	access, err = owner.UpdateUserAccess(t.Context(), userID, accesssdk.UpdateAccessRequest{
		RoleID: &collaborator,
		Areas:  []string{"support", "tech"},
	})
	require.NoError(t, err)
	require.Equal(t, "collaborator", access.RoleID)
	require.ElementsMatch(t, []string{"support", "tech"}, access.Areas)

	access, err = owner.UpdateUserAccess(t.Context(), userID, accesssdk.UpdateAccessRequest{
		RoleID: nil,
	})
	require.NoError(t, err)
	require.Empty(t, access.RoleID, "role should be revoked")

	t.Logf("Role revoked")
}

// TestHierarchyEnforcement verifies admins cannot touch peers, superiors or
// themselves, and cannot hand out roles at or above their own level.
func TestHierarchyEnforcement(t *testing.T) {
	baseURL, cleanup := setupAccessContainer(t)
	defer cleanup()

	owner, ownerID := bootstrapOwner(t, baseURL)
	adminID := onboardUser(t, baseURL, owner, "admin@example.com", "admin", nil)
	studentID := onboardUser(t, baseURL, owner, "student@example.com", "student", nil)

	admin := accesssdk.NewClient(baseURL, mintToken(t, adminID, "admin", []string{"ops:read", "ops:write"}))

	// Admin cannot promote anyone to admin or owner
	adminRole := "admin"
	_, err := admin.UpdateUserAccess(t.Context(), studentID, accesssdk.UpdateAccessRequest{RoleID: &adminRole})
	assertAPIError(t, err, http.StatusForbidden, "Admin promoting to admin should be rejected")

	ownerRole := "owner"
	_, err = admin.UpdateUserAccess(t.Context(), studentID, accesssdk.UpdateAccessRequest{RoleID: &ownerRole})
	assertAPIError(t, err, http.StatusForbidden, "Admin promoting to owner should be rejected")

	// Admin cannot manage the owner
	student := "student"
	_, err = admin.UpdateUserAccess(t.Context(), ownerID, accesssdk.UpdateAccessRequest{RoleID: &student})
	assertAPIError(t, err, http.StatusForbidden, "Admin managing owner should be rejected")

	// Nobody manages their own access
	_, err = admin.UpdateUserAccess(t.Context(), adminID, accesssdk.UpdateAccessRequest{RoleID: &student})
	assertAPIError(t, err, http.StatusForbidden, "Self management should be rejected")

	err = admin.DeleteUser(t.Context(), ownerID)
	assertAPIError(t, err, http.StatusForbidden, "Admin deleting owner should be rejected")
}

// TestRemoveUser verifies deletion removes the account from the listing.
func TestRemoveUser(t *testing.T) {
	baseURL, cleanup := setupAccessContainer(t)
	defer cleanup()

	owner, _ := bootstrapOwner(t, baseURL)
	userID := onboardUser(t, baseURL, owner, "leaver@example.com", "free_user", nil)

	err := owner.DeleteUser(t.Context(), userID)
	require.NoError(t, err)

	_, err = owner.GetUserAccess(t.Context(), userID)
	assertAPIError(t, err, http.StatusNotFound, "Deleted user should be gone")

	users, err := owner.ListUsers(t.Context())
	require.NoError(t, err)
	for _, u := range users.Users {
		require.NotEqual(t, userID, u.UserID)
	}
}
