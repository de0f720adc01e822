package access_test

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/techacademialendaria/lendarios-access/pkg/accesssdk"
)

// inviteTokenFromURL extracts the raw invite token from the signup URL
// returned at creation time.
func inviteTokenFromURL(t *testing.T, inviteURL string) string {
	t.Helper()
	u, err := url.Parse(inviteURL)
	require.NoError(t, err)
	token := u.Query().Get("invite")
	require.NotEmpty(t, token, "invite URL should carry the token")
	return token
}

// TestInviteCreateListCancel tests the invite management flow:
// 1. Bootstrap the service
// 2. Create an invite for a collaborator
// 3. Find it in the pending listing
// 4. Cancel it
// 5. Verify the listing no longer shows it as pending
func TestInviteCreateListCancel(t *testing.T) {
	baseURL, cleanup := setupAccessContainer(t)
	defer cleanup()

	owner, _ := bootstrapOwner(t, baseURL)

	inviteResp, err := owner.CreateInvite(t.Context(), accesssdk.InviteRequest{
		Email:  "maria@example.com",
		RoleID: "collaborator",
		Areas:  []string{"marketing", "content"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, inviteResp.ID)
	require.Contains(t, inviteResp.InviteURL, "/auth/signup?invite=")
	require.NotZero(t, inviteResp.ExpiresAt)

	expiresAt := time.Unix(inviteResp.ExpiresAt, 0)
	t.Logf("Invite created, expires %s", expiresAt.Format(time.RFC3339))

	list, err := owner.ListInvites(t.Context())
	require.NoError(t, err)
	require.Len(t, list.Invites, 1)
	require.Equal(t, "maria@example.com", list.Invites[0].Email)
	require.Equal(t, "pending", list.Invites[0].Status)
	require.ElementsMatch(t, []string{"content", "marketing"}, list.Invites[0].Areas)
	require.Positive(t, list.Invites[0].DaysRemaining)

	err = owner.CancelInvite(t.Context(), inviteResp.ID)
	require.NoError(t, err)

	list, err = owner.ListInvites(t.Context())
	require.NoError(t, err)
	for _, inv := range list.Invites {
		require.NotEqual(t, "pending", inv.Status, "cancelled invite must not list as pending")
	}

	t.Logf("Invite cancelled")
}

// TestInviteSignupFlow tests the full onboarding path:
// 1. Bootstrap the service
// 2. Create an invite with a role, areas and a mind association
// 3. Redeem it through the public signup endpoint
// 4. Verify the new account carries the invite's access state
func TestInviteSignupFlow(t *testing.T) {
	baseURL, cleanup := setupAccessContainer(t)
	defer cleanup()

	owner, _ := bootstrapOwner(t, baseURL)

	inviteResp, err := owner.CreateInvite(t.Context(), accesssdk.InviteRequest{
		Email:  "joao@example.com",
		RoleID: "collaborator",
		Areas:  []string{"pedagogical"},
		MindID: "mind-042",
	})
	require.NoError(t, err)

	token := inviteTokenFromURL(t, inviteResp.InviteURL)

	public := accesssdk.NewClient(baseURL, "")
	signupResp, err := public.Signup(t.Context(), accesssdk.SignupRequest{
		InviteToken: token,
		Name:        "Joao",
		Password:    "JoaoPassword123!",
	})
	require.NoError(t, err)
	require.Equal(t, "joao@example.com", signupResp.Email)
	require.NotEmpty(t, signupResp.UserID)

	t.Logf("Signup successful, user %s", signupResp.UserID)

	access, err := owner.GetUserAccess(t.Context(), signupResp.UserID)
	require.NoError(t, err)
	require.Equal(t, "collaborator", access.RoleID)
	require.Equal(t, []string{"pedagogical"}, access.Areas)
	require.Equal(t, "mind-042", access.MindID)

	// The invite is single use
	_, err = public.Signup(t.Context(), accesssdk.SignupRequest{
		InviteToken: token,
		Name:        "Joao Again",
		Password:    "JoaoPassword123!",
	})
	assertAPIError(t, err, http.StatusBadRequest, "Spent invite should be rejected")
}

// TestInviteDuplicatePending verifies a second invite for the same email is
// rejected while the first is still pending.
func TestInviteDuplicatePending(t *testing.T) {
	baseURL, cleanup := setupAccessContainer(t)
	defer cleanup()

	owner, _ := bootstrapOwner(t, baseURL)

	_, err := owner.CreateInvite(t.Context(), accesssdk.InviteRequest{
		Email:  "dup@example.com",
		RoleID: "student",
	})
	require.NoError(t, err)

	_, err = owner.CreateInvite(t.Context(), accesssdk.InviteRequest{
		Email:  "DUP@example.com",
		RoleID: "student",
	})
	assertAPIError(t, err, http.StatusConflict, "Duplicate pending invite should be rejected")
}

// TestInviteGarbageToken verifies an unknown token is rejected without
// leaking whether it ever existed.
func TestInviteGarbageToken(t *testing.T) {
	baseURL, cleanup := setupAccessContainer(t)
	defer cleanup()

	_, _ = bootstrapOwner(t, baseURL)

	public := accesssdk.NewClient(baseURL, "")
	_, err := public.Signup(t.Context(), accesssdk.SignupRequest{
		InviteToken: "definitely-not-a-real-token",
		Name:        "Nobody",
		Password:    "Password123!",
	})
	assertAPIError(t, err, http.StatusBadRequest, "Unknown invite token should be rejected")
}
