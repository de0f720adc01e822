package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/techacademialendaria/lendarios-access/internal/access/domain"
	"github.com/techacademialendaria/lendarios-access/internal/access/rbac"
	"github.com/techacademialendaria/lendarios-access/internal/access/store"
	"github.com/techacademialendaria/lendarios-access/pkg/idx"
)

func strPtr(s string) *string { return &s }

func createUser(t *testing.T, st store.Store, email string) domain.User {
	t.Helper()
	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         "Test User",
		PasswordHash: "hash",
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func TestReconcile(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	admin := newTestAdmin(t, st)

	svc := &ReconcileService{Store: st, Catalog: rbac.DefaultCatalog()}
	users := &UserService{Store: st, Catalog: rbac.DefaultCatalog()}

	t.Run("identical state is a no-op", func(t *testing.T) {
		u := createUser(t, st, "noop@example.com")
		state := domain.GrantState{RoleID: strPtr(domain.RoleStudent)}

		require.NoError(t, svc.Reconcile(ctx, u.ID, domain.GrantState{}, state, admin.ID))
		require.NoError(t, svc.Reconcile(ctx, u.ID, state, state, admin.ID))

		access, err := users.GetUserAccess(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, domain.RoleStudent, access.RoleID)
	})

	t.Run("role change replaces the global grant", func(t *testing.T) {
		u := createUser(t, st, "promote@example.com")
		current := domain.GrantState{RoleID: strPtr(domain.RoleStudent)}
		require.NoError(t, svc.Reconcile(ctx, u.ID, domain.GrantState{}, current, admin.ID))

		desired := domain.GrantState{
			RoleID: strPtr(domain.RoleCollaborator),
			Areas:  []string{domain.AreaContent},
		}
		require.NoError(t, svc.Reconcile(ctx, u.ID, current, desired, admin.ID))

		grants, err := st.Grants().ListGrantsByUser(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, grants, 1, "the old role grant must not linger")
		require.Equal(t, domain.RoleCollaborator, grants[0].RoleID)
		require.Equal(t, []string{domain.AreaContent}, grants[0].Areas)
	})

	t.Run("area-only change updates in place", func(t *testing.T) {
		u := createUser(t, st, "areas@example.com")
		current := domain.GrantState{
			RoleID: strPtr(domain.RoleCollaborator),
			Areas:  []string{domain.AreaMarketing},
		}
		require.NoError(t, svc.Reconcile(ctx, u.ID, domain.GrantState{}, current, admin.ID))

		desired := domain.GrantState{
			RoleID: strPtr(domain.RoleCollaborator),
			Areas:  []string{domain.AreaMarketing, domain.AreaFinancial},
		}
		require.NoError(t, svc.Reconcile(ctx, u.ID, current, desired, admin.ID))

		grants, err := st.Grants().ListGrantsByUser(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, grants, 1)
		require.ElementsMatch(t,
			[]string{domain.AreaMarketing, domain.AreaFinancial}, grants[0].Areas)
	})

	t.Run("area order does not trigger a write", func(t *testing.T) {
		u := createUser(t, st, "areaorder@example.com")
		current := domain.GrantState{
			RoleID: strPtr(domain.RoleCollaborator),
			Areas:  []string{domain.AreaMarketing, domain.AreaTech},
		}
		require.NoError(t, svc.Reconcile(ctx, u.ID, domain.GrantState{}, current, admin.ID))

		grantsBefore, err := st.Grants().ListGrantsByUser(ctx, u.ID)
		require.NoError(t, err)

		desired := domain.GrantState{
			RoleID: strPtr(domain.RoleCollaborator),
			Areas:  []string{domain.AreaTech, domain.AreaMarketing},
		}
		require.NoError(t, svc.Reconcile(ctx, u.ID, current, desired, admin.ID))

		grantsAfter, err := st.Grants().ListGrantsByUser(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, grantsBefore[0].UpdatedAt, grantsAfter[0].UpdatedAt)
	})

	t.Run("nil desired role revokes", func(t *testing.T) {
		u := createUser(t, st, "revoke@example.com")
		current := domain.GrantState{RoleID: strPtr(domain.RoleStudent)}
		require.NoError(t, svc.Reconcile(ctx, u.ID, domain.GrantState{}, current, admin.ID))

		require.NoError(t, svc.Reconcile(ctx, u.ID, current, domain.GrantState{}, admin.ID))

		grants, err := st.Grants().ListGrantsByUser(ctx, u.ID)
		require.NoError(t, err)
		require.Empty(t, grants)
	})

	t.Run("mind link applied before role and independently", func(t *testing.T) {
		u := createUser(t, st, "mindfirst@example.com")

		// Desired role is invalid (collaborator without areas) but the
		// mind link must still land.
		desired := domain.GrantState{
			RoleID: strPtr(domain.RoleCollaborator),
			MindID: "mind-123",
		}
		err := svc.Reconcile(ctx, u.ID, domain.GrantState{}, desired, admin.ID)
		require.ErrorIs(t, err, rbac.ErrMissingAreas)
		require.True(t, IsValidationError(err))

		link, err := st.Minds().GetMindLink(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "mind-123", link.MindID)
	})

	t.Run("clearing the mind id removes the link", func(t *testing.T) {
		u := createUser(t, st, "mindclear@example.com")
		current := domain.GrantState{MindID: "mind-xyz"}
		require.NoError(t, svc.Reconcile(ctx, u.ID, domain.GrantState{}, current, admin.ID))

		require.NoError(t, svc.Reconcile(ctx, u.ID, current, domain.GrantState{}, admin.ID))

		_, err := st.Minds().GetMindLink(ctx, u.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("unknown role fails validation", func(t *testing.T) {
		u := createUser(t, st, "badrole@example.com")
		err := svc.Reconcile(ctx, u.ID, domain.GrantState{},
			domain.GrantState{RoleID: strPtr("superuser")}, admin.ID)
		require.ErrorIs(t, err, rbac.ErrUnknownRole)
	})
}
