package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/techacademialendaria/lendarios-access/internal/access/domain"
	"github.com/techacademialendaria/lendarios-access/internal/access/rbac"
)

func TestBootstrap(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the initial owner", func(t *testing.T) {
		st := newTestStore(t)
		svc := &BootstrapService{Store: st, Catalog: rbac.DefaultCatalog(), Token: "setup-secret"}

		user, err := svc.Bootstrap(ctx, BootstrapParams{
			Token:    "setup-secret",
			Email:    "Founder@Example.com",
			Name:     "Founder",
			Password: "first-password",
		})
		require.NoError(t, err)
		require.Equal(t, "founder@example.com", user.Email)

		grants, err := st.Grants().ListGrantsByUser(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, grants, 1)
		require.Equal(t, domain.RoleOwner, grants[0].RoleID)
	})

	t.Run("refuses once a user exists", func(t *testing.T) {
		st := newTestStore(t)
		newTestAdmin(t, st)
		svc := &BootstrapService{Store: st, Catalog: rbac.DefaultCatalog(), Token: "setup-secret"}

		_, err := svc.Bootstrap(ctx, BootstrapParams{
			Token:    "setup-secret",
			Email:    "second@example.com",
			Name:     "Second",
			Password: "password",
		})
		require.ErrorIs(t, err, ErrAlreadyBootstrapped)
	})

	t.Run("refuses wrong token", func(t *testing.T) {
		st := newTestStore(t)
		svc := &BootstrapService{Store: st, Catalog: rbac.DefaultCatalog(), Token: "setup-secret"}

		_, err := svc.Bootstrap(ctx, BootstrapParams{
			Token:    "guess",
			Email:    "founder@example.com",
			Name:     "Founder",
			Password: "password",
		})
		require.ErrorIs(t, err, ErrBootstrapToken)
	})

	t.Run("disabled without a configured token", func(t *testing.T) {
		st := newTestStore(t)
		svc := &BootstrapService{Store: st, Catalog: rbac.DefaultCatalog()}

		_, err := svc.Bootstrap(ctx, BootstrapParams{
			Token:    "",
			Email:    "founder@example.com",
			Name:     "Founder",
			Password: "password",
		})
		require.ErrorIs(t, err, ErrBootstrapDisabled)
	})

	t.Run("rejects incomplete input", func(t *testing.T) {
		st := newTestStore(t)
		svc := &BootstrapService{Store: st, Catalog: rbac.DefaultCatalog(), Token: "setup-secret"}

		_, err := svc.Bootstrap(ctx, BootstrapParams{
			Token:    "setup-secret",
			Email:    "no-at-sign",
			Name:     "Founder",
			Password: "password",
		})
		require.ErrorIs(t, err, ErrInvalidBootstrapArgs)
	})
}
