package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/techacademialendaria/lendarios-access/internal/access/domain"
	"github.com/techacademialendaria/lendarios-access/internal/access/rbac"
	"github.com/techacademialendaria/lendarios-access/internal/access/store"
	"github.com/techacademialendaria/lendarios-access/pkg/slogx"
)

// ReconcileService converges a user's stored access onto a desired state.
// It diffs current vs desired and issues only the storage commands the
// diff requires, so re-applying the same desired state is a no-op.
type ReconcileService struct {
	Store   store.Store
	Catalog *rbac.Catalog
}

// Reconcile applies the desired role/areas/mind tuple for a user.
//
// The mind association is applied before the role diff: identity changes
// must land even when the role step later fails validation, so a failed
// reconcile can leave the identity updated. The returned error carries the
// step that failed.
func (s *ReconcileService) Reconcile(ctx context.Context, userID string, current, desired domain.GrantState, actorID string) error {
	return reconcileGrantState(ctx, s.Store, s.Catalog, userID, current, desired, actorID)
}

func reconcileGrantState(ctx context.Context, st store.Store, catalog *rbac.Catalog, userID string, current, desired domain.GrantState, actorID string) error {
	log := slogx.FromContext(ctx)

	// 1. Mind association first.
	if desired.MindID != current.MindID {
		var err error
		if desired.MindID == "" {
			err = st.Minds().DeleteMindLink(ctx, userID)
		} else {
			err = st.Minds().UpsertMindLink(ctx, userID, desired.MindID)
		}
		if err != nil {
			return fmt.Errorf("reconcile mind link: %w", err)
		}
		log.Info("mind link reconciled",
			slog.String("user_id", userID),
			slog.String("mind_id", desired.MindID),
		)
	}

	// 2. Role/areas diff. Unchanged means done.
	roleChanged := !equalRoleID(current.RoleID, desired.RoleID)
	areasChanged := !domain.EqualAreaSets(current.Areas, desired.Areas)
	if !roleChanged && !areasChanged {
		return nil
	}

	// 3. Removal: no desired role means revoking the current grant.
	if desired.RoleID == nil {
		if current.RoleID == nil {
			return nil
		}
		if err := st.Grants().RevokeGrant(ctx, userID, *current.RoleID, domain.ScopeGlobal, ""); err != nil {
			return fmt.Errorf("revoke role: %w", err)
		}
		log.Info("role revoked",
			slog.String("user_id", userID),
			slog.String("role_id", *current.RoleID),
		)
		return nil
	}

	// 4. Grant the desired role. The storage command replaces any other
	// role the user holds in the global scope, so a single grant suffices
	// for both role changes and area-only changes.
	areas := catalog.NormalizeAreas(*desired.RoleID, desired.Areas)
	if err := catalog.ValidateAssignment(*desired.RoleID, areas); err != nil {
		return fmt.Errorf("validate assignment: %w", err)
	}
	if err := st.Grants().UpsertGrant(ctx, domain.UserGrant{
		UserID:    userID,
		RoleID:    *desired.RoleID,
		ScopeType: domain.ScopeGlobal,
		Areas:     areas,
		GrantedBy: actorID,
	}); err != nil {
		return fmt.Errorf("grant role: %w", err)
	}
	log.Info("role reconciled",
		slog.String("user_id", userID),
		slog.String("role_id", *desired.RoleID),
	)
	return nil
}

func equalRoleID(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// IsValidationError reports whether a reconcile failure came from role
// catalog validation rather than storage. Callers map these to 4xx.
func IsValidationError(err error) bool {
	return errors.Is(err, rbac.ErrUnknownRole) ||
		errors.Is(err, rbac.ErrMissingAreas) ||
		errors.Is(err, rbac.ErrInvalidArea)
}
