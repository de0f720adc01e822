package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/techacademialendaria/lendarios-access/internal/access/domain"
	"github.com/techacademialendaria/lendarios-access/internal/access/rbac"
	"github.com/techacademialendaria/lendarios-access/internal/access/store"
	"github.com/techacademialendaria/lendarios-access/pkg/slogx"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrForbiddenTarget   = errors.New("target user is not manageable by the actor")
	ErrCannotManageSelf  = errors.New("actors cannot change their own access")
	ErrInvalidUserUpdate = errors.New("invalid user update")
)

type UserService struct {
	Store   store.Store
	Catalog *rbac.Catalog
}

// GetUserAccess assembles the access view for one user: the account, its
// effective global role (the most privileged grant, should more than one
// exist), the role's areas and the mind link.
func (s *UserService) GetUserAccess(ctx context.Context, userID string) (domain.UserAccess, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.UserAccess{}, ErrUserNotFound
		}
		return domain.UserAccess{}, err
	}

	grants, err := s.Store.Grants().ListGrantsByUser(ctx, userID)
	if err != nil {
		return domain.UserAccess{}, err
	}

	access := domain.UserAccess{User: user}
	for _, g := range grants {
		if g.ScopeType != domain.ScopeGlobal {
			continue
		}
		if access.RoleID == "" || s.Catalog.CompareHierarchy(g.RoleID, access.RoleID) < 0 {
			access.RoleID = g.RoleID
			access.Areas = g.Areas
		}
	}

	link, err := s.Store.Minds().GetMindLink(ctx, userID)
	switch {
	case err == nil:
		access.MindID = link.MindID
	case errors.Is(err, store.ErrNotFound):
		// no mind link
	default:
		return domain.UserAccess{}, err
	}

	return access, nil
}

// ListUsers returns the access view for every account, newest first.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.UserAccess, error) {
	users, err := s.Store.Users().ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.UserAccess, 0, len(users))
	for _, u := range users {
		access, err := s.GetUserAccess(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, access)
	}
	return out, nil
}

// UpdateAccessParams carries the desired access state for a user. ActorID
// and ActorRoleID come from the caller's verified token.
type UpdateAccessParams struct {
	UserID      string
	Desired     domain.GrantState
	ActorID     string
	ActorRoleID string
}

// UpdateUserAccess reconciles a user's stored access onto the desired
// state. The actor may only manage users holding roles strictly below
// their own and may only assign such roles; self-modification is refused
// so an admin cannot lock themselves out mid-session.
func (s *UserService) UpdateUserAccess(ctx context.Context, p UpdateAccessParams) (domain.UserAccess, error) {
	log := slogx.FromContext(ctx)

	if p.UserID == p.ActorID {
		return domain.UserAccess{}, ErrCannotManageSelf
	}

	current, err := s.GetUserAccess(ctx, p.UserID)
	if err != nil {
		return domain.UserAccess{}, err
	}

	// The target's existing role must be below the actor's.
	if current.RoleID != "" && !s.Catalog.IsAssignableBy(p.ActorRoleID, current.RoleID) {
		log.Warn("attempted to manage user outside hierarchy",
			slog.String("actor_role", p.ActorRoleID),
			slog.String("target_role", current.RoleID),
		)
		return domain.UserAccess{}, ErrForbiddenTarget
	}

	// So must the desired one.
	if p.Desired.RoleID != nil && !s.Catalog.IsAssignableBy(p.ActorRoleID, *p.Desired.RoleID) {
		return domain.UserAccess{}, ErrUnassignableRole
	}

	if err := reconcileGrantState(ctx, s.Store, s.Catalog, p.UserID, current.State(), p.Desired, p.ActorID); err != nil {
		return domain.UserAccess{}, err
	}

	return s.GetUserAccess(ctx, p.UserID)
}

// RemoveUser deletes the account together with its grants and mind link.
// The same hierarchy rule as UpdateUserAccess applies.
func (s *UserService) RemoveUser(ctx context.Context, userID, actorID, actorRoleID string) error {
	log := slogx.FromContext(ctx)

	if userID == actorID {
		return ErrCannotManageSelf
	}

	current, err := s.GetUserAccess(ctx, userID)
	if err != nil {
		return err
	}
	if current.RoleID != "" && !s.Catalog.IsAssignableBy(actorRoleID, current.RoleID) {
		return ErrForbiddenTarget
	}

	if err := s.Store.Users().DeleteUser(ctx, userID); err != nil {
		log.Error("failed to delete user",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
		return err
	}

	log.Info("user removed",
		slog.String("user_id", userID),
		slog.String("actor_id", actorID),
	)
	return nil
}
