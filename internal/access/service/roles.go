package service

import (
	"github.com/techacademialendaria/lendarios-access/internal/access/domain"
	"github.com/techacademialendaria/lendarios-access/internal/access/rbac"
)

// RolesService exposes the role catalog to the HTTP layer. The catalog is
// fixed at startup; there is no role CRUD.
type RolesService struct {
	Catalog *rbac.Catalog
}

// Roles returns the full catalog ordered by descending hierarchy.
func (s *RolesService) Roles() []domain.Role {
	return s.Catalog.Roles()
}

// AssignableRoles returns the roles the given actor may hand out, i.e.
// those strictly below the actor's own. The top role is never returned.
func (s *RolesService) AssignableRoles(actorRoleID string) []domain.Role {
	return s.Catalog.AssignableBy(actorRoleID)
}

// Areas returns the catalog's area identifiers.
func (s *RolesService) Areas() []string {
	return s.Catalog.Areas()
}
