package rbac

import (
	"errors"
	"fmt"
	"sort"

	"github.com/techacademialendaria/lendarios-access/internal/access/domain"
)

var (
	ErrUnknownRole  = errors.New("rbac: unknown role")
	ErrMissingAreas = errors.New("rbac: collaborators require at least one area")
	ErrInvalidArea  = errors.New("rbac: area is not in the catalog")
)

// Catalog is the immutable role/area definition set the permission model
// operates over. It is built once at startup and shared read-only; tests
// may construct alternate catalogs.
type Catalog struct {
	roles map[string]domain.Role
	areas map[string]struct{}
	// topRole is never assignable through the catalog; it is reserved for
	// the out-of-band bootstrap path.
	topRole string
}

// NewCatalog builds a catalog from role and area definitions. The role with
// the highest hierarchy level is treated as the reserved top role.
func NewCatalog(roles []domain.Role, areas []string) *Catalog {
	c := &Catalog{
		roles: make(map[string]domain.Role, len(roles)),
		areas: make(map[string]struct{}, len(areas)),
	}
	top := -1
	for _, r := range roles {
		c.roles[r.ID] = r
		if r.HierarchyLevel > top {
			top = r.HierarchyLevel
			c.topRole = r.ID
		}
	}
	for _, a := range areas {
		c.areas[a] = struct{}{}
	}
	return c
}

// DefaultCatalog returns the production role/area catalog. Role and area
// IDs are persistence keys shared with the console.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		[]domain.Role{
			{ID: domain.RoleOwner, DisplayName: "Owner", HierarchyLevel: 100},
			{ID: domain.RoleAdmin, DisplayName: "Admin", HierarchyLevel: 80},
			{ID: domain.RoleCollaborator, DisplayName: "Collaborator", HierarchyLevel: 60},
			{ID: domain.RoleStudent, DisplayName: "Student", HierarchyLevel: 40},
			{ID: domain.RoleFreeUser, DisplayName: "Free User", HierarchyLevel: 20},
		},
		[]string{
			domain.AreaMarketing,
			domain.AreaPedagogical,
			domain.AreaFinancial,
			domain.AreaContent,
			domain.AreaSupport,
			domain.AreaTech,
		},
	)
}

// Role looks up a role definition by ID.
func (c *Catalog) Role(id string) (domain.Role, error) {
	r, ok := c.roles[id]
	if !ok {
		return domain.Role{}, fmt.Errorf("%w: %q", ErrUnknownRole, id)
	}
	return r, nil
}

// Roles returns every role in the catalog sorted by CompareHierarchy
// (most privileged first) so role pickers render deterministically.
func (c *Catalog) Roles() []domain.Role {
	out := make([]domain.Role, 0, len(c.roles))
	for _, r := range c.roles {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return c.CompareHierarchy(out[i].ID, out[j].ID) < 0
	})
	return out
}

// Areas returns the catalog's area identifiers sorted alphabetically.
func (c *Catalog) Areas() []string {
	out := make([]string, 0, len(c.areas))
	for a := range c.areas {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// TopRole returns the reserved top role's ID. It is assignable only
// through the bootstrap path.
func (c *Catalog) TopRole() string {
	return c.topRole
}

// AreasRequired reports whether the role needs explicit area grants.
// Only collaborators do; every other role implicitly has all areas or none.
func (c *Catalog) AreasRequired(roleID string) bool {
	return roleID == domain.RoleCollaborator
}

// ValidateAssignment checks a role/areas combination before any invite or
// reconciliation proceeds. A collaborator with no areas fails with
// ErrMissingAreas; any area outside the closed set fails with
// ErrInvalidArea.
func (c *Catalog) ValidateAssignment(roleID string, areas []string) error {
	if _, ok := c.roles[roleID]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRole, roleID)
	}
	for _, a := range areas {
		if _, ok := c.areas[a]; !ok {
			return fmt.Errorf("%w: %q", ErrInvalidArea, a)
		}
	}
	if c.AreasRequired(roleID) && len(areas) == 0 {
		return ErrMissingAreas
	}
	return nil
}

// NormalizeAreas dedupes the area list, preserving first-seen order, and
// drops areas entirely for roles that do not take explicit grants.
func (c *Catalog) NormalizeAreas(roleID string, areas []string) []string {
	if !c.AreasRequired(roleID) {
		return nil
	}
	seen := make(map[string]struct{}, len(areas))
	out := make([]string, 0, len(areas))
	for _, a := range areas {
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}

// IsAssignableBy reports whether an actor holding actorRole may assign
// targetRole: strictly below the actor's hierarchy level, and never the
// reserved top role regardless of the actor.
func (c *Catalog) IsAssignableBy(actorRoleID, targetRoleID string) bool {
	actor, ok := c.roles[actorRoleID]
	if !ok {
		return false
	}
	target, ok := c.roles[targetRoleID]
	if !ok {
		return false
	}
	if target.ID == c.topRole {
		return false
	}
	return target.HierarchyLevel < actor.HierarchyLevel
}

// AssignableBy returns the catalog roles the actor may hand out, sorted
// most privileged first. The reserved top role is always filtered out.
func (c *Catalog) AssignableBy(actorRoleID string) []domain.Role {
	out := make([]domain.Role, 0, len(c.roles))
	for _, r := range c.Roles() {
		if c.IsAssignableBy(actorRoleID, r.ID) {
			out = append(out, r)
		}
	}
	return out
}

// CompareHierarchy totally orders two roles: -1 if a is more privileged
// than b, +1 if less, 0 if equal. Unknown roles sort last.
func (c *Catalog) CompareHierarchy(a, b string) int {
	la, lb := -1, -1
	if r, ok := c.roles[a]; ok {
		la = r.HierarchyLevel
	}
	if r, ok := c.roles[b]; ok {
		lb = r.HierarchyLevel
	}
	switch {
	case la > lb:
		return -1
	case la < lb:
		return 1
	default:
		return 0
	}
}
