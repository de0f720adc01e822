package domain

import "time"

// Scope types for user grants. Only the global scope is exercised today;
// the column pair (scope_type, scope_id) leaves room for narrower scoping.
const ScopeGlobal = "global"

// UserGrant is the materialized binding of a user to a role within a scope.
// At most one active grant exists per (user_id, role_id, scope_type,
// scope_id); granting the same key again updates in place.
type UserGrant struct {
	UserID    string
	RoleID    string
	ScopeType string
	ScopeID   string // empty for global scope
	Areas     []string
	ExpiresAt *time.Time
	Notes     string
	GrantedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GrantState is the role/areas/mind tuple reconciliation diffs over. A nil
// RoleID pointer means "no global role".
type GrantState struct {
	RoleID *string
	Areas  []string
	MindID string // empty means no mind link
}
