package domain

// Role IDs are persistence keys shared with the console and must not be
// renamed without a data migration.
const (
	RoleOwner        = "owner"
	RoleAdmin        = "admin"
	RoleCollaborator = "collaborator"
	RoleStudent      = "student"
	RoleFreeUser     = "free_user"
)

// Role is an immutable catalog entry. Higher HierarchyLevel means more
// privileged. Exactly one global role is active per user at a time.
type Role struct {
	ID             string
	DisplayName    string
	HierarchyLevel int
}
