package domain

import "time"

// MindLink associates a user with at most one Mind, the richer profile
// entity owned by the identity/profile subsystem. The link is referenced
// here for display and downstream personalization only.
type MindLink struct {
	UserID    string
	MindID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
