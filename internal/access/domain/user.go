package domain

import "time"

// User is a console account. Accounts are provisioned when an invite is
// redeemed (or via bootstrap for the initial owner); the platform auth
// provider owns session issuance.
type User struct {
	ID           string
	Email        string // normalized to lowercase
	Name         string
	PasswordHash string // argon2id encoded
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserAccess is the read model the Ops/Users screens render: the account
// with its effective global role, areas and optional mind link.
type UserAccess struct {
	User   User
	RoleID string // empty when the user holds no global grant
	Areas  []string
	MindID string // empty when no mind link exists
}

// State projects the access view into the tuple reconciliation diffs over.
func (ua UserAccess) State() GrantState {
	st := GrantState{Areas: ua.Areas, MindID: ua.MindID}
	if ua.RoleID != "" {
		roleID := ua.RoleID
		st.RoleID = &roleID
	}
	return st
}
