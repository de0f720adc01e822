package domain

import (
	"time"
)

// InviteStatus is derived from the invite's timestamps at read time; it is
// never stored. Expiry in particular is a read-time rule, not a transition.
type InviteStatus string

const (
	InviteStatusPending   InviteStatus = "pending"
	InviteStatusAccepted  InviteStatus = "accepted"
	InviteStatusCancelled InviteStatus = "cancelled"
	InviteStatusExpired   InviteStatus = "expired"
)

// Invite is a pending, time-limited, single-use offer of access tied to an
// email and a target role/areas. Only the sha256 fingerprint of the invite
// token is stored; the raw token is returned exactly once at creation.
type Invite struct {
	ID          string
	Email       string // normalized to lowercase
	RoleID      string
	Areas       []string // empty unless RoleID == collaborator
	Message     string
	MindID      string // optional Mind association to attach on acceptance
	InvitedBy   string
	TokenHash   string
	ExpiresAt   time.Time
	AcceptedAt  *time.Time
	AcceptedBy  string // user id, empty until accepted
	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StatusAt derives the lifecycle state at the given instant. Cancellation
// and acceptance are terminal and take precedence over expiry so an invite
// consumed just before its deadline still reads as accepted.
func (i Invite) StatusAt(now time.Time) InviteStatus {
	switch {
	case i.CancelledAt != nil:
		return InviteStatusCancelled
	case i.AcceptedAt != nil:
		return InviteStatusAccepted
	case now.After(i.ExpiresAt):
		return InviteStatusExpired
	default:
		return InviteStatusPending
	}
}

// DaysRemaining reports how many whole-or-partial days remain before the
// invite expires, used for display urgency only. Zero or negative means
// the invite has expired.
func (i Invite) DaysRemaining(now time.Time) int {
	remaining := i.ExpiresAt.Sub(now)
	if remaining <= 0 {
		return 0
	}
	days := int(remaining / (24 * time.Hour))
	if remaining%(24*time.Hour) != 0 {
		days++
	}
	return days
}
