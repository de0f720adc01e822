package store

import (
	"context"
	"errors"
	"time"

	"github.com/techacademialendaria/lendarios-access/internal/access/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. Sub-repositories keep concerns tidy and testable and make
// it harder to accidentally nest transactions.
type Store interface {
	Users() Users
	Invites() Invites
	Grants() Grants
	Minds() Minds

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. Prefer this
	// over Tx for multi-step operations that must be atomic (e.g. invite
	// redemption).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail returns a user by normalized (lowercase) email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateName mutates the display name and bumps updated_at.
	UpdateName(ctx context.Context, userID string, name string) error

	// ListUsers returns all users ordered by creation date (newest first).
	ListUsers(ctx context.Context) ([]domain.User, error)

	// DeleteUser cascades to user_grants and mind_links (per schema).
	DeleteUser(ctx context.Context, userID string) error

	// IsEmpty returns true if there are no users. Used by bootstrap.
	IsEmpty(ctx context.Context) (bool, error)
}

type Invites interface {
	// CreateInvite writes a new invite (token_hash is the sha256
	// fingerprint of the opaque invite token).
	CreateInvite(ctx context.Context, inv domain.Invite) error

	// GetInviteByID returns an invite regardless of lifecycle state.
	GetInviteByID(ctx context.Context, id string) (domain.Invite, error)

	// GetActiveInviteByTokenHash returns a pending, not-expired invite by
	// token fingerprint.
	GetActiveInviteByTokenHash(ctx context.Context, hash string) (domain.Invite, error)

	// GetPendingInviteByEmail returns the pending, not-expired invite for
	// an email, if one exists. Used to enforce pending uniqueness.
	GetPendingInviteByEmail(ctx context.Context, email string) (domain.Invite, error)

	// ListPendingInvites returns pending, not-expired invites ordered by
	// created_at descending.
	ListPendingInvites(ctx context.Context) ([]domain.Invite, error)

	// MarkInviteAccepted sets accepted_at/accepted_by (transaction-friendly).
	// The update is guarded: it returns ErrNotFound when the invite is no
	// longer pending and unexpired, so a token can only be consumed once
	// even under concurrent redemptions.
	MarkInviteAccepted(ctx context.Context, inviteID string, acceptedBy string) error

	// MarkInviteCancelled sets cancelled_at.
	MarkInviteCancelled(ctx context.Context, inviteID string) error

	// DeleteInvitesExpiredBefore removes invites whose expiry predates the
	// cutoff and that were never accepted. Housekeeping only.
	DeleteInvitesExpiredBefore(ctx context.Context, cutoff time.Time) error
}

type Grants interface {
	// UpsertGrant inserts or updates-in-place the grant identified by
	// (user_id, role_id, scope_type, scope_id). A grant for a different
	// role in the same scope is replaced: a user holds at most one role
	// per scope.
	UpsertGrant(ctx context.Context, g domain.UserGrant) error

	// RevokeGrant removes the grant for the given key tuple.
	RevokeGrant(ctx context.Context, userID, roleID, scopeType, scopeID string) error

	// ListGrantsByUser returns all grants held by a user.
	ListGrantsByUser(ctx context.Context, userID string) ([]domain.UserGrant, error)

	// DeleteExpiredGrants removes grants whose expires_at has passed.
	DeleteExpiredGrants(ctx context.Context) error
}

type Minds interface {
	// GetMindLink returns the mind association for a user.
	GetMindLink(ctx context.Context, userID string) (domain.MindLink, error)

	// UpsertMindLink creates or replaces the user's mind association.
	UpsertMindLink(ctx context.Context, userID, mindID string) error

	// DeleteMindLink removes the user's mind association.
	DeleteMindLink(ctx context.Context, userID string) error
}
