package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/techacademialendaria/lendarios-access/internal/access/domain"
	"github.com/techacademialendaria/lendarios-access/internal/access/store"
)

type invitesRepo struct {
	db dbtx
}

const inviteColumns = `id, email, role_id, areas, message, mind_id, invited_by,
	token_hash, expires_at, accepted_at, accepted_by, cancelled_at, created_at, updated_at`

func scanInvite(row interface{ Scan(dest ...any) error }) (domain.Invite, error) {
	var (
		inv         domain.Invite
		areas       string
		acceptedAt  sql.NullTime
		acceptedBy  sql.NullString
		cancelledAt sql.NullTime
	)
	err := row.Scan(
		&inv.ID, &inv.Email, &inv.RoleID, &areas, &inv.Message, &inv.MindID,
		&inv.InvitedBy, &inv.TokenHash, &inv.ExpiresAt,
		&acceptedAt, &acceptedBy, &cancelledAt,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return domain.Invite{}, mapNotFound(err)
	}
	inv.Areas = splitAreas(areas)
	inv.AcceptedAt = mapNullTimePtr(acceptedAt)
	inv.AcceptedBy = mapNullString(acceptedBy)
	inv.CancelledAt = mapNullTimePtr(cancelledAt)
	return inv, nil
}

func (r *invitesRepo) CreateInvite(ctx context.Context, inv domain.Invite) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO invites (id, email, role_id, areas, message, mind_id, invited_by,
			token_hash, expires_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.Email, inv.RoleID, joinAreas(inv.Areas), inv.Message, inv.MindID,
		inv.InvitedBy, inv.TokenHash, inv.ExpiresAt, now, now)
	return err
}

func (r *invitesRepo) GetInviteByID(ctx context.Context, id string) (domain.Invite, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+inviteColumns+` FROM invites WHERE id = ?`, id)
	return scanInvite(row)
}

func (r *invitesRepo) GetActiveInviteByTokenHash(ctx context.Context, hash string) (domain.Invite, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+inviteColumns+` FROM invites
		 WHERE token_hash = ?
		   AND accepted_at IS NULL
		   AND cancelled_at IS NULL
		   AND expires_at > ?`,
		hash, time.Now().UTC())
	return scanInvite(row)
}

func (r *invitesRepo) GetPendingInviteByEmail(ctx context.Context, email string) (domain.Invite, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+inviteColumns+` FROM invites
		 WHERE email = ?
		   AND accepted_at IS NULL
		   AND cancelled_at IS NULL
		   AND expires_at > ?
		 ORDER BY created_at DESC
		 LIMIT 1`,
		email, time.Now().UTC())
	return scanInvite(row)
}

func (r *invitesRepo) ListPendingInvites(ctx context.Context) ([]domain.Invite, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+inviteColumns+` FROM invites
		 WHERE accepted_at IS NULL
		   AND cancelled_at IS NULL
		   AND expires_at > ?
		 ORDER BY created_at DESC`,
		time.Now().UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invites []domain.Invite
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, err
		}
		invites = append(invites, inv)
	}
	return invites, rows.Err()
}

func (r *invitesRepo) MarkInviteAccepted(ctx context.Context, inviteID string, acceptedBy string) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE invites SET accepted_at = ?, accepted_by = ?, updated_at = ?
		 WHERE id = ?
		   AND accepted_at IS NULL
		   AND cancelled_at IS NULL
		   AND expires_at > ?`,
		now, mapStringNull(acceptedBy), now, inviteID, now)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *invitesRepo) MarkInviteCancelled(ctx context.Context, inviteID string) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`UPDATE invites SET cancelled_at = ?, updated_at = ? WHERE id = ?`,
		now, now, inviteID)
	return err
}

func (r *invitesRepo) DeleteInvitesExpiredBefore(ctx context.Context, cutoff time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM invites WHERE accepted_at IS NULL AND expires_at < ?`, cutoff.UTC())
	return err
}
