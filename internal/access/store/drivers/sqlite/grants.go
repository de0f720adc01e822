package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/techacademialendaria/lendarios-access/internal/access/domain"
)

type grantsRepo struct {
	db dbtx
}

const grantColumns = `user_id, role_id, scope_type, scope_id, areas,
	expires_at, notes, granted_by, created_at, updated_at`

func scanGrant(row interface{ Scan(dest ...any) error }) (domain.UserGrant, error) {
	var (
		g         domain.UserGrant
		areas     string
		expiresAt sql.NullTime
		notes     sql.NullString
	)
	err := row.Scan(
		&g.UserID, &g.RoleID, &g.ScopeType, &g.ScopeID, &areas,
		&expiresAt, &notes, &g.GrantedBy, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return domain.UserGrant{}, mapNotFound(err)
	}
	g.Areas = splitAreas(areas)
	g.ExpiresAt = mapNullTimePtr(expiresAt)
	g.Notes = mapNullString(notes)
	return g, nil
}

// UpsertGrant keeps exactly one active role per (user, scope): any grant
// the user holds for a different role in the same scope is removed, then
// the keyed row is inserted or updated in place.
func (r *grantsRepo) UpsertGrant(ctx context.Context, g domain.UserGrant) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM user_grants
		 WHERE user_id = ? AND scope_type = ? AND scope_id = ? AND role_id != ?`,
		g.UserID, g.ScopeType, g.ScopeID, g.RoleID)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO user_grants (user_id, role_id, scope_type, scope_id, areas,
			expires_at, notes, granted_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, role_id, scope_type, scope_id) DO UPDATE SET
			areas = excluded.areas,
			expires_at = excluded.expires_at,
			notes = excluded.notes,
			granted_by = excluded.granted_by,
			updated_at = excluded.updated_at`,
		g.UserID, g.RoleID, g.ScopeType, g.ScopeID, joinAreas(g.Areas),
		mapOptionalTime(g.ExpiresAt), mapStringNull(g.Notes), g.GrantedBy, now, now)
	return err
}

func (r *grantsRepo) RevokeGrant(ctx context.Context, userID, roleID, scopeType, scopeID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM user_grants
		 WHERE user_id = ? AND role_id = ? AND scope_type = ? AND scope_id = ?`,
		userID, roleID, scopeType, scopeID)
	return err
}

func (r *grantsRepo) ListGrantsByUser(ctx context.Context, userID string) ([]domain.UserGrant, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+grantColumns+` FROM user_grants WHERE user_id = ? ORDER BY created_at`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []domain.UserGrant
	for rows.Next() {
		g, err := scanGrant(rows)
		if err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}
	return grants, rows.Err()
}

func (r *grantsRepo) DeleteExpiredGrants(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM user_grants WHERE expires_at IS NOT NULL AND expires_at < ?`,
		time.Now().UTC())
	return err
}
