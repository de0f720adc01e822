package sqlite

import (
	"context"
	"time"

	"github.com/techacademialendaria/lendarios-access/internal/access/domain"
)

type mindsRepo struct {
	db dbtx
}

func (r *mindsRepo) GetMindLink(ctx context.Context, userID string) (domain.MindLink, error) {
	var link domain.MindLink
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, mind_id, created_at, updated_at FROM mind_links WHERE user_id = ?`,
		userID,
	).Scan(&link.UserID, &link.MindID, &link.CreatedAt, &link.UpdatedAt)
	if err != nil {
		return domain.MindLink{}, mapNotFound(err)
	}
	return link, nil
}

func (r *mindsRepo) UpsertMindLink(ctx context.Context, userID, mindID string) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO mind_links (user_id, mind_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET
			mind_id = excluded.mind_id,
			updated_at = excluded.updated_at`,
		userID, mindID, now, now)
	return err
}

func (r *mindsRepo) DeleteMindLink(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM mind_links WHERE user_id = ?`, userID)
	return err
}
