package sqlite

import (
	"context"

	"github.com/logistica/estoque-auth/internal/auth/domain"
)

type grantsRepo struct {
	db dbtx
}

func (r *grantsRepo) ListGrantNamesForUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.name
		 FROM grants g
		 JOIN permissions p ON p.id = g.permission_id
		 WHERE g.user_id = ?
		 ORDER BY p.name ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *grantsRepo) CreateGrant(ctx context.Context, g domain.Grant) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO grants (user_id, permission_id, granted_by, granted_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)`,
		g.UserID, g.PermissionID, g.GrantedBy,
	)
	return mapConflict(err)
}

func (r *grantsRepo) DeleteGrantsForUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM grants WHERE user_id = ?`, userID)
	return err
}
