package sqlite

import (
	"context"

	"github.com/logistica/estoque-auth/internal/auth/domain"
)

type permissionsRepo struct {
	db dbtx
}

func (r *permissionsRepo) GetPermissionByName(ctx context.Context, name string) (domain.Permission, error) {
	var p domain.Permission
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at FROM permissions WHERE name = ?`, name,
	).Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt)
	if err != nil {
		return domain.Permission{}, mapNotFound(err)
	}
	return p, nil
}

func (r *permissionsRepo) ListPermissions(ctx context.Context) ([]domain.Permission, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, created_at FROM permissions ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var perms []domain.Permission
	for rows.Next() {
		var p domain.Permission
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

func (r *permissionsRepo) CreatePermission(ctx context.Context, p domain.Permission) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO permissions (id, name, description, created_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)`,
		p.ID, p.Name, p.Description,
	)
	return mapConflict(err)
}
