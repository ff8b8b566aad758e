// internal/repository/postgres/menu_repo.go
package postgres

import (
	"context"
	"fmt"

	"worklink-service/internal/domain/account"
	"worklink-service/internal/domain/menu"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MenuRepository struct {
	db *pgxpool.Pool
}

func NewMenuRepository(db *pgxpool.Pool) *MenuRepository {
	return &MenuRepository{db: db}
}

// ListAllowedByRole returns the menu codes a role may see.
func (r *MenuRepository) ListAllowedByRole(ctx context.Context, role account.Role) ([]string, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT menu_code FROM menu_permissions WHERE role = $1 AND allowed = TRUE ORDER BY menu_code`,
		role,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list menus: %w", err)
	}
	defer rows.Close()

	codes := []string{}
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("failed to scan menu code: %w", err)
		}
		codes = append(codes, code)
	}

	return codes, rows.Err()
}

// ListAll returns every permission row.
func (r *MenuRepository) ListAll(ctx context.Context) ([]menu.MenuPermission, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT id, role, menu_code, allowed, updated_at FROM menu_permissions ORDER BY role, menu_code`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu permissions: %w", err)
	}
	defer rows.Close()

	perms := []menu.MenuPermission{}
	for rows.Next() {
		var p menu.MenuPermission
		if err := rows.Scan(&p.ID, &p.Role, &p.MenuCode, &p.Allowed, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan menu permission: %w", err)
		}
		perms = append(perms, p)
	}

	return perms, rows.Err()
}

// Upsert creates or updates a role/menu permission.
func (r *MenuRepository) Upsert(ctx context.Context, p *menu.MenuPermission) error {
	query := `
		INSERT INTO menu_permissions (role, menu_code, allowed)
		VALUES ($1, $2, $3)
		ON CONFLICT (role, menu_code)
		DO UPDATE SET allowed = EXCLUDED.allowed, updated_at = NOW()
		RETURNING id, updated_at
	`

	err := r.db.QueryRow(ctx, query, p.Role, p.MenuCode, p.Allowed).Scan(&p.ID, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert menu permission: %w", err)
	}
	return nil
}
