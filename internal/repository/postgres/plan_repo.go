// internal/repository/postgres/plan_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"worklink-service/internal/domain/subscription"
	xerrors "worklink-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PlanRepository struct {
	db *pgxpool.Pool
}

func NewPlanRepository(db *pgxpool.Pool) *PlanRepository {
	return &PlanRepository{db: db}
}

const planColumns = `id, code, name, product_type, grade, price,
	text_edit_count, coding_edit_count, image_edit_count, popup_design_count, banner_design_count,
	created_at`

func scanPlan(row pgx.Row) (*subscription.Plan, error) {
	var p subscription.Plan
	err := row.Scan(
		&p.ID, &p.Code, &p.Name, &p.ProductType, &p.Grade, &p.Price,
		&p.Defaults.TextEdit, &p.Defaults.CodingEdit, &p.Defaults.ImageEdit,
		&p.Defaults.PopupDesign, &p.Defaults.BannerDesign,
		&p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan plan: %w", err)
	}
	return &p, nil
}

// Create inserts a new plan.
func (r *PlanRepository) Create(ctx context.Context, p *subscription.Plan) error {
	query := `
		INSERT INTO plans (
			code, name, product_type, grade, price,
			text_edit_count, coding_edit_count, image_edit_count, popup_design_count, banner_design_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		p.Code, p.Name, p.ProductType, p.Grade, p.Price,
		p.Defaults.TextEdit, p.Defaults.CodingEdit, p.Defaults.ImageEdit,
		p.Defaults.PopupDesign, p.Defaults.BannerDesign,
	).Scan(&p.ID, &p.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return xerrors.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}

	return nil
}

// FindByID retrieves a plan by ID.
func (r *PlanRepository) FindByID(ctx context.Context, id int64) (*subscription.Plan, error) {
	query := fmt.Sprintf(`SELECT %s FROM plans WHERE id = $1`, planColumns)
	return scanPlan(r.db.QueryRow(ctx, query, id))
}

// List retrieves all plans.
func (r *PlanRepository) List(ctx context.Context) ([]subscription.Plan, error) {
	query := fmt.Sprintf(`SELECT %s FROM plans ORDER BY product_type, grade`, planColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	plans := []subscription.Plan{}
	for rows.Next() {
		var p subscription.Plan
		if err := rows.Scan(
			&p.ID, &p.Code, &p.Name, &p.ProductType, &p.Grade, &p.Price,
			&p.Defaults.TextEdit, &p.Defaults.CodingEdit, &p.Defaults.ImageEdit,
			&p.Defaults.PopupDesign, &p.Defaults.BannerDesign,
			&p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, p)
	}

	return plans, rows.Err()
}
