// internal/repository/postgres/subscription_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"worklink-service/internal/domain/subscription"
	xerrors "worklink-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SubscriptionRepository struct {
	db *pgxpool.Pool
}

func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

const subscriptionColumns = `id, client_id, plan_id, product_type, grade, total_amount,
	detail_text_edit_count, detail_coding_edit_count, detail_image_edit_count,
	detail_popup_design_count, detail_banner_design_count,
	default_text_edit_count, default_coding_edit_count, default_image_edit_count,
	default_popup_design_count, default_banner_design_count,
	status, progress_started_date, last_credit_reset_month, created_at, updated_at`

func scanSubscription(row pgx.Row) (*subscription.ManagedSubscription, error) {
	var s subscription.ManagedSubscription
	err := row.Scan(
		&s.ID, &s.ClientID, &s.PlanID, &s.ProductType, &s.Grade, &s.TotalAmount,
		&s.Detail.TextEdit, &s.Detail.CodingEdit, &s.Detail.ImageEdit,
		&s.Detail.PopupDesign, &s.Detail.BannerDesign,
		&s.Defaults.TextEdit, &s.Defaults.CodingEdit, &s.Defaults.ImageEdit,
		&s.Defaults.PopupDesign, &s.Defaults.BannerDesign,
		&s.Status, &s.ProgressStartedDate, &s.LastCreditResetMonth,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan subscription: %w", err)
	}
	return &s, nil
}

// Create inserts a new managed subscription.
func (r *SubscriptionRepository) Create(ctx context.Context, s *subscription.ManagedSubscription) error {
	query := `
		INSERT INTO managed_subscriptions (
			client_id, plan_id, product_type, grade, total_amount,
			detail_text_edit_count, detail_coding_edit_count, detail_image_edit_count,
			detail_popup_design_count, detail_banner_design_count,
			default_text_edit_count, default_coding_edit_count, default_image_edit_count,
			default_popup_design_count, default_banner_design_count,
			status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		s.ClientID, s.PlanID, s.ProductType, s.Grade, s.TotalAmount,
		s.Detail.TextEdit, s.Detail.CodingEdit, s.Detail.ImageEdit,
		s.Detail.PopupDesign, s.Detail.BannerDesign,
		s.Defaults.TextEdit, s.Defaults.CodingEdit, s.Defaults.ImageEdit,
		s.Defaults.PopupDesign, s.Defaults.BannerDesign,
		s.Status,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	return nil
}

// FindByID retrieves a subscription by ID.
func (r *SubscriptionRepository) FindByID(ctx context.Context, id int64) (*subscription.ManagedSubscription, error) {
	query := fmt.Sprintf(`SELECT %s FROM managed_subscriptions WHERE id = $1`, subscriptionColumns)
	return scanSubscription(r.db.QueryRow(ctx, query, id))
}

// FindByIDForUpdate locks and retrieves a subscription row inside a
// transaction. Every balance or counter mutation goes through this lock.
func (r *SubscriptionRepository) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*subscription.ManagedSubscription, error) {
	query := fmt.Sprintf(`SELECT %s FROM managed_subscriptions WHERE id = $1 FOR UPDATE`, subscriptionColumns)
	return scanSubscription(tx.QueryRow(ctx, query, id))
}

// SaveStateWithTx writes back the mutable workflow state of a subscription
// inside a transaction.
func (r *SubscriptionRepository) SaveStateWithTx(ctx context.Context, tx pgx.Tx, s *subscription.ManagedSubscription) error {
	query := `
		UPDATE managed_subscriptions SET
			total_amount = $2,
			detail_text_edit_count = $3, detail_coding_edit_count = $4,
			detail_image_edit_count = $5, detail_popup_design_count = $6,
			detail_banner_design_count = $7,
			status = $8, progress_started_date = $9, last_credit_reset_month = $10,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := tx.Exec(
		ctx, query,
		s.ID, s.TotalAmount,
		s.Detail.TextEdit, s.Detail.CodingEdit, s.Detail.ImageEdit,
		s.Detail.PopupDesign, s.Detail.BannerDesign,
		s.Status, s.ProgressStartedDate, s.LastCreditResetMonth,
	)
	if err != nil {
		return fmt.Errorf("failed to save subscription state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// UpdateStatus changes the lifecycle status outside the workflow (manual
// administration: end, unpaid, ...).
func (r *SubscriptionRepository) UpdateStatus(ctx context.Context, id int64, status subscription.Status) error {
	query := `UPDATE managed_subscriptions SET status = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update subscription status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// List retrieves subscriptions with filters and paging.
func (r *SubscriptionRepository) List(ctx context.Context, filters *subscription.SubscriptionListFilters) ([]subscription.ManagedSubscription, int64, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if filters.ClientID != nil {
		conditions = append(conditions, fmt.Sprintf("client_id = $%d", argPos))
		args = append(args, *filters.ClientID)
		argPos++
	}
	if filters.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *filters.Status)
		argPos++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM managed_subscriptions WHERE %s`, whereClause)
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	offset := (filters.Page - 1) * filters.PageSize

	query := fmt.Sprintf(`
		SELECT %s FROM managed_subscriptions
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, subscriptionColumns, whereClause, argPos, argPos+1)
	args = append(args, filters.PageSize, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer rows.Close()

	subs := []subscription.ManagedSubscription{}
	for rows.Next() {
		var s subscription.ManagedSubscription
		if err := rows.Scan(
			&s.ID, &s.ClientID, &s.PlanID, &s.ProductType, &s.Grade, &s.TotalAmount,
			&s.Detail.TextEdit, &s.Detail.CodingEdit, &s.Detail.ImageEdit,
			&s.Detail.PopupDesign, &s.Detail.BannerDesign,
			&s.Defaults.TextEdit, &s.Defaults.CodingEdit, &s.Defaults.ImageEdit,
			&s.Defaults.PopupDesign, &s.Defaults.BannerDesign,
			&s.Status, &s.ProgressStartedDate, &s.LastCreditResetMonth,
			&s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subs = append(subs, s)
	}

	return subs, total, rows.Err()
}
