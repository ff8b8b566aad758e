// internal/repository/postgres/work_request_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"worklink-service/internal/domain/workrequest"
	xerrors "worklink-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type WorkRequestRepository struct {
	db *pgxpool.Pool
}

func NewWorkRequestRepository(db *pgxpool.Pool) *WorkRequestRepository {
	return &WorkRequestRepository{db: db}
}

const workRequestColumns = `id, subscription_id, client_id, employee_id, product_type,
	brand, manager, request_date, content, attachment_url, attachment_name,
	cost, work_type_detail, count, deducted_count,
	status, rejection_reason, approved_by, approved_at, rejected_at,
	approval_deducted_amount, approval_remaining_amount,
	approval_text_edit_count, approval_coding_edit_count, approval_image_edit_count,
	approval_popup_design_count, approval_banner_design_count,
	created_at, updated_at`

func prefixColumns(cols, alias string) string {
	parts := strings.Split(cols, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

func scanWorkRequest(row pgx.Row) (*workrequest.WorkRequest, error) {
	var w workrequest.WorkRequest
	err := row.Scan(
		&w.ID, &w.SubscriptionID, &w.ClientID, &w.EmployeeID, &w.ProductType,
		&w.Brand, &w.Manager, &w.RequestDate, &w.Content, &w.AttachmentURL, &w.AttachmentName,
		&w.Cost, &w.WorkTypeDetail, &w.Count, &w.DeductedCount,
		&w.Status, &w.RejectionReason, &w.ApprovedBy, &w.ApprovedAt, &w.RejectedAt,
		&w.Approval.DeductedAmount, &w.Approval.RemainingAmount,
		&w.Approval.TextEditCount, &w.Approval.CodingEditCount, &w.Approval.ImageEditCount,
		&w.Approval.PopupCount, &w.Approval.BannerCount,
		&w.CreatedAt, &w.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan work request: %w", err)
	}
	return &w, nil
}

// CreateWithTx inserts a work request within a transaction.
func (r *WorkRequestRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, w *workrequest.WorkRequest) error {
	query := `
		INSERT INTO work_requests (
			subscription_id, client_id, employee_id, product_type,
			brand, manager, request_date, content, attachment_url, attachment_name,
			cost, work_type_detail, count, deducted_count, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRow(
		ctx, query,
		w.SubscriptionID, w.ClientID, w.EmployeeID, w.ProductType,
		w.Brand, w.Manager, w.RequestDate, w.Content, w.AttachmentURL, w.AttachmentName,
		w.Cost, w.WorkTypeDetail, w.Count, w.DeductedCount, w.Status,
	).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create work request: %w", err)
	}

	return nil
}

// FindByID retrieves a work request by ID.
func (r *WorkRequestRepository) FindByID(ctx context.Context, id int64) (*workrequest.WorkRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM work_requests WHERE id = $1`, workRequestColumns)
	return scanWorkRequest(r.db.QueryRow(ctx, query, id))
}

// FindByIDForUpdate locks and retrieves a work request row inside a
// transaction.
func (r *WorkRequestRepository) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*workrequest.WorkRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM work_requests WHERE id = $1 FOR UPDATE`, workRequestColumns)
	return scanWorkRequest(tx.QueryRow(ctx, query, id))
}

// ApproveWithTx marks a locked request approved and writes the approval
// snapshot in the same statement.
func (r *WorkRequestRepository) ApproveWithTx(ctx context.Context, tx pgx.Tx, id, approverID int64, snap workrequest.ApprovalSnapshot) error {
	query := `
		UPDATE work_requests SET
			status = 'approved', approved_by = $2, approved_at = NOW(),
			approval_deducted_amount = $3, approval_remaining_amount = $4,
			approval_text_edit_count = $5, approval_coding_edit_count = $6,
			approval_image_edit_count = $7, approval_popup_design_count = $8,
			approval_banner_design_count = $9,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := tx.Exec(
		ctx, query,
		id, approverID,
		snap.DeductedAmount, snap.RemainingAmount,
		snap.TextEditCount, snap.CodingEditCount, snap.ImageEditCount,
		snap.PopupCount, snap.BannerCount,
	)
	if err != nil {
		return fmt.Errorf("failed to approve work request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// Reject marks a pending request rejected. The status guard is part of the
// statement so a concurrent transition cannot slip through.
func (r *WorkRequestRepository) Reject(ctx context.Context, id, approverID int64, reason string) (bool, error) {
	query := `
		UPDATE work_requests SET
			status = 'rejected', rejection_reason = $3, approved_by = $2,
			rejected_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	tag, err := r.db.Exec(ctx, query, id, approverID, reason)
	if err != nil {
		return false, fmt.Errorf("failed to reject work request: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateStatus writes a new status; the expected current status is part of
// the WHERE clause.
func (r *WorkRequestRepository) UpdateStatus(ctx context.Context, id int64, from, to workrequest.Status) (bool, error) {
	query := `
		UPDATE work_requests SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	tag, err := r.db.Exec(ctx, query, id, from, to)
	if err != nil {
		return false, fmt.Errorf("failed to update work request status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// MarkDeletedWithTx soft-deletes a locked request.
func (r *WorkRequestRepository) MarkDeletedWithTx(ctx context.Context, tx pgx.Tx, id int64) error {
	query := `UPDATE work_requests SET status = 'deleted', updated_at = NOW() WHERE id = $1`

	tag, err := tx.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete work request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// List retrieves non-deleted work requests with filters, paging, and joined
// display names.
func (r *WorkRequestRepository) List(ctx context.Context, filters *workrequest.ListFilters) ([]workrequest.Row, int64, error) {
	conditions := []string{"w.status != 'deleted'"}
	args := []interface{}{}
	argPos := 1

	if filters.Status != nil {
		conditions = append(conditions, fmt.Sprintf("w.status = $%d", argPos))
		args = append(args, *filters.Status)
		argPos++
	}
	if filters.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("w.employee_id = $%d", argPos))
		args = append(args, *filters.EmployeeID)
		argPos++
	}
	if filters.ClientID != nil {
		conditions = append(conditions, fmt.Sprintf("w.client_id = $%d", argPos))
		args = append(args, *filters.ClientID)
		argPos++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM work_requests w WHERE %s`, whereClause)
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count work requests: %w", err)
	}

	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	offset := (filters.Page - 1) * filters.PageSize

	cols := prefixColumns(workRequestColumns, "w")
	query := fmt.Sprintf(`
		SELECT %s, e.name AS employee_name, c.company_name AS client_name
		FROM work_requests w
		JOIN accounts e ON e.id = w.employee_id
		JOIN clients c ON c.id = w.client_id
		WHERE %s
		ORDER BY w.created_at DESC
		LIMIT $%d OFFSET $%d
	`, cols, whereClause, argPos, argPos+1)
	args = append(args, filters.PageSize, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list work requests: %w", err)
	}
	defer rows.Close()

	result := []workrequest.Row{}
	for rows.Next() {
		var w workrequest.Row
		if err := rows.Scan(
			&w.ID, &w.SubscriptionID, &w.ClientID, &w.EmployeeID, &w.ProductType,
			&w.Brand, &w.Manager, &w.RequestDate, &w.Content, &w.AttachmentURL, &w.AttachmentName,
			&w.Cost, &w.WorkTypeDetail, &w.Count, &w.DeductedCount,
			&w.Status, &w.RejectionReason, &w.ApprovedBy, &w.ApprovedAt, &w.RejectedAt,
			&w.Approval.DeductedAmount, &w.Approval.RemainingAmount,
			&w.Approval.TextEditCount, &w.Approval.CodingEditCount, &w.Approval.ImageEditCount,
			&w.Approval.PopupCount, &w.Approval.BannerCount,
			&w.CreatedAt, &w.UpdatedAt,
			&w.EmployeeName, &w.ClientName,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan work request row: %w", err)
		}
		result = append(result, w)
	}

	return result, total, rows.Err()
}
