// internal/repository/postgres/notification_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"worklink-service/internal/domain/notification"
	xerrors "worklink-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationRepository struct {
	db *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create creates a new notification
func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	query := `
		INSERT INTO notifications (recipient_role, recipient_id, work_request_id, type, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		n.RecipientRole, n.RecipientID, n.WorkRequestID, n.Type, n.Message,
	).Scan(&n.ID, &n.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// FindByID retrieves a notification by ID
func (r *NotificationRepository) FindByID(ctx context.Context, id int64) (*notification.Notification, error) {
	query := `
		SELECT id, recipient_role, recipient_id, work_request_id, type, message, is_read, created_at, read_at
		FROM notifications
		WHERE id = $1
	`

	var n notification.Notification
	err := r.db.QueryRow(ctx, query, id).Scan(
		&n.ID, &n.RecipientRole, &n.RecipientID, &n.WorkRequestID,
		&n.Type, &n.Message, &n.IsRead, &n.CreatedAt, &n.ReadAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find notification: %w", err)
	}

	return &n, nil
}

// ListByRecipient retrieves notifications for a recipient with filters
func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID int64, filters *notification.ListFilters) ([]notification.Notification, int64, error) {
	conditions := []string{"recipient_id = $1"}
	args := []interface{}{recipientID}
	argPos := 2

	if filters.IsRead != nil {
		conditions = append(conditions, fmt.Sprintf("is_read = $%d", argPos))
		args = append(args, *filters.IsRead)
		argPos++
	}
	if filters.Type != nil {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argPos))
		args = append(args, *filters.Type)
		argPos++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM notifications WHERE %s", whereClause)
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	offset := (filters.Page - 1) * filters.PageSize

	query := fmt.Sprintf(`
		SELECT id, recipient_role, recipient_id, work_request_id, type, message, is_read, created_at, read_at
		FROM notifications
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argPos, argPos+1)
	args = append(args, filters.PageSize, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	notifications := []notification.Notification{}
	for rows.Next() {
		var n notification.Notification
		if err := rows.Scan(
			&n.ID, &n.RecipientRole, &n.RecipientID, &n.WorkRequestID,
			&n.Type, &n.Message, &n.IsRead, &n.CreatedAt, &n.ReadAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	return notifications, total, rows.Err()
}

// UnreadCount counts unread notifications for a recipient
func (r *NotificationRepository) UnreadCount(ctx context.Context, recipientID int64) (int64, error) {
	var n int64
	err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = FALSE`,
		recipientID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return n, nil
}

// MarkAsRead marks a single notification as read, scoped to its recipient
func (r *NotificationRepository) MarkAsRead(ctx context.Context, id, recipientID int64) error {
	query := `
		UPDATE notifications SET is_read = TRUE, read_at = NOW()
		WHERE id = $1 AND recipient_id = $2 AND is_read = FALSE
	`

	tag, err := r.db.Exec(ctx, query, id, recipientID)
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// MarkAllAsRead marks every unread notification of a recipient as read
func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, recipientID int64) (int64, error) {
	query := `
		UPDATE notifications SET is_read = TRUE, read_at = NOW()
		WHERE recipient_id = $1 AND is_read = FALSE
	`

	tag, err := r.db.Exec(ctx, query, recipientID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications as read: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Delete removes a notification, scoped to its recipient
func (r *NotificationRepository) Delete(ctx context.Context, id, recipientID int64) error {
	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM notifications WHERE id = $1 AND recipient_id = $2`,
		id, recipientID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}
