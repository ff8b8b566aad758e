// internal/service/notification/notification_service.go
package notification

import (
	"context"
	"database/sql"
	"fmt"

	"worklink-service/internal/domain/account"
	"worklink-service/internal/domain/notification"
	xerrors "worklink-service/internal/pkg/errors"
	"worklink-service/internal/pkg/metrics"
	"worklink-service/internal/repository/postgres"
	ws "worklink-service/internal/websocket"

	"go.uber.org/zap"
)

// NotificationService owns the notification inbox and delivers workflow
// events. It satisfies the work-request service's Notifier interface.
type NotificationService struct {
	notifications *postgres.NotificationRepository
	accounts      *postgres.AccountRepository
	hub           *ws.Hub
	logger        *zap.Logger
}

func NewNotificationService(notifications *postgres.NotificationRepository, accounts *postgres.AccountRepository, hub *ws.Hub, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		accounts:      accounts,
		hub:           hub,
		logger:        logger,
	}
}

// NotifyClient fans a workflow event out to every active client-side account
// of the given client company. Delivery is best effort; failures are logged
// and counted but never surfaced to the caller.
func (s *NotificationService) NotifyClient(ctx context.Context, clientID, workRequestID int64, typ notification.Type, message string) {
	recipients, err := s.accounts.ListByClientRole(ctx, clientID)
	if err != nil {
		s.logger.Warn("failed to resolve notification recipients",
			zap.Int64("client_id", clientID),
			zap.Int64("work_request_id", workRequestID),
			zap.Error(err),
		)
		metrics.NotificationFailures.Inc()
		return
	}

	for i := range recipients {
		s.deliver(ctx, account.RoleClient, recipients[i].ID, workRequestID, typ, message)
	}
}

// NotifyEmployee targets the single employee account that owns a request.
func (s *NotificationService) NotifyEmployee(ctx context.Context, employeeID, workRequestID int64, typ notification.Type, message string) {
	s.deliver(ctx, account.RoleEmployee, employeeID, workRequestID, typ, message)
}

func (s *NotificationService) deliver(ctx context.Context, role account.Role, recipientID, workRequestID int64, typ notification.Type, message string) {
	n := &notification.Notification{
		RecipientRole: role,
		RecipientID:   recipientID,
		WorkRequestID: nullInt64(workRequestID),
		Type:          typ,
		Message:       message,
	}

	if err := s.notifications.Create(ctx, n); err != nil {
		s.logger.Warn("failed to persist notification",
			zap.Int64("recipient_id", recipientID),
			zap.String("type", string(typ)),
			zap.Error(err),
		)
		metrics.NotificationFailures.Inc()
		return
	}

	s.hub.BroadcastNotification(recipientID, n)
	if count, err := s.notifications.UnreadCount(ctx, recipientID); err == nil {
		s.hub.BroadcastNotificationCount(recipientID, count)
	}
}

// List returns the principal's notifications, newest first, with the unread
// total alongside for the badge counter.
func (s *NotificationService) List(ctx context.Context, p account.Principal, filters *notification.ListFilters) (*notification.ListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 || filters.PageSize > 100 {
		filters.PageSize = 20
	}

	items, total, err := s.notifications.ListByRecipient(ctx, p.AccountID, filters)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	unread, err := s.notifications.UnreadCount(ctx, p.AccountID)
	if err != nil {
		return nil, fmt.Errorf("count unread notifications: %w", err)
	}

	return &notification.ListResponse{
		Notifications: items,
		Total:         total,
		UnreadCount:   unread,
		Page:          filters.Page,
		PageSize:      filters.PageSize,
	}, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, p account.Principal) (int64, error) {
	return s.notifications.UnreadCount(ctx, p.AccountID)
}

// MarkAsRead marks one of the principal's notifications as read. Marking a
// notification that is already read, missing, or someone else's reports
// not found.
func (s *NotificationService) MarkAsRead(ctx context.Context, p account.Principal, id int64) error {
	if err := s.notifications.MarkAsRead(ctx, id, p.AccountID); err != nil {
		return err
	}

	if count, err := s.notifications.UnreadCount(ctx, p.AccountID); err == nil {
		s.hub.BroadcastNotificationCount(p.AccountID, count)
	}
	return nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, p account.Principal) (int64, error) {
	updated, err := s.notifications.MarkAllAsRead(ctx, p.AccountID)
	if err != nil {
		return 0, err
	}

	s.hub.BroadcastNotificationCount(p.AccountID, 0)
	return updated, nil
}

func (s *NotificationService) Delete(ctx context.Context, p account.Principal, id int64) error {
	if err := s.notifications.Delete(ctx, id, p.AccountID); err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete notification: %w", err)
	}
	return nil
}

func nullInt64(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: true}
}
