// internal/websocket/handler/notification.go
package handler

import (
	"context"

	wstypes "worklink-service/internal/domain/websocket"
	"worklink-service/internal/repository/postgres"
	ws "worklink-service/internal/websocket"

	"go.uber.org/zap"
)

// NotificationHandler lets a connected client acknowledge notifications
// over the socket without a separate REST round trip.
type NotificationHandler struct {
	notifications *postgres.NotificationRepository
	logger        *zap.Logger
}

func NewNotificationHandler(notifications *postgres.NotificationRepository, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		logger:        logger,
	}
}

func (h *NotificationHandler) SupportedEvents() []wstypes.EventType {
	return []wstypes.EventType{
		wstypes.EventTypeNotificationRead,
		wstypes.EventTypeNotificationReadAll,
	}
}

func (h *NotificationHandler) HandleMessage(ctx context.Context, client *ws.Client, msg *wstypes.WSMessage) error {
	switch msg.Type {
	case wstypes.EventTypeNotificationRead:
		return h.handleMarkAsRead(ctx, client, msg)
	case wstypes.EventTypeNotificationReadAll:
		return h.handleMarkAllAsRead(ctx, client)
	default:
		return ws.ErrUnsupportedEvent
	}
}

func (h *NotificationHandler) handleMarkAsRead(ctx context.Context, client *ws.Client, msg *wstypes.WSMessage) error {
	var req struct {
		NotificationID int64 `json:"notification_id"`
	}
	if err := ws.DecodeData(msg.Data, &req); err != nil {
		client.SendError("invalid_request", "invalid mark-as-read request", err.Error())
		return err
	}

	if err := h.notifications.MarkAsRead(ctx, req.NotificationID, client.AccountID()); err != nil {
		client.SendError("mark_read_failed", "failed to mark notification as read", err.Error())
		return err
	}

	h.pushUnreadCount(ctx, client)
	return nil
}

func (h *NotificationHandler) handleMarkAllAsRead(ctx context.Context, client *ws.Client) error {
	if _, err := h.notifications.MarkAllAsRead(ctx, client.AccountID()); err != nil {
		client.SendError("mark_read_failed", "failed to mark notifications as read", err.Error())
		return err
	}

	h.pushUnreadCount(ctx, client)
	return nil
}

func (h *NotificationHandler) pushUnreadCount(ctx context.Context, client *ws.Client) {
	count, err := h.notifications.UnreadCount(ctx, client.AccountID())
	if err != nil {
		h.logger.Warn("failed to load unread count",
			zap.Int64("account_id", client.AccountID()),
			zap.Error(err),
		)
		return
	}
	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeNotificationCount, wstypes.NotificationCountData{
		UnreadCount: count,
	}))
}
