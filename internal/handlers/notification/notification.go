// internal/handlers/notification/notification.go
package notification

import (
	"net/http"
	"strconv"

	"worklink-service/internal/domain/notification"
	"worklink-service/internal/middleware"
	"worklink-service/internal/pkg/response"
	service "worklink-service/internal/service/notification"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) List(c *gin.Context) {
	p := middleware.MustGetPrincipal(c)

	var filters notification.ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid list filters", err)
		return
	}

	result, err := h.notificationService.List(c.Request.Context(), p, &filters)
	if err != nil {
		response.FromError(c, "failed to list notifications", err)
		return
	}

	response.Success(c, http.StatusOK, "notifications retrieved", result)
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	p := middleware.MustGetPrincipal(c)

	count, err := h.notificationService.UnreadCount(c.Request.Context(), p)
	if err != nil {
		response.FromError(c, "failed to count unread notifications", err)
		return
	}

	response.Success(c, http.StatusOK, "unread count retrieved", gin.H{
		"unread_count": count,
	})
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	p := middleware.MustGetPrincipal(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid notification ID", err)
		return
	}

	if err := h.notificationService.MarkAsRead(c.Request.Context(), p, id); err != nil {
		response.FromError(c, "failed to mark notification as read", err)
		return
	}

	response.Success(c, http.StatusOK, "notification marked as read", nil)
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	p := middleware.MustGetPrincipal(c)

	updated, err := h.notificationService.MarkAllAsRead(c.Request.Context(), p)
	if err != nil {
		response.FromError(c, "failed to mark notifications as read", err)
		return
	}

	response.Success(c, http.StatusOK, "notifications marked as read", gin.H{
		"updated": updated,
	})
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	p := middleware.MustGetPrincipal(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid notification ID", err)
		return
	}

	if err := h.notificationService.Delete(c.Request.Context(), p, id); err != nil {
		response.FromError(c, "failed to delete notification", err)
		return
	}

	response.Success(c, http.StatusOK, "notification deleted", nil)
}
