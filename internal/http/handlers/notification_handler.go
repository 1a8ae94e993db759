package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/cityreport-backend/internal/dto"
	"github.com/ignatzorin/cityreport-backend/internal/http/response"
)

// NotificationHandler обслуживает маршруты уведомлений.
type NotificationHandler struct {
	notifications NotificationUseCase
}

// NewNotificationHandler создаёт новый хэндлер.
func NewNotificationHandler(notifications NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// ListNotifications обрабатывает GET /notifications.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	username, ok := currentUsername(c)
	if !ok {
		return
	}

	items, err := h.notifications.ListForUser(c.Request.Context(), username)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.NewNotificationResponses(items))
}

// CountUnread обрабатывает GET /notifications/unread/count.
func (h *NotificationHandler) CountUnread(c *gin.Context) {
	username, ok := currentUsername(c)
	if !ok {
		return
	}

	count, err := h.notifications.CountUnread(c.Request.Context(), username)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.UnreadCountResponse{Count: count})
}

// MarkAsRead обрабатывает PUT /notifications/:id/read.
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	username, ok := currentUsername(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	n, err := h.notifications.MarkRead(c.Request.Context(), id, username)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.NewNotificationResponse(n))
}

// MarkAllAsRead обрабатывает PUT /notifications/read-all.
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	username, ok := currentUsername(c)
	if !ok {
		return
	}

	if err := h.notifications.MarkAllRead(c.Request.Context(), username); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// DeleteNotification обрабатывает DELETE /notifications/:id.
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	username, ok := currentUsername(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.notifications.Delete(c.Request.Context(), id, username); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}
