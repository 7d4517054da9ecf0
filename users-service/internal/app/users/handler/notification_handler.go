package handler

import (
	"net/http"
	"strconv"

	"umsshop/users-service/internal/app/users/entity"
	"umsshop/users-service/internal/app/users/service"

	"github.com/gin-gonic/gin"
)

// NotificationHandler список noti текущего покупателя
type NotificationHandler struct {
	notifications service.NotificationServiceInterface
}

func NewNotificationHandler(notifications service.NotificationServiceInterface) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List обрабатывает GET /me/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	resp, err := h.notifications.ListNotifications(c.Request.Context(), c.GetInt64("user_seq"))
	if err != nil {
		respondServiceError(c, err, "Failed to list notifications")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MarkRead обрабатывает PUT /me/notifications/:index
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		respondError(c, http.StatusBadRequest, "Invalid notification index", nil)
		return
	}

	if err := h.notifications.MarkRead(c.Request.Context(), c.GetInt64("user_seq"), index); err != nil {
		respondServiceError(c, err, "Failed to mark notification read")
		return
	}
	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Notification marked as read"})
}

// MarkAllRead обрабатывает PUT /me/notifications (все разом)
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.notifications.MarkAllRead(c.Request.Context(), c.GetInt64("user_seq")); err != nil {
		respondServiceError(c, err, "Failed to mark notifications read")
		return
	}
	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "All notifications marked as read"})
}
