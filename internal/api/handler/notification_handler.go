package handler

import (
	"vida-social/internal/api/dto"
	"vida-social/internal/api/middleware"
	"vida-social/internal/api/response"
	"vida-social/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List GET /api/v1/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	userID, _ := middleware.GetCurrentUserID(c)
	skip, limit := parsePagination(c)

	data, err := h.notificationService.List(c.Request.Context(), userID, skip, limit)
	if err != nil {
		handleServiceError(c, err, "List notifications")
		return
	}

	response.OK(c, data)
}

// MarkRead POST /api/v1/notifications/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, _ := middleware.GetCurrentUserID(c)

	var req dto.MarkReadRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	unread, err := h.notificationService.MarkRead(c.Request.Context(), userID, req.IDs)
	if err != nil {
		handleServiceError(c, err, "Mark notifications read")
		return
	}

	response.OK(c, dto.UnreadCountResult{UnreadCount: unread})
}

// UnreadCount GET /api/v1/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, _ := middleware.GetCurrentUserID(c)

	unread, err := h.notificationService.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err, "Get unread count")
		return
	}

	response.OK(c, dto.UnreadCountResult{UnreadCount: unread})
}
