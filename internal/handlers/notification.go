package handlers

import (
	"net/http"
	"strconv"

	"codeask/internal/middleware"
	"codeask/internal/services"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifier *services.Notifier
}

func NewNotificationHandler(notifier *services.Notifier) *NotificationHandler {
	return &NotificationHandler{notifier: notifier}
}

func (h *NotificationHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	notifications, err := h.notifier.List(user.ID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, notifications, int64(len(notifications)), 1, limit)
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	user := middleware.CurrentUser(c)
	count, err := h.notifier.UnreadCount(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"count": count})
}

func (h *NotificationHandler) Read(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.notifier.MarkRead(id, middleware.CurrentUser(c).ID); err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"message": "notification read"})
}

func (h *NotificationHandler) ReadAll(c *gin.Context) {
	if err := h.notifier.MarkAllRead(middleware.CurrentUser(c).ID); err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"message": "all notifications read"})
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.notifier.Delete(id, middleware.CurrentUser(c).ID); err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"message": "notification deleted"})
}
