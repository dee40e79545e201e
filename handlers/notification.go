package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oficinaplus/workshop-api/middleware"
	"github.com/oficinaplus/workshop-api/services"
)

type NotificationHandler struct {
	DB            *sql.DB
	Notifications *services.NotificationService
}

func NewNotificationHandler(db *sql.DB, notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{DB: db, Notifications: notifications}
}

func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID := middleware.GetUserID(c)
	workshopID := c.Param("id")

	if !isMember(h.DB, workshopID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	unreadOnly := c.Query("unread") == "true"

	notifications, err := h.Notifications.List(c.Request.Context(), workshopID, unreadOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	workshopID := c.Param("id")
	notificationID := c.Param("notification_id")

	if !isMember(h.DB, workshopID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	updated, err := h.Notifications.MarkRead(c.Request.Context(), workshopID, notificationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notification"})
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	workshopID := c.Param("id")

	if !isMember(h.DB, workshopID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	if err := h.Notifications.MarkAllRead(c.Request.Context(), workshopID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}
