package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ayoubkr/maalem-market/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Notification Handlers ---
//

// AddNotification is an internal helper other handlers call after their own
// writes have committed. The recipient is the tagged (kind, id) pair.
func (h *Handlers) AddNotification(kind models.RecipientKind, recipientID int64, message string) error {
	if !kind.Valid() {
		return fmt.Errorf("invalid recipient kind %q", kind)
	}

	_, err := h.DB.Exec(`
		INSERT INTO notifications (message, is_read, created_at, recipient_type, recipient_id)
		VALUES (?, 0, ?, ?, ?)`,
		message, time.Now(), string(kind), recipientID)
	if err != nil {
		return fmt.Errorf("failed to add notification: %w", err)
	}
	return nil
}

// recipientExists resolves the typed recipient against its own table.
func (h *Handlers) recipientExists(kind models.RecipientKind, recipientID int64) (bool, error) {
	var query string
	switch kind {
	case models.RecipientClient:
		query = "SELECT 1 FROM client_profiles WHERE client_id = ?"
	case models.RecipientMaalem:
		query = "SELECT 1 FROM maalem_profiles WHERE id_maalem = ?"
	default:
		return false, fmt.Errorf("invalid recipient kind %q", kind)
	}

	var exists int
	err := h.DB.QueryRow(query, recipientID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

const notificationColumns = `
	notification_id, message, is_read, created_at, recipient_type, recipient_id`

func scanNotification(row interface{ Scan(...interface{}) error }, n *models.Notification) error {
	return row.Scan(&n.ID, &n.Message, &n.IsRead, &n.CreatedAt, &n.RecipientType, &n.RecipientID)
}

// GetNotifications is the handler for GET /v1/notify/notifications
func (h *Handlers) GetNotifications(c *gin.Context) {
	rows, err := h.DB.Query(
		"SELECT " + notificationColumns + " FROM notifications ORDER BY created_at DESC")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := scanNotification(rows, &n); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan notification row"})
			return
		}
		notifications = append(notifications, n)
	}
	c.JSON(http.StatusOK, notifications)
}

// CreateNotificationInput defines the JSON body for creating a notification.
// recipient_type must be one of the closed kinds ("client" or "maalem").
type CreateNotificationInput struct {
	RecipientType string `json:"recipient_type" binding:"required"`
	RecipientID   int64  `json:"recipient_id" binding:"required"`
	Message       string `json:"message" binding:"required"`
	IsRead        bool   `json:"is_read"`
}

// CreateNotification is the handler for POST /v1/notify/notifications
func (h *Handlers) CreateNotification(c *gin.Context) {
	var input CreateNotificationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	kind, err := models.ParseRecipientKind(input.RecipientType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipient_type"})
		return
	}

	exists, err := h.recipientExists(kind, input.RecipientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check recipient"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipient not found"})
		return
	}

	now := time.Now()
	result, err := h.DB.Exec(`
		INSERT INTO notifications (message, is_read, created_at, recipient_type, recipient_id)
		VALUES (?, ?, ?, ?, ?)`,
		input.Message, input.IsRead, now, string(kind), input.RecipientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notification"})
		return
	}

	id, _ := result.LastInsertId()
	c.JSON(http.StatusCreated, models.Notification{
		ID:            id,
		Message:       input.Message,
		IsRead:        input.IsRead,
		CreatedAt:     now,
		RecipientType: kind,
		RecipientID:   input.RecipientID,
	})
}

// GetNotificationByID is the handler for GET /v1/notify/notifications/:id
func (h *Handlers) GetNotificationByID(c *gin.Context) {
	var n models.Notification
	err := scanNotification(h.DB.QueryRow(
		"SELECT "+notificationColumns+" FROM notifications WHERE notification_id = ?",
		c.Param("id")), &n)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notification"})
		return
	}
	c.JSON(http.StatusOK, n)
}

// MarkNotificationAsRead is the handler for PATCH /v1/notify/notifications/:id/read
func (h *Handlers) MarkNotificationAsRead(c *gin.Context) {
	result, err := h.DB.Exec(
		"UPDATE notifications SET is_read = 1 WHERE notification_id = ?", c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		var exists int
		if scanErr := h.DB.QueryRow(
			"SELECT 1 FROM notifications WHERE notification_id = ?", c.Param("id")).Scan(&exists); scanErr != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// DeleteNotification is the handler for DELETE /v1/notify/notifications/:id
func (h *Handlers) DeleteNotification(c *gin.Context) {
	result, err := h.DB.Exec(
		"DELETE FROM notifications WHERE notification_id = ?", c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete notification"})
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

// listNotificationsFor serves the per-recipient notification feeds.
func (h *Handlers) listNotificationsFor(c *gin.Context, kind models.RecipientKind, idParam string) {
	rows, err := h.DB.Query(
		"SELECT "+notificationColumns+" FROM notifications WHERE recipient_type = ? AND recipient_id = ? ORDER BY created_at DESC",
		string(kind), c.Param(idParam))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := scanNotification(rows, &n); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan notification row"})
			return
		}
		notifications = append(notifications, n)
	}
	c.JSON(http.StatusOK, notifications)
}

// GetClientNotifications is the handler for GET /v1/notify/client-notifications/:client_id
func (h *Handlers) GetClientNotifications(c *gin.Context) {
	h.listNotificationsFor(c, models.RecipientClient, "client_id")
}

// GetMaalemNotifications is the handler for GET /v1/notify/maalem-notifications/:maalem_id
func (h *Handlers) GetMaalemNotifications(c *gin.Context) {
	h.listNotificationsFor(c, models.RecipientMaalem, "maalem_id")
}

func (h *Handlers) unreadCountFor(c *gin.Context, kind models.RecipientKind, idParam string) {
	var count int
	err := h.DB.QueryRow(
		"SELECT COUNT(*) FROM notifications WHERE recipient_type = ? AND recipient_id = ? AND is_read = 0",
		string(kind), c.Param(idParam)).Scan(&count)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

// GetClientUnreadCount is the handler for GET /v1/notify/unread-notifications/client/:client_id
func (h *Handlers) GetClientUnreadCount(c *gin.Context) {
	h.unreadCountFor(c, models.RecipientClient, "client_id")
}

// GetMaalemUnreadCount is the handler for GET /v1/notify/unread-notifications/maalem/:maalem_id
func (h *Handlers) GetMaalemUnreadCount(c *gin.Context) {
	h.unreadCountFor(c, models.RecipientMaalem, "maalem_id")
}
