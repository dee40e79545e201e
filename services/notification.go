package services

import (
	"context"
	"database/sql"

	"github.com/oficinaplus/workshop-api/models"

	"github.com/google/uuid"
)

// NotificationService persists workshop notifications. It satisfies the
// NotificationStore contract consumed by the share flow.
type NotificationService struct {
	db *sql.DB
}

func NewNotificationService(db *sql.DB) *NotificationService {
	return &NotificationService{db: db}
}

func (s *NotificationService) Append(ctx context.Context, workshopID string, n models.Notification) error {
	var orderID interface{}
	if n.OrderID != "" {
		orderID = n.OrderID
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, workshop_id, kind, message, order_id)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.New().String(), workshopID, n.Kind, n.Message, orderID)
	return err
}

func (s *NotificationService) List(ctx context.Context, workshopID string, unreadOnly bool) ([]models.Notification, error) {
	query := `
		SELECT id, workshop_id, kind, message, COALESCE(order_id::text, ''), read, created_at
		FROM notifications
		WHERE workshop_id = $1
	`
	if unreadOnly {
		query += " AND read = FALSE"
	}
	query += " ORDER BY created_at DESC LIMIT 100"

	rows, err := s.db.QueryContext(ctx, query, workshopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.WorkshopID, &n.Kind, &n.Message, &n.OrderID, &n.Read, &n.CreatedAt); err != nil {
			continue
		}
		notifications = append(notifications, n)
	}

	return notifications, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, workshopID, notificationID string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE notifications SET read = TRUE WHERE id = $1 AND workshop_id = $2
	`, notificationID, workshopID)
	if err != nil {
		return false, err
	}
	rowsAffected, _ := result.RowsAffected()
	return rowsAffected > 0, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, workshopID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE notifications SET read = TRUE WHERE workshop_id = $1 AND read = FALSE
	`, workshopID)
	return err
}
