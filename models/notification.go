package models

import "time"

const (
	NotificationKindDecision   = "decision"
	NotificationKindInvitation = "invitation"
	NotificationKindOrder      = "order"
)

type Notification struct {
	ID         string    `json:"id"`
	WorkshopID string    `json:"workshop_id"`
	Kind       string    `json:"kind"`
	Message    string    `json:"message"`
	OrderID    string    `json:"order_id,omitempty"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}

type ActivityLog struct {
	ID         string    `json:"id"`
	WorkshopID string    `json:"workshop_id"`
	UserID     string    `json:"user_id,omitempty"`
	Action     string    `json:"action"`
	OrderID    string    `json:"order_id,omitempty"`
	Details    string    `json:"details,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// LogFilter carries the activity screen query params.
type LogFilter struct {
	Action  string `form:"action"`
	OrderID string `form:"order_id"`
	Sort    string `form:"sort"`
}
