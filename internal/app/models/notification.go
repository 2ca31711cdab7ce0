package models

import "time"

// Notification is a lifecycle event addressed to a single user
type Notification struct {
	ID              string           `json:"id" db:"id"`
	RecipientUserID string           `json:"recipientUserId" db:"recipient_user_id"`
	Message         string           `json:"message" db:"message"`
	Type            NotificationType `json:"type" db:"type"`
	CreatedAt       time.Time        `json:"createdAt" db:"created_at"`
	IsRead          bool             `json:"isRead" db:"is_read"`
}
