package dto

import "github.com/yigit/labmatch/internal/app/models"

// NotificationListResponse is a page of notifications with the unread total
type NotificationListResponse struct {
	Items       []*models.Notification `json:"items"`
	UnreadCount int                    `json:"unreadCount"`
}
