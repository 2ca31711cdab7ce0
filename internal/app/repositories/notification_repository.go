package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/yigit/labmatch/internal/app/models"
	"github.com/yigit/labmatch/internal/db"
	"github.com/yigit/labmatch/internal/pkg/apperrors"
)

// NotificationRepository handles persisted notifications
type NotificationRepository struct {
	pgRepository
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(pg *db.PostgresDB) *NotificationRepository {
	return &NotificationRepository{pgRepository: newPGRepository(pg)}
}

// CreateNotification persists n, assigning an ID if it has none
func (r *NotificationRepository) CreateNotification(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}

	ctx, cancel := r.pg.WithTimeout(ctx)
	defer cancel()

	sql, args, err := toSQL(r.sb.Insert("notifications").
		Columns("id", "recipient_user_id", "message", "type", "created_at", "is_read").
		Values(n.ID, n.RecipientUserID, n.Message, n.Type, n.CreatedAt, n.IsRead), "create notification")
	if err != nil {
		return err
	}

	if _, err := r.pg.Pool.Exec(ctx, sql, args...); err != nil {
		return buildOrStoreError(err, "create notification")
	}
	return nil
}

// ListNotifications returns the user's notifications, newest first
func (r *NotificationRepository) ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*models.Notification, error) {
	if !validID(userID) {
		return []*models.Notification{}, nil
	}

	q := r.sb.Select("id", "recipient_user_id", "message", "type", "created_at", "is_read").
		From("notifications").
		Where(squirrel.Eq{"recipient_user_id": userID}).
		OrderBy("created_at DESC", "id ASC")
	if unreadOnly {
		q = q.Where(squirrel.Eq{"is_read": false})
	}
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	ctx, cancel := r.pg.WithTimeout(ctx)
	defer cancel()

	sql, args, err := toSQL(q, "list notifications")
	if err != nil {
		return nil, err
	}

	rows, err := r.pg.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, buildOrStoreError(err, "list notifications")
	}
	defer rows.Close()

	out := make([]*models.Notification, 0)
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.RecipientUserID, &n.Message, &n.Type, &n.CreatedAt, &n.IsRead); err != nil {
			return nil, buildOrStoreError(err, "scan notification")
		}
		out = append(out, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, buildOrStoreError(err, "list notifications")
	}
	return out, nil
}

// MarkNotificationRead sets is_read on a notification owned by userID
func (r *NotificationRepository) MarkNotificationRead(ctx context.Context, userID, id string) error {
	if !validID(userID) || !validID(id) {
		return apperrors.NewResourceNotFoundError("notification not found")
	}

	ctx, cancel := r.pg.WithTimeout(ctx)
	defer cancel()

	sql, args, err := toSQL(r.sb.Update("notifications").
		Set("is_read", true).
		Where(squirrel.Eq{"id": id, "recipient_user_id": userID}), "mark notification read")
	if err != nil {
		return err
	}

	tag, err := r.pg.Pool.Exec(ctx, sql, args...)
	if err != nil {
		return buildOrStoreError(err, "mark notification read")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("notification not found")
	}
	return nil
}

// CountUnread counts the user's unread notifications
func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	if !validID(userID) {
		return 0, nil
	}

	ctx, cancel := r.pg.WithTimeout(ctx)
	defer cancel()

	sql, args, err := toSQL(r.sb.Select("COUNT(*)").From("notifications").
		Where(squirrel.Eq{"recipient_user_id": userID, "is_read": false}), "count unread")
	if err != nil {
		return 0, err
	}

	var count int
	if err := r.pg.Pool.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, buildOrStoreError(err, "count unread")
	}
	return count, nil
}
