package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/labmatch/internal/app/models"
	"github.com/yigit/labmatch/internal/app/repositories"
	"github.com/yigit/labmatch/internal/pkg/apperrors"
	"github.com/yigit/labmatch/internal/pkg/metrics"
	"github.com/yigit/labmatch/internal/pkg/notify"
)

// DefaultNotificationTimeout bounds one emission when none is configured
const DefaultNotificationTimeout = 3 * time.Second

const defaultNotificationPageSize = 50

// Notifier emits a notification after a committed lifecycle change. It never
// reports failure to the caller.
type Notifier interface {
	Emit(ctx context.Context, recipientUserID string, typ models.NotificationType, message string)
}

// NotificationService persists notifications and fans them out to sinks
type NotificationService struct {
	store   repositories.NotificationStore
	sinks   []notify.Sink
	metrics *metrics.Metrics
	timeout time.Duration
	logger  zerolog.Logger
	now     func() time.Time
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(
	store repositories.NotificationStore,
	sinks []notify.Sink,
	m *metrics.Metrics,
	timeout time.Duration,
	logger zerolog.Logger,
) *NotificationService {
	if timeout <= 0 {
		timeout = DefaultNotificationTimeout
	}
	return &NotificationService{
		store:   store,
		sinks:   sinks,
		metrics: m,
		timeout: timeout,
		logger:  logger,
		now:     time.Now,
	}
}

// Emit persists the notification and delivers it to every sink. It runs on a
// context detached from the caller's cancellation; failures are logged and
// counted only.
func (s *NotificationService) Emit(ctx context.Context, recipientUserID string, typ models.NotificationType, message string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	log := s.logger.With().
		Str("recipientUserID", recipientUserID).
		Str("type", string(typ)).
		Logger()

	if recipientUserID == "" || !typ.Valid() {
		log.Warn().Msg("Dropping malformed notification")
		s.metrics.NotificationDelivered("store", apperrors.ErrValidationFailed)
		return
	}

	n := &models.Notification{
		RecipientUserID: recipientUserID,
		Message:         message,
		Type:            typ,
		CreatedAt:       s.now().UTC(),
	}

	err := s.store.CreateNotification(ctx, n)
	s.metrics.NotificationDelivered("store", err)
	if err != nil {
		log.Error().Err(err).Msg("Failed to persist notification")
		return
	}

	for _, sink := range s.sinks {
		err := sink.Deliver(ctx, n)
		s.metrics.NotificationDelivered(sink.Name(), err)
		if err != nil {
			log.Warn().Err(err).Str("sink", sink.Name()).Str("notificationID", n.ID).Msg("Notification delivery failed")
		}
	}
}

// List returns the user's notifications with the unread total
func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*models.Notification, int, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, 0, apperrors.NewValidationError("user id is required")
	}
	if limit <= 0 || limit > 200 {
		limit = defaultNotificationPageSize
	}

	items, err := s.store.ListNotifications(ctx, userID, unreadOnly, limit)
	if err != nil {
		return nil, 0, err
	}
	unread, err := s.store.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return items, unread, nil
}

// MarkRead marks one of the user's notifications as read. Repeating it is harmless.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	if strings.TrimSpace(notificationID) == "" {
		return apperrors.NewValidationError("notification id is required")
	}
	return s.store.MarkNotificationRead(ctx, userID, notificationID)
}

// UnreadCount returns the number of unread notifications of the user
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.store.CountUnread(ctx, userID)
}
