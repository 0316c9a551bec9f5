package services

import (
	"context"
	"time"

	"debatehub/internal/apperr"
	"debatehub/internal/models"
	"debatehub/internal/utils"

	"github.com/sirupsen/logrus"
)

const (
	DefaultNotificationQueueSize = 1000
	notificationBatchSize        = 50
	notificationFlushInterval    = 500 * time.Millisecond
	notificationListSize         = 20
)

// Dispatcher persists notifications in the background. Callers hand off with
// Notify and never wait for, or learn about, the outcome.
type Dispatcher struct {
	store NotificationStore
	queue chan models.Notification
	log   *logrus.Entry
}

func NewDispatcher(store NotificationStore, size int) *Dispatcher {
	if size <= 0 {
		size = DefaultNotificationQueueSize
	}
	return &Dispatcher{
		store: store,
		queue: make(chan models.Notification, size),
		log:   utils.Component("notifications"),
	}
}

// Notify queues n without blocking. A full queue drops the notification.
func (d *Dispatcher) Notify(n models.Notification) {
	select {
	case d.queue <- n:
	default:
		d.log.WithFields(logrus.Fields{
			"user_id": n.UserID,
			"type":    n.Type,
		}).Warn("notification queue full, dropping")
	}
}

// Start runs the worker until ctx is done, then flushes whatever is queued.
// Pending notifications are written in batches every flush interval or once
// a batch fills up.
func (d *Dispatcher) Start(ctx context.Context) {
	batch := make([]models.Notification, 0, notificationBatchSize)
	ticker := time.NewTicker(notificationFlushInterval)
	defer ticker.Stop()

	for {
		select {
		case n := <-d.queue:
			batch = append(batch, n)
			if len(batch) >= notificationBatchSize {
				d.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				d.flush(batch)
				batch = batch[:0]
			}
		case <-ctx.Done():
			for {
				select {
				case n := <-d.queue:
					batch = append(batch, n)
				default:
					d.flush(batch)
					return
				}
			}
		}
	}
}

func (d *Dispatcher) flush(batch []models.Notification) {
	// The request that triggered a notification is long gone by now.
	ctx := context.Background()
	for i := range batch {
		n := batch[i]
		if err := d.store.CreateNotification(ctx, &n); err != nil {
			d.log.WithFields(logrus.Fields{
				"user_id": n.UserID,
				"type":    n.Type,
			}).WithError(err).Error("failed to persist notification")
		}
	}
}

// NotificationList is a user's latest notifications plus the unread count.
type NotificationList struct {
	Items  []models.Notification `json:"items"`
	Unread int64                 `json:"unread"`
}

type NotificationService struct {
	store NotificationStore
}

func NewNotificationService(store NotificationStore) *NotificationService {
	return &NotificationService{store: store}
}

func (s *NotificationService) List(ctx context.Context, userID uint) (*NotificationList, error) {
	items, err := s.store.ListNotifications(ctx, userID, notificationListSize)
	if err != nil {
		return nil, err
	}
	unread, err := s.store.CountUnreadNotifications(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &NotificationList{Items: items, Unread: unread}, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.store.CountUnreadNotifications(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id uint) error {
	if err := s.ownedBy(ctx, userID, id); err != nil {
		return err
	}
	return s.store.MarkNotificationRead(ctx, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) error {
	return s.store.MarkAllNotificationsRead(ctx, userID)
}

func (s *NotificationService) Delete(ctx context.Context, userID, id uint) error {
	if err := s.ownedBy(ctx, userID, id); err != nil {
		return err
	}
	return s.store.DeleteNotification(ctx, id)
}

func (s *NotificationService) ownedBy(ctx context.Context, userID, id uint) error {
	n, err := s.store.GetNotification(ctx, id)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return apperr.Forbidden("notification belongs to another user")
	}
	return nil
}
