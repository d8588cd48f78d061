package repository

import (
	"context"
	"time"

	"github.com/spec-kit/shipment-service/internal/domain"
	"github.com/spec-kit/shipment-service/internal/storage"
)

// NotificationRepository stores per-user notifications.
type NotificationRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]domain.Notification, error)
	GetByID(ctx context.Context, id int64) (*domain.Notification, error)
	Create(ctx context.Context, notification *domain.Notification) error
	Update(ctx context.Context, notification *domain.Notification) error
}

type fileNotificationRepository struct {
	db *storage.FileDB
}

// NewFileNotificationRepository returns a JSON-file-backed implementation.
func NewFileNotificationRepository(db *storage.FileDB) NotificationRepository {
	return &fileNotificationRepository{db: db}
}

func (r *fileNotificationRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Notification, error) {
	unlock := r.db.Lock(storage.CollectionNotifications)
	defer unlock()

	items, err := storage.Read[domain.Notification](r.db, storage.CollectionNotifications)
	if err != nil {
		return nil, err
	}
	result := make([]domain.Notification, 0, len(items))
	for i := range items {
		if items[i].UserID == userID {
			result = append(result, items[i])
		}
	}
	return result, nil
}

func (r *fileNotificationRepository) GetByID(ctx context.Context, id int64) (*domain.Notification, error) {
	unlock := r.db.Lock(storage.CollectionNotifications)
	defer unlock()

	items, err := storage.Read[domain.Notification](r.db, storage.CollectionNotifications)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, storage.ErrNotFound
}

func (r *fileNotificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	unlock := r.db.Lock(storage.CollectionNotifications)
	defer unlock()

	items, err := storage.Read[domain.Notification](r.db, storage.CollectionNotifications)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	notification.ID = storage.NextID(items, func(n domain.Notification) int64 { return n.ID })
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = now
	}
	notification.UpdatedAt = now

	items = append(items, *notification)
	return storage.Write(r.db, storage.CollectionNotifications, items)
}

func (r *fileNotificationRepository) Update(ctx context.Context, notification *domain.Notification) error {
	unlock := r.db.Lock(storage.CollectionNotifications)
	defer unlock()

	items, err := storage.Read[domain.Notification](r.db, storage.CollectionNotifications)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == notification.ID {
			notification.CreatedAt = items[i].CreatedAt
			notification.UpdatedAt = time.Now().UTC()
			items[i] = *notification
			return storage.Write(r.db, storage.CollectionNotifications, items)
		}
	}
	return storage.ErrNotFound
}
