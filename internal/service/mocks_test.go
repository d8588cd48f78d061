package service

import (
	"context"
	"fmt"

	"github.com/spec-kit/shipment-service/internal/domain"
	"github.com/spec-kit/shipment-service/internal/events"
	"github.com/spec-kit/shipment-service/internal/storage"
)

type mockShipmentRepo struct {
	listFn   func(ctx context.Context) ([]domain.Shipment, error)
	getFn    func(ctx context.Context, id int64) (*domain.Shipment, error)
	createFn func(ctx context.Context, shipment *domain.Shipment) error
	updateFn func(ctx context.Context, shipment *domain.Shipment) error
	deleteFn func(ctx context.Context, id int64) error
}

func (m *mockShipmentRepo) List(ctx context.Context) ([]domain.Shipment, error) {
	if m.listFn == nil {
		return nil, nil
	}
	return m.listFn(ctx)
}

func (m *mockShipmentRepo) GetByID(ctx context.Context, id int64) (*domain.Shipment, error) {
	if m.getFn == nil {
		return nil, storage.ErrNotFound
	}
	return m.getFn(ctx, id)
}

func (m *mockShipmentRepo) Create(ctx context.Context, shipment *domain.Shipment) error {
	if m.createFn == nil {
		shipment.ID = 1
		return nil
	}
	return m.createFn(ctx, shipment)
}

func (m *mockShipmentRepo) Update(ctx context.Context, shipment *domain.Shipment) error {
	if m.updateFn == nil {
		return nil
	}
	return m.updateFn(ctx, shipment)
}

func (m *mockShipmentRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFn == nil {
		return nil
	}
	return m.deleteFn(ctx, id)
}

type mockOrderRepo struct {
	listFn   func(ctx context.Context) ([]domain.Order, error)
	getFn    func(ctx context.Context, id int64) (*domain.Order, error)
	createFn func(ctx context.Context, order *domain.Order) error
	updateFn func(ctx context.Context, order *domain.Order) error
	deleteFn func(ctx context.Context, id int64) error
}

func (m *mockOrderRepo) List(ctx context.Context) ([]domain.Order, error) {
	if m.listFn == nil {
		return nil, nil
	}
	return m.listFn(ctx)
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if m.getFn == nil {
		return nil, storage.ErrNotFound
	}
	return m.getFn(ctx, id)
}

func (m *mockOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	if m.createFn == nil {
		order.ID = 1
		return nil
	}
	return m.createFn(ctx, order)
}

func (m *mockOrderRepo) Update(ctx context.Context, order *domain.Order) error {
	if m.updateFn == nil {
		return nil
	}
	return m.updateFn(ctx, order)
}

func (m *mockOrderRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFn == nil {
		return nil
	}
	return m.deleteFn(ctx, id)
}

// fakeNotificationRepo is an in-memory store, enough to observe what the
// notification handlers persist.
type fakeNotificationRepo struct {
	items      []domain.Notification
	failCreate bool
}

func (f *fakeNotificationRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Notification, error) {
	result := make([]domain.Notification, 0, len(f.items))
	for _, item := range f.items {
		if item.UserID == userID {
			result = append(result, item)
		}
	}
	return result, nil
}

func (f *fakeNotificationRepo) GetByID(ctx context.Context, id int64) (*domain.Notification, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			item := f.items[i]
			return &item, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeNotificationRepo) Create(ctx context.Context, notification *domain.Notification) error {
	if f.failCreate {
		return fmt.Errorf("notification store unavailable")
	}
	notification.ID = int64(len(f.items) + 1)
	f.items = append(f.items, *notification)
	return nil
}

func (f *fakeNotificationRepo) Update(ctx context.Context, notification *domain.Notification) error {
	for i := range f.items {
		if f.items[i].ID == notification.ID {
			f.items[i] = *notification
			return nil
		}
	}
	return storage.ErrNotFound
}

// recordingDispatcher captures published events without invoking handlers.
type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {}

func principalOf(id int64, role domain.Role) *domain.Principal {
	return &domain.Principal{ID: id, Username: fmt.Sprintf("user%d", id), Role: role}
}

func ptr[T any](v T) *T {
	return &v
}
