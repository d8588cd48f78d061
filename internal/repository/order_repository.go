package repository

import (
	"context"
	"time"

	"github.com/spec-kit/shipment-service/internal/domain"
	"github.com/spec-kit/shipment-service/internal/storage"
)

// OrderRepository encapsulates order persistence.
type OrderRepository interface {
	List(ctx context.Context) ([]domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	Create(ctx context.Context, order *domain.Order) error
	Update(ctx context.Context, order *domain.Order) error
	Delete(ctx context.Context, id int64) error
}

type fileOrderRepository struct {
	db *storage.FileDB
}

// NewFileOrderRepository returns a JSON-file-backed implementation.
func NewFileOrderRepository(db *storage.FileDB) OrderRepository {
	return &fileOrderRepository{db: db}
}

func (r *fileOrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	unlock := r.db.Lock(storage.CollectionOrders)
	defer unlock()
	return storage.Read[domain.Order](r.db, storage.CollectionOrders)
}

func (r *fileOrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	unlock := r.db.Lock(storage.CollectionOrders)
	defer unlock()

	items, err := storage.Read[domain.Order](r.db, storage.CollectionOrders)
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

func (r *fileOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	unlock := r.db.Lock(storage.CollectionOrders)
	defer unlock()

	items, err := storage.Read[domain.Order](r.db, storage.CollectionOrders)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	order.ID = storage.NextID(items, func(o domain.Order) int64 { return o.ID })
	order.CreatedAt = now
	order.UpdatedAt = now

	items = append(items, *order)
	return storage.Write(r.db, storage.CollectionOrders, items)
}

func (r *fileOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	unlock := r.db.Lock(storage.CollectionOrders)
	defer unlock()

	items, err := storage.Read[domain.Order](r.db, storage.CollectionOrders)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == order.ID {
			order.CreatedAt = items[i].CreatedAt
			order.UpdatedAt = time.Now().UTC()
			items[i] = *order
			return storage.Write(r.db, storage.CollectionOrders, items)
		}
	}
	return storage.ErrNotFound
}

func (r *fileOrderRepository) Delete(ctx context.Context, id int64) error {
	unlock := r.db.Lock(storage.CollectionOrders)
	defer unlock()

	items, err := storage.Read[domain.Order](r.db, storage.CollectionOrders)
	if err != nil {
		return err
	}
	filtered := make([]domain.Order, 0, len(items))
	for i := range items {
		if items[i].ID != id {
			filtered = append(filtered, items[i])
		}
	}
	if len(filtered) == len(items) {
		return storage.ErrNotFound
	}
	return storage.Write(r.db, storage.CollectionOrders, filtered)
}
