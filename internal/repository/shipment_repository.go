package repository

import (
	"context"
	"time"

	"github.com/spec-kit/shipment-service/internal/domain"
	"github.com/spec-kit/shipment-service/internal/storage"
)

// ShipmentRepository encapsulates shipment persistence. Implementations return
// storage.ErrNotFound when an id does not resolve.
type ShipmentRepository interface {
	List(ctx context.Context) ([]domain.Shipment, error)
	GetByID(ctx context.Context, id int64) (*domain.Shipment, error)
	Create(ctx context.Context, shipment *domain.Shipment) error
	Update(ctx context.Context, shipment *domain.Shipment) error
	Delete(ctx context.Context, id int64) error
}

type fileShipmentRepository struct {
	db *storage.FileDB
}

// NewFileShipmentRepository returns a JSON-file-backed implementation.
func NewFileShipmentRepository(db *storage.FileDB) ShipmentRepository {
	return &fileShipmentRepository{db: db}
}

func (r *fileShipmentRepository) List(ctx context.Context) ([]domain.Shipment, error) {
	unlock := r.db.Lock(storage.CollectionShipments)
	defer unlock()
	return storage.Read[domain.Shipment](r.db, storage.CollectionShipments)
}

func (r *fileShipmentRepository) GetByID(ctx context.Context, id int64) (*domain.Shipment, error) {
	unlock := r.db.Lock(storage.CollectionShipments)
	defer unlock()

	items, err := storage.Read[domain.Shipment](r.db, storage.CollectionShipments)
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

func (r *fileShipmentRepository) Create(ctx context.Context, shipment *domain.Shipment) error {
	unlock := r.db.Lock(storage.CollectionShipments)
	defer unlock()

	items, err := storage.Read[domain.Shipment](r.db, storage.CollectionShipments)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	shipment.ID = storage.NextID(items, func(s domain.Shipment) int64 { return s.ID })
	shipment.CreatedAt = now
	shipment.UpdatedAt = now

	items = append(items, *shipment)
	return storage.Write(r.db, storage.CollectionShipments, items)
}

func (r *fileShipmentRepository) Update(ctx context.Context, shipment *domain.Shipment) error {
	unlock := r.db.Lock(storage.CollectionShipments)
	defer unlock()

	items, err := storage.Read[domain.Shipment](r.db, storage.CollectionShipments)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == shipment.ID {
			shipment.CreatedAt = items[i].CreatedAt
			shipment.UpdatedAt = time.Now().UTC()
			items[i] = *shipment
			return storage.Write(r.db, storage.CollectionShipments, items)
		}
	}
	return storage.ErrNotFound
}

func (r *fileShipmentRepository) Delete(ctx context.Context, id int64) error {
	unlock := r.db.Lock(storage.CollectionShipments)
	defer unlock()

	items, err := storage.Read[domain.Shipment](r.db, storage.CollectionShipments)
	if err != nil {
		return err
	}
	filtered := make([]domain.Shipment, 0, len(items))
	for i := range items {
		if items[i].ID != id {
			filtered = append(filtered, items[i])
		}
	}
	if len(filtered) == len(items) {
		return storage.ErrNotFound
	}
	return storage.Write(r.db, storage.CollectionShipments, filtered)
}
