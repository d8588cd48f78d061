package repository

import (
	"context"
	"time"

	"github.com/spec-kit/shipment-service/internal/domain"
	"github.com/spec-kit/shipment-service/internal/storage"
)

// VehicleRepository encapsulates fleet persistence.
type VehicleRepository interface {
	List(ctx context.Context) ([]domain.Vehicle, error)
	GetByID(ctx context.Context, id int64) (*domain.Vehicle, error)
	Create(ctx context.Context, vehicle *domain.Vehicle) error
	Update(ctx context.Context, vehicle *domain.Vehicle) error
	Delete(ctx context.Context, id int64) error
}

type fileVehicleRepository struct {
	db *storage.FileDB
}

// NewFileVehicleRepository returns a JSON-file-backed implementation.
func NewFileVehicleRepository(db *storage.FileDB) VehicleRepository {
	return &fileVehicleRepository{db: db}
}

func (r *fileVehicleRepository) List(ctx context.Context) ([]domain.Vehicle, error) {
	unlock := r.db.Lock(storage.CollectionVehicles)
	defer unlock()
	return storage.Read[domain.Vehicle](r.db, storage.CollectionVehicles)
}

func (r *fileVehicleRepository) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	unlock := r.db.Lock(storage.CollectionVehicles)
	defer unlock()

	items, err := storage.Read[domain.Vehicle](r.db, storage.CollectionVehicles)
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

func (r *fileVehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	unlock := r.db.Lock(storage.CollectionVehicles)
	defer unlock()

	items, err := storage.Read[domain.Vehicle](r.db, storage.CollectionVehicles)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	vehicle.ID = storage.NextID(items, func(v domain.Vehicle) int64 { return v.ID })
	vehicle.CreatedAt = now
	vehicle.UpdatedAt = now

	items = append(items, *vehicle)
	return storage.Write(r.db, storage.CollectionVehicles, items)
}

func (r *fileVehicleRepository) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	unlock := r.db.Lock(storage.CollectionVehicles)
	defer unlock()

	items, err := storage.Read[domain.Vehicle](r.db, storage.CollectionVehicles)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == vehicle.ID {
			vehicle.CreatedAt = items[i].CreatedAt
			vehicle.UpdatedAt = time.Now().UTC()
			items[i] = *vehicle
			return storage.Write(r.db, storage.CollectionVehicles, items)
		}
	}
	return storage.ErrNotFound
}

func (r *fileVehicleRepository) Delete(ctx context.Context, id int64) error {
	unlock := r.db.Lock(storage.CollectionVehicles)
	defer unlock()

	items, err := storage.Read[domain.Vehicle](r.db, storage.CollectionVehicles)
	if err != nil {
		return err
	}
	filtered := make([]domain.Vehicle, 0, len(items))
	for i := range items {
		if items[i].ID != id {
			filtered = append(filtered, items[i])
		}
	}
	if len(filtered) == len(items) {
		return storage.ErrNotFound
	}
	return storage.Write(r.db, storage.CollectionVehicles, filtered)
}
