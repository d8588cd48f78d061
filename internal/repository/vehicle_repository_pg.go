package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/shipment-service/internal/domain"
	"github.com/spec-kit/shipment-service/internal/storage"
)

type pgVehicleRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresVehicleRepository returns a Postgres-backed implementation.
func NewPostgresVehicleRepository(pool *pgxpool.Pool) VehicleRepository {
	return &pgVehicleRepository{pool: pool}
}

func (r *pgVehicleRepository) List(ctx context.Context) ([]domain.Vehicle, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, type, status, created_at, updated_at FROM vehicles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Vehicle
	for rows.Next() {
		var vehicle domain.Vehicle
		if err := rows.Scan(&vehicle.ID, &vehicle.Name, &vehicle.Type, &vehicle.Status, &vehicle.CreatedAt, &vehicle.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, vehicle)
	}
	return result, rows.Err()
}

func (r *pgVehicleRepository) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	var vehicle domain.Vehicle
	err := r.pool.QueryRow(ctx, `SELECT id, name, type, status, created_at, updated_at FROM vehicles WHERE id=$1`, id).
		Scan(&vehicle.ID, &vehicle.Name, &vehicle.Type, &vehicle.Status, &vehicle.CreatedAt, &vehicle.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

func (r *pgVehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	const query = `
        INSERT INTO vehicles (name, type, status)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, vehicle.Name, vehicle.Type, vehicle.Status).
		Scan(&vehicle.ID, &vehicle.CreatedAt, &vehicle.UpdatedAt)
}

func (r *pgVehicleRepository) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE vehicles SET name=$1, type=$2, status=$3, updated_at=NOW() WHERE id=$4`,
		vehicle.Name, vehicle.Type, vehicle.Status, vehicle.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *pgVehicleRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM vehicles WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
