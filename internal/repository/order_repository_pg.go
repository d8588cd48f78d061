package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/shipment-service/internal/domain"
	"github.com/spec-kit/shipment-service/internal/storage"
)

type pgOrderRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresOrderRepository returns a Postgres-backed implementation.
func NewPostgresOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &pgOrderRepository{pool: pool}
}

const orderColumns = `
        id, tracking_number, origin, destination, recipient_name, weight,
        estimated_price, status, customer_id, related_shipment_id, created_at, updated_at`

func (r *pgOrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT`+orderColumns+` FROM orders ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := scanOrder(rows.Scan, &order); err != nil {
			return nil, err
		}
		result = append(result, order)
	}
	return result, rows.Err()
}

func (r *pgOrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	err := scanOrder(r.pool.QueryRow(ctx, `SELECT`+orderColumns+` FROM orders WHERE id=$1`, id).Scan, &order)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *pgOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	const query = `
        INSERT INTO orders (tracking_number, origin, destination, recipient_name, weight,
            estimated_price, status, customer_id, related_shipment_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		order.TrackingNumber,
		order.Origin,
		order.Destination,
		order.RecipientName,
		order.Weight,
		order.EstimatedPrice,
		order.Status,
		order.CustomerID,
		order.RelatedShipmentID,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
}

func (r *pgOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	const query = `
        UPDATE orders SET tracking_number=$1, origin=$2, destination=$3, recipient_name=$4,
            weight=$5, estimated_price=$6, status=$7, customer_id=$8,
            related_shipment_id=$9, updated_at=NOW()
        WHERE id=$10`
	cmd, err := r.pool.Exec(ctx, query,
		order.TrackingNumber,
		order.Origin,
		order.Destination,
		order.RecipientName,
		order.Weight,
		order.EstimatedPrice,
		order.Status,
		order.CustomerID,
		order.RelatedShipmentID,
		order.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *pgOrderRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanOrder(scan func(dest ...any) error, order *domain.Order) error {
	return scan(
		&order.ID,
		&order.TrackingNumber,
		&order.Origin,
		&order.Destination,
		&order.RecipientName,
		&order.Weight,
		&order.EstimatedPrice,
		&order.Status,
		&order.CustomerID,
		&order.RelatedShipmentID,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
}
