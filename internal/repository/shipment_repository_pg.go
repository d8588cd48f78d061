package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/shipment-service/internal/domain"
	"github.com/spec-kit/shipment-service/internal/storage"
)

type pgShipmentRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresShipmentRepository returns a Postgres-backed implementation.
// The history trail is stored as a JSONB column.
func NewPostgresShipmentRepository(pool *pgxpool.Pool) ShipmentRepository {
	return &pgShipmentRepository{pool: pool}
}

const shipmentColumns = `
        id, tracking_number, status, origin, destination, sender, recipient,
        weight, price, description, customer_id, operator_id, carrier_id,
        operator_confirmed, converted_from_order_id, history, created_at, updated_at`

func (r *pgShipmentRepository) List(ctx context.Context) ([]domain.Shipment, error) {
	query := `SELECT` + shipmentColumns + ` FROM shipments ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Shipment
	for rows.Next() {
		shipment, err := scanShipment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *shipment)
	}
	return result, rows.Err()
}

func (r *pgShipmentRepository) GetByID(ctx context.Context, id int64) (*domain.Shipment, error) {
	query := `SELECT` + shipmentColumns + ` FROM shipments WHERE id=$1`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, storage.ErrNotFound
	}
	return scanShipment(rows)
}

func (r *pgShipmentRepository) Create(ctx context.Context, shipment *domain.Shipment) error {
	const query = `
        INSERT INTO shipments (tracking_number, status, origin, destination, sender, recipient,
            weight, price, description, customer_id, operator_id, carrier_id,
            operator_confirmed, converted_from_order_id, history)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		shipment.TrackingNumber,
		shipment.Status,
		shipment.Origin,
		shipment.Destination,
		shipment.Sender,
		shipment.Recipient,
		shipment.Weight,
		shipment.Price,
		shipment.Description,
		shipment.CustomerID,
		shipment.OperatorID,
		shipment.CarrierID,
		shipment.OperatorConfirmed,
		shipment.ConvertedFromOrderID,
		shipment.History,
	).Scan(&shipment.ID, &shipment.CreatedAt, &shipment.UpdatedAt)
}

func (r *pgShipmentRepository) Update(ctx context.Context, shipment *domain.Shipment) error {
	const query = `
        UPDATE shipments SET tracking_number=$1, status=$2, origin=$3, destination=$4,
            sender=$5, recipient=$6, weight=$7, price=$8, description=$9,
            customer_id=$10, operator_id=$11, carrier_id=$12, operator_confirmed=$13,
            converted_from_order_id=$14, history=$15, updated_at=NOW()
        WHERE id=$16`
	cmd, err := r.pool.Exec(ctx, query,
		shipment.TrackingNumber,
		shipment.Status,
		shipment.Origin,
		shipment.Destination,
		shipment.Sender,
		shipment.Recipient,
		shipment.Weight,
		shipment.Price,
		shipment.Description,
		shipment.CustomerID,
		shipment.OperatorID,
		shipment.CarrierID,
		shipment.OperatorConfirmed,
		shipment.ConvertedFromOrderID,
		shipment.History,
		shipment.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *pgShipmentRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM shipments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanShipment(rows pgx.Rows) (*domain.Shipment, error) {
	var shipment domain.Shipment
	if err := rows.Scan(
		&shipment.ID,
		&shipment.TrackingNumber,
		&shipment.Status,
		&shipment.Origin,
		&shipment.Destination,
		&shipment.Sender,
		&shipment.Recipient,
		&shipment.Weight,
		&shipment.Price,
		&shipment.Description,
		&shipment.CustomerID,
		&shipment.OperatorID,
		&shipment.CarrierID,
		&shipment.OperatorConfirmed,
		&shipment.ConvertedFromOrderID,
		&shipment.History,
		&shipment.CreatedAt,
		&shipment.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &shipment, nil
}
