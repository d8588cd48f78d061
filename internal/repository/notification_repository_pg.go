package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/shipment-service/internal/domain"
	"github.com/spec-kit/shipment-service/internal/storage"
)

type pgNotificationRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresNotificationRepository returns a Postgres-backed implementation.
func NewPostgresNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &pgNotificationRepository{pool: pool}
}

const notificationColumns = `id, user_id, title, message, type, link, read, created_at, updated_at`

func (r *pgNotificationRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Notification, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Notification
	for rows.Next() {
		var notification domain.Notification
		if err := scanNotification(rows.Scan, &notification); err != nil {
			return nil, err
		}
		result = append(result, notification)
	}
	return result, rows.Err()
}

func (r *pgNotificationRepository) GetByID(ctx context.Context, id int64) (*domain.Notification, error) {
	var notification domain.Notification
	err := scanNotification(
		r.pool.QueryRow(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id=$1`, id).Scan,
		&notification)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &notification, nil
}

func (r *pgNotificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	const query = `
        INSERT INTO notifications (user_id, title, message, type, link, read)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		notification.UserID,
		notification.Title,
		notification.Message,
		notification.Type,
		notification.Link,
		notification.Read,
	).Scan(&notification.ID, &notification.CreatedAt, &notification.UpdatedAt)
}

func (r *pgNotificationRepository) Update(ctx context.Context, notification *domain.Notification) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE notifications SET title=$1, message=$2, type=$3, link=$4, read=$5, updated_at=NOW() WHERE id=$6`,
		notification.Title,
		notification.Message,
		notification.Type,
		notification.Link,
		notification.Read,
		notification.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanNotification(scan func(dest ...any) error, notification *domain.Notification) error {
	return scan(
		&notification.ID,
		&notification.UserID,
		&notification.Title,
		&notification.Message,
		&notification.Type,
		&notification.Link,
		&notification.Read,
		&notification.CreatedAt,
		&notification.UpdatedAt,
	)
}
