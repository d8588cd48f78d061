package repository

import (
	"context"
	"time"

	"github.com/spec-kit/shipment-service/internal/domain"
	"github.com/spec-kit/shipment-service/internal/storage"
)

// UserRepository defines persistence access for accounts.
type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
}

type fileUserRepository struct {
	db *storage.FileDB
}

// NewFileUserRepository returns a JSON-file-backed implementation.
func NewFileUserRepository(db *storage.FileDB) UserRepository {
	return &fileUserRepository{db: db}
}

func (r *fileUserRepository) List(ctx context.Context) ([]domain.User, error) {
	unlock := r.db.Lock(storage.CollectionUsers)
	defer unlock()
	return storage.Read[domain.User](r.db, storage.CollectionUsers)
}

func (r *fileUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.ID == id })
}

func (r *fileUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Username == username })
}

func (r *fileUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Email == email })
}

func (r *fileUserRepository) Create(ctx context.Context, user *domain.User) error {
	unlock := r.db.Lock(storage.CollectionUsers)
	defer unlock()

	items, err := storage.Read[domain.User](r.db, storage.CollectionUsers)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	user.ID = storage.NextID(items, func(u domain.User) int64 { return u.ID })
	user.CreatedAt = now
	user.UpdatedAt = now

	items = append(items, *user)
	return storage.Write(r.db, storage.CollectionUsers, items)
}

func (r *fileUserRepository) find(match func(domain.User) bool) (*domain.User, error) {
	unlock := r.db.Lock(storage.CollectionUsers)
	defer unlock()

	items, err := storage.Read[domain.User](r.db, storage.CollectionUsers)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if match(items[i]) {
			return &items[i], nil
		}
	}
	return nil, storage.ErrNotFound
}
