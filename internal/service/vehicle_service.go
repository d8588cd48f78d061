package service

import (
	"context"
	"errors"

	"github.com/spec-kit/shipment-service/internal/domain"
	"github.com/spec-kit/shipment-service/internal/repository"
	"github.com/spec-kit/shipment-service/internal/storage"
	apperrors "github.com/spec-kit/shipment-service/pkg/util"
)

// VehicleService is plain fleet CRUD.
type VehicleService struct {
	vehicles repository.VehicleRepository
}

// NewVehicleService constructs the service.
func NewVehicleService(vehicles repository.VehicleRepository) *VehicleService {
	return &VehicleService{vehicles: vehicles}
}

// VehicleInput describes creation/update payload.
type VehicleInput struct {
	Name   *string
	Type   *string
	Status *string
}

func (s *VehicleService) List(ctx context.Context) ([]domain.Vehicle, error) {
	return s.vehicles.List(ctx)
}

func (s *VehicleService) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	vehicle, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperrors.NewNotFound("vehicle")
		}
		return nil, err
	}
	return vehicle, nil
}

func (s *VehicleService) Create(ctx context.Context, input VehicleInput) (*domain.Vehicle, error) {
	if input.Name == nil || *input.Name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	vehicle := &domain.Vehicle{Name: *input.Name}
	if input.Type != nil {
		vehicle.Type = *input.Type
	}
	if input.Status != nil {
		vehicle.Status = *input.Status
	} else {
		vehicle.Status = "Available"
	}
	if err := s.vehicles.Create(ctx, vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

func (s *VehicleService) Update(ctx context.Context, id int64, input VehicleInput) (*domain.Vehicle, error) {
	vehicle, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperrors.NewNotFound("vehicle")
		}
		return nil, err
	}
	if input.Name != nil {
		vehicle.Name = *input.Name
	}
	if input.Type != nil {
		vehicle.Type = *input.Type
	}
	if input.Status != nil {
		vehicle.Status = *input.Status
	}
	if err := s.vehicles.Update(ctx, vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

func (s *VehicleService) Delete(ctx context.Context, id int64) error {
	if err := s.vehicles.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.NewNotFound("vehicle")
		}
		return err
	}
	return nil
}
