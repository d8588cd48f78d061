package service

import (
	"context"
	"errors"
	"strings"

	"github.com/spec-kit/shipment-service/internal/domain"
	"github.com/spec-kit/shipment-service/internal/repository"
	"github.com/spec-kit/shipment-service/internal/storage"
	apperrors "github.com/spec-kit/shipment-service/pkg/util"
)

// OrderService handles customer orders and their conversion into shipments.
type OrderService struct {
	orders    repository.OrderRepository
	shipments *ShipmentService
}

// NewOrderService constructs the service.
func NewOrderService(orders repository.OrderRepository, shipments *ShipmentService) *OrderService {
	return &OrderService{orders: orders, shipments: shipments}
}

// OrderCreateInput describes order creation payload.
type OrderCreateInput struct {
	Origin         string
	Destination    string
	RecipientName  string
	Weight         float64
	EstimatedPrice float64
}

// OrderUpdateInput is a partial update; nil fields are left untouched.
type OrderUpdateInput struct {
	Origin         *string
	Destination    *string
	RecipientName  *string
	Weight         *float64
	EstimatedPrice *float64
	Status         *string
}

// List returns orders visible to the principal: staff see all, customers see
// their own, carriers see none.
func (s *OrderService) List(ctx context.Context, principal *domain.Principal) ([]domain.Order, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	if principal.Role == domain.RoleAdmin || principal.Role == domain.RoleOperator {
		return orders, nil
	}
	visible := make([]domain.Order, 0, len(orders))
	if principal.Role == domain.RoleCustomer {
		for i := range orders {
			if orders[i].CustomerID == principal.ID {
				visible = append(visible, orders[i])
			}
		}
	}
	return visible, nil
}

// GetByID fetches an order; records outside the principal's visibility report
// not-found.
func (s *OrderService) GetByID(ctx context.Context, id int64, principal *domain.Principal) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperrors.NewNotFound("order")
		}
		return nil, err
	}
	if principal.Role == domain.RoleAdmin || principal.Role == domain.RoleOperator {
		return order, nil
	}
	if principal.Role == domain.RoleCustomer && order.CustomerID == principal.ID {
		return order, nil
	}
	return nil, apperrors.NewNotFound("order")
}

// Create registers a new order for the calling customer.
func (s *OrderService) Create(ctx context.Context, principal *domain.Principal, input OrderCreateInput) (*domain.Order, error) {
	if input.Origin == "" || input.Destination == "" || input.RecipientName == "" {
		return nil, apperrors.NewValidationError("origin, destination, recipientName required", nil)
	}

	order := &domain.Order{
		TrackingNumber: generateTrackingNumber("ORD"),
		Origin:         input.Origin,
		Destination:    input.Destination,
		RecipientName:  input.RecipientName,
		Weight:         input.Weight,
		EstimatedPrice: input.EstimatedPrice,
		Status:         domain.OrderStatusPending,
		CustomerID:     principal.ID,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Update merges the payload into the stored order. Staff and the owning
// customer may update.
func (s *OrderService) Update(ctx context.Context, id int64, principal *domain.Principal, input OrderUpdateInput) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperrors.NewNotFound("order")
		}
		return nil, err
	}

	allowed := principal.Role == domain.RoleAdmin ||
		principal.Role == domain.RoleOperator ||
		(principal.Role == domain.RoleCustomer && order.CustomerID == principal.ID)
	if !allowed {
		return nil, apperrors.NewUnauthorizedUpdate("order")
	}

	if input.Origin != nil {
		order.Origin = *input.Origin
	}
	if input.Destination != nil {
		order.Destination = *input.Destination
	}
	if input.RecipientName != nil {
		order.RecipientName = *input.RecipientName
	}
	if input.Weight != nil {
		order.Weight = *input.Weight
	}
	if input.EstimatedPrice != nil {
		order.EstimatedPrice = *input.EstimatedPrice
	}
	if input.Status != nil {
		order.Status = *input.Status
	}

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Delete removes an order. Admin only.
func (s *OrderService) Delete(ctx context.Context, id int64, principal *domain.Principal) error {
	if _, err := s.orders.GetByID(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.NewNotFound("order")
		}
		return err
	}
	if principal.Role != domain.RoleAdmin {
		return apperrors.NewUnauthorizedDelete("order")
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.NewNotFound("order")
		}
		return err
	}
	return nil
}

// ConvertToShipment turns a pending order into a shipment through the regular
// creation path, so history and lifecycle invariants hold. The converting
// principal becomes the operator of record.
func (s *OrderService) ConvertToShipment(ctx context.Context, id int64, principal *domain.Principal) (*domain.Shipment, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperrors.NewNotFound("order")
		}
		return nil, err
	}

	if principal.Role != domain.RoleAdmin && principal.Role != domain.RoleOperator {
		return nil, apperrors.NewUnauthorizedUpdate("order")
	}
	if order.Status == domain.OrderStatusConverted {
		return nil, apperrors.NewConflict("order already converted", nil)
	}

	customerID := order.CustomerID
	orderID := order.ID
	shipment, err := s.shipments.Create(ctx, principal, ShipmentCreateInput{
		TrackingNumber:       strings.Replace(order.TrackingNumber, "ORD", "SHP", 1),
		Origin:               order.Origin,
		Destination:          order.Destination,
		Sender:               principal.Username,
		Recipient:            order.RecipientName,
		Weight:               order.Weight,
		Price:                order.EstimatedPrice,
		Status:               domain.ShipmentStatusPending,
		CustomerID:           &customerID,
		ConvertedFromOrderID: &orderID,
	})
	if err != nil {
		return nil, err
	}

	order.Status = domain.OrderStatusConverted
	order.RelatedShipmentID = &shipment.ID
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	return shipment, nil
}
