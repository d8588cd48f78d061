package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/shipment-service/internal/domain"
	"github.com/spec-kit/shipment-service/internal/events"
	"github.com/spec-kit/shipment-service/internal/repository"
	"github.com/spec-kit/shipment-service/internal/storage"
	apperrors "github.com/spec-kit/shipment-service/pkg/util"
)

// ShipmentService owns the shipment lifecycle: visibility rules, creation,
// status-transition history and authorization for mutations. Status changes
// are announced on the dispatcher; subscribers must never be able to fail a
// persisted mutation.
type ShipmentService struct {
	shipments  repository.ShipmentRepository
	dispatcher events.Dispatcher
}

// NewShipmentService constructs the service.
func NewShipmentService(shipments repository.ShipmentRepository, dispatcher events.Dispatcher) *ShipmentService {
	return &ShipmentService{shipments: shipments, dispatcher: dispatcher}
}

// ShipmentCreateInput describes shipment creation payload. CustomerID may be
// supplied by any caller; when absent the creating principal becomes the
// customer of record.
type ShipmentCreateInput struct {
	TrackingNumber       string
	Origin               string
	Destination          string
	Sender               string
	Recipient            string
	Weight               float64
	Price                float64
	Description          string
	Status               string
	CustomerID           *int64
	ConvertedFromOrderID *int64
}

// ShipmentUpdateInput is a partial update; nil fields are left untouched.
// Privileged fields (CustomerID, OperatorID, OperatorConfirmed) are merged
// without role checks, matching the permissive contract of the API.
type ShipmentUpdateInput struct {
	Status            *string
	Origin            *string
	Destination       *string
	Sender            *string
	Recipient         *string
	Weight            *float64
	Price             *float64
	Description       *string
	CustomerID        *int64
	OperatorID        *int64
	CarrierID         *int64
	OperatorConfirmed *bool
	Note              *string
}

// List returns the shipments the principal is permitted to see, preserving
// store order. Carriers additionally see unassigned shipments as claimable
// work.
func (s *ShipmentService) List(ctx context.Context, principal *domain.Principal) ([]domain.Shipment, error) {
	shipments, err := s.shipments.List(ctx)
	if err != nil {
		return nil, err
	}
	visible := make([]domain.Shipment, 0, len(shipments))
	for i := range shipments {
		if visibleTo(principal, &shipments[i]) {
			visible = append(visible, shipments[i])
		}
	}
	return visible, nil
}

// GetByID fetches a single shipment. A missing id reports not-found; a record
// outside the principal's visibility reports unauthorized access, so callers
// can distinguish 404 from 403.
func (s *ShipmentService) GetByID(ctx context.Context, id int64, principal *domain.Principal) (*domain.Shipment, error) {
	shipment, err := s.shipments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperrors.NewNotFound("shipment")
		}
		return nil, err
	}
	if !visibleTo(principal, shipment) {
		return nil, apperrors.NewUnauthorizedAccess("shipment")
	}
	return shipment, nil
}

// Create persists a new shipment. Any authenticated principal may create;
// the creator is recorded as operator, the shipment starts unassigned, and
// the history opens with the initial status.
func (s *ShipmentService) Create(ctx context.Context, principal *domain.Principal, input ShipmentCreateInput) (*domain.Shipment, error) {
	status := input.Status
	if status == "" {
		status = domain.ShipmentStatusReceived
	}
	customerID := principal.ID
	if input.CustomerID != nil {
		customerID = *input.CustomerID
	}
	trackingNumber := strings.TrimSpace(input.TrackingNumber)
	if trackingNumber == "" {
		trackingNumber = generateTrackingNumber("SHP")
	}

	shipment := &domain.Shipment{
		TrackingNumber:       trackingNumber,
		Status:               status,
		Origin:               input.Origin,
		Destination:          input.Destination,
		Sender:               input.Sender,
		Recipient:            input.Recipient,
		Weight:               input.Weight,
		Price:                input.Price,
		Description:          input.Description,
		CustomerID:           customerID,
		OperatorID:           principal.ID,
		CarrierID:            nil,
		OperatorConfirmed:    false,
		ConvertedFromOrderID: input.ConvertedFromOrderID,
		History: []domain.HistoryEntry{
			historyEntry(status, principal, "Shipment created"),
		},
	}

	if err := s.shipments.Create(ctx, shipment); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:       events.EventShipmentCreated,
		ShipmentID: shipment.ID,
		Actor:      actorFrom(principal),
		Payload: events.ShipmentCreatedPayload{
			TrackingNumber: shipment.TrackingNumber,
			Status:         shipment.Status,
			CustomerID:     shipment.CustomerID,
		},
	})
	return shipment, nil
}

// Update merges the payload into the stored shipment. Not-found is checked
// before authorization. A status change appends exactly one history entry and
// announces the transition; an update without a status change is silent.
func (s *ShipmentService) Update(ctx context.Context, id int64, principal *domain.Principal, input ShipmentUpdateInput) (*domain.Shipment, error) {
	shipment, err := s.shipments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperrors.NewNotFound("shipment")
		}
		return nil, err
	}

	if !canUpdate(principal, shipment, input) {
		return nil, apperrors.NewUnauthorizedUpdate("shipment")
	}

	oldStatus := shipment.Status
	applyUpdate(shipment, input)

	statusChanged := input.Status != nil && *input.Status != oldStatus
	if statusChanged {
		note := "Status updated to " + *input.Status
		if input.Note != nil && strings.TrimSpace(*input.Note) != "" {
			note = *input.Note
		}
		shipment.History = append(shipment.History, historyEntry(*input.Status, principal, note))
	}

	if err := s.shipments.Update(ctx, shipment); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperrors.NewNotFound("shipment")
		}
		return nil, err
	}

	if statusChanged {
		note := ""
		if input.Note != nil {
			note = *input.Note
		}
		s.publishEvent(ctx, events.Event{
			Type:       events.EventShipmentStatusChanged,
			ShipmentID: shipment.ID,
			Actor:      actorFrom(principal),
			Payload: events.ShipmentStatusChangedPayload{
				TrackingNumber: shipment.TrackingNumber,
				OldStatus:      oldStatus,
				NewStatus:      shipment.Status,
				Note:           note,
				CustomerID:     shipment.CustomerID,
				CarrierID:      shipment.CarrierID,
			},
		})
	}
	return shipment, nil
}

// CompleteDelivery marks a shipment delivered with a proof-of-delivery note,
// going through the regular update path so history and notifications apply.
func (s *ShipmentService) CompleteDelivery(ctx context.Context, id int64, principal *domain.Principal, note string) (*domain.Shipment, error) {
	status := domain.ShipmentStatusDelivered
	if strings.TrimSpace(note) == "" {
		note = "Delivery completed"
	}
	return s.Update(ctx, id, principal, ShipmentUpdateInput{Status: &status, Note: &note})
}

// Delete removes a shipment permanently. Only admins and the operator of
// record may delete; notifications already emitted are not cleaned up.
func (s *ShipmentService) Delete(ctx context.Context, id int64, principal *domain.Principal) error {
	shipment, err := s.shipments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.NewNotFound("shipment")
		}
		return err
	}

	allowed := principal.Role == domain.RoleAdmin ||
		(principal.Role == domain.RoleOperator && shipment.OperatorID == principal.ID)
	if !allowed {
		return apperrors.NewUnauthorizedDelete("shipment")
	}

	if err := s.shipments.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.NewNotFound("shipment")
		}
		return err
	}

	s.publishEvent(ctx, events.Event{
		Type:       events.EventShipmentDeleted,
		ShipmentID: shipment.ID,
		Actor:      actorFrom(principal),
		Payload: events.ShipmentDeletedPayload{
			TrackingNumber: shipment.TrackingNumber,
			Status:         shipment.Status,
		},
	})
	return nil
}

// Stats aggregates dashboard counters over the whole collection.
func (s *ShipmentService) Stats(ctx context.Context) (*domain.ShipmentStats, error) {
	shipments, err := s.shipments.List(ctx)
	if err != nil {
		return nil, err
	}
	stats := &domain.ShipmentStats{Total: len(shipments)}
	for i := range shipments {
		switch shipments[i].Status {
		case domain.ShipmentStatusReceived:
			stats.Received++
		case domain.ShipmentStatusInTransit:
			stats.InTransit++
		case domain.ShipmentStatusDelivered:
			stats.Delivered++
		}
	}
	return stats, nil
}

func visibleTo(principal *domain.Principal, shipment *domain.Shipment) bool {
	switch principal.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleOperator:
		return shipment.OperatorID == principal.ID
	case domain.RoleCarrier:
		return shipment.CarrierID == nil || *shipment.CarrierID == principal.ID
	case domain.RoleCustomer:
		return shipment.CustomerID == principal.ID
	default:
		return false
	}
}

func canUpdate(principal *domain.Principal, shipment *domain.Shipment, input ShipmentUpdateInput) bool {
	switch principal.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleOperator:
		return shipment.OperatorID == principal.ID
	case domain.RoleCarrier:
		if shipment.CarrierID != nil && *shipment.CarrierID == principal.ID {
			return true
		}
		// claiming: an unassigned shipment may be taken by a carrier
		// setting carrierId to their own id
		return shipment.CarrierID == nil && input.CarrierID != nil && *input.CarrierID == principal.ID
	default:
		return false
	}
}

func applyUpdate(shipment *domain.Shipment, input ShipmentUpdateInput) {
	if input.Status != nil {
		shipment.Status = *input.Status
	}
	if input.Origin != nil {
		shipment.Origin = *input.Origin
	}
	if input.Destination != nil {
		shipment.Destination = *input.Destination
	}
	if input.Sender != nil {
		shipment.Sender = *input.Sender
	}
	if input.Recipient != nil {
		shipment.Recipient = *input.Recipient
	}
	if input.Weight != nil {
		shipment.Weight = *input.Weight
	}
	if input.Price != nil {
		shipment.Price = *input.Price
	}
	if input.Description != nil {
		shipment.Description = *input.Description
	}
	if input.CustomerID != nil {
		shipment.CustomerID = *input.CustomerID
	}
	if input.OperatorID != nil {
		shipment.OperatorID = *input.OperatorID
	}
	if input.CarrierID != nil {
		carrierID := *input.CarrierID
		shipment.CarrierID = &carrierID
	}
	if input.OperatorConfirmed != nil {
		shipment.OperatorConfirmed = *input.OperatorConfirmed
	}
}

func historyEntry(status string, principal *domain.Principal, note string) domain.HistoryEntry {
	return domain.HistoryEntry{
		Status:    status,
		Timestamp: time.Now().UTC(),
		UpdatedBy: principal.Username,
		UserID:    principal.ID,
		Role:      principal.Role,
		Note:      note,
	}
}

func actorFrom(principal *domain.Principal) events.Actor {
	return events.Actor{
		ID:       principal.ID,
		Username: principal.Username,
		Role:     principal.Role,
	}
}

func (s *ShipmentService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func generateTrackingNumber(prefix string) string {
	return prefix + "-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
