package events

import (
	"time"

	"github.com/spec-kit/shipment-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventShipmentCreated       EventType = "shipment_created"
	EventShipmentStatusChanged EventType = "shipment_status_changed"
	EventShipmentDeleted       EventType = "shipment_deleted"
)

// Actor captures the principal behind an event.
type Actor struct {
	ID       int64       `json:"id"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	ShipmentID int64       `json:"shipment_id"`
	Actor      Actor       `json:"actor"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// ShipmentCreatedPayload payload.
type ShipmentCreatedPayload struct {
	TrackingNumber string `json:"tracking_number"`
	Status         string `json:"status"`
	CustomerID     int64  `json:"customer_id"`
}

// ShipmentStatusChangedPayload payload. CustomerID and CarrierID identify the
// parties to notify; CarrierID is nil for unassigned shipments.
type ShipmentStatusChangedPayload struct {
	TrackingNumber string `json:"tracking_number"`
	OldStatus      string `json:"old_status"`
	NewStatus      string `json:"new_status"`
	Note           string `json:"note,omitempty"`
	CustomerID     int64  `json:"customer_id"`
	CarrierID      *int64 `json:"carrier_id,omitempty"`
}

// ShipmentDeletedPayload payload.
type ShipmentDeletedPayload struct {
	TrackingNumber string `json:"tracking_number"`
	Status         string `json:"status"`
}
