package domain

import "time"

// Well-known shipment statuses. The status field is an open string label:
// lifecycle logic only reacts to the value changing, never to the value itself.
const (
	ShipmentStatusPending        = "Pending"
	ShipmentStatusReceived       = "Received"
	ShipmentStatusReadyForPickup = "Ready for Pickup"
	ShipmentStatusInTransit      = "In Transit"
	ShipmentStatusDelivered      = "Delivered"
)

// Shipment is the central aggregate. A nil CarrierID marks the shipment as
// unassigned and claimable by any carrier. JSON tags double as the storage
// format of the file-backed record store and the wire contract.
type Shipment struct {
	ID                   int64          `json:"id"`
	TrackingNumber       string         `json:"trackingNumber"`
	Status               string         `json:"status"`
	Origin               string         `json:"origin"`
	Destination          string         `json:"destination"`
	Sender               string         `json:"sender"`
	Recipient            string         `json:"recipient"`
	Weight               float64        `json:"weight"`
	Price                float64        `json:"price"`
	Description          string         `json:"description,omitempty"`
	CustomerID           int64          `json:"customerId"`
	OperatorID           int64          `json:"operatorId"`
	CarrierID            *int64         `json:"carrierId"`
	OperatorConfirmed    bool           `json:"operatorConfirmed"`
	ConvertedFromOrderID *int64         `json:"convertedFromOrderId,omitempty"`
	History              []HistoryEntry `json:"history"`
	CreatedAt            time.Time      `json:"createdAt"`
	UpdatedAt            time.Time      `json:"updatedAt"`
}

// HistoryEntry is an immutable audit record of one status transition. Entries
// are append-only; the first entry always records the creation status.
type HistoryEntry struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	UpdatedBy string    `json:"updatedBy"`
	UserID    int64     `json:"userId"`
	Role      Role      `json:"role"`
	Note      string    `json:"note"`
}

// ShipmentStats aggregates dashboard counters.
type ShipmentStats struct {
	Total     int `json:"total"`
	Received  int `json:"received"`
	InTransit int `json:"inTransit"`
	Delivered int `json:"delivered"`
}
