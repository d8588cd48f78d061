package domain

import "time"

// Order statuses.
const (
	OrderStatusPending   = "Pending"
	OrderStatusConverted = "Converted to Shipment"
)

// Order is a customer request that an operator may convert into a shipment.
type Order struct {
	ID                int64     `json:"id"`
	TrackingNumber    string    `json:"trackingNumber"`
	Origin            string    `json:"origin"`
	Destination       string    `json:"destination"`
	RecipientName     string    `json:"recipientName"`
	Weight            float64   `json:"weight"`
	EstimatedPrice    float64   `json:"estimatedPrice"`
	Status            string    `json:"status"`
	CustomerID        int64     `json:"customerId"`
	RelatedShipmentID *int64    `json:"relatedShipmentId,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}
