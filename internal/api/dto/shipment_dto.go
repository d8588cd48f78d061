package dto

// CreateShipmentRequest payload. CustomerID is optional; absent means the
// caller ships for themselves.
type CreateShipmentRequest struct {
	TrackingNumber string  `json:"trackingNumber"`
	Origin         string  `json:"origin"`
	Destination    string  `json:"destination"`
	Sender         string  `json:"sender"`
	Recipient      string  `json:"recipient"`
	Weight         float64 `json:"weight"`
	Price          float64 `json:"price"`
	Description    string  `json:"description"`
	Status         string  `json:"status"`
	CustomerID     *int64  `json:"customerId"`
}

// UpdateShipmentRequest is a partial update; omitted fields keep their stored
// value. Setting carrierId to the caller's own id on an unassigned shipment is
// how a carrier claims it.
type UpdateShipmentRequest struct {
	Status            *string  `json:"status"`
	Origin            *string  `json:"origin"`
	Destination       *string  `json:"destination"`
	Sender            *string  `json:"sender"`
	Recipient         *string  `json:"recipient"`
	Weight            *float64 `json:"weight"`
	Price             *float64 `json:"price"`
	Description       *string  `json:"description"`
	CustomerID        *int64   `json:"customerId"`
	OperatorID        *int64   `json:"operatorId"`
	CarrierID         *int64   `json:"carrierId"`
	OperatorConfirmed *bool    `json:"operatorConfirmed"`
	Note              *string  `json:"note"`
}

// CompleteDeliveryRequest payload.
type CompleteDeliveryRequest struct {
	Note string `json:"note"`
}
