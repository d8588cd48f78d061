package dto

// CreateOrderRequest payload.
type CreateOrderRequest struct {
	Origin         string  `json:"origin"`
	Destination    string  `json:"destination"`
	RecipientName  string  `json:"recipientName"`
	Weight         float64 `json:"weight"`
	EstimatedPrice float64 `json:"estimatedPrice"`
}

// UpdateOrderRequest is a partial update; omitted fields keep their stored value.
type UpdateOrderRequest struct {
	Origin         *string  `json:"origin"`
	Destination    *string  `json:"destination"`
	RecipientName  *string  `json:"recipientName"`
	Weight         *float64 `json:"weight"`
	EstimatedPrice *float64 `json:"estimatedPrice"`
	Status         *string  `json:"status"`
}
