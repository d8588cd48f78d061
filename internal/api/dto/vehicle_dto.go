package dto

// VehicleRequest covers vehicle creation and partial update.
type VehicleRequest struct {
	Name   *string `json:"name"`
	Type   *string `json:"type"`
	Status *string `json:"status"`
}
