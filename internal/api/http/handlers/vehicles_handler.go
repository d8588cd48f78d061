package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shipment-service/internal/api/dto"
	"github.com/spec-kit/shipment-service/internal/service"
	apperrors "github.com/spec-kit/shipment-service/pkg/util"
)

// VehiclesHandler manages fleet endpoints.
type VehiclesHandler struct {
	service *service.VehicleService
}

// NewVehiclesHandler constructs handler.
func NewVehiclesHandler(vehicleService *service.VehicleService) *VehiclesHandler {
	return &VehiclesHandler{service: vehicleService}
}

// List GET /vehicles.
func (h *VehiclesHandler) List(c *fiber.Ctx) error {
	vehicles, err := h.service.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": vehicles})
}

// Get GET /vehicles/:id.
func (h *VehiclesHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	vehicle, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": vehicle})
}

// Create POST /vehicles.
func (h *VehiclesHandler) Create(c *fiber.Ctx) error {
	var req dto.VehicleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	vehicle, err := h.service.Create(c.Context(), service.VehicleInput{
		Name:   req.Name,
		Type:   req.Type,
		Status: req.Status,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": vehicle})
}

// Update PUT /vehicles/:id.
func (h *VehiclesHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.VehicleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	vehicle, err := h.service.Update(c.Context(), id, service.VehicleInput{
		Name:   req.Name,
		Type:   req.Type,
		Status: req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": vehicle})
}

// Delete DELETE /vehicles/:id.
func (h *VehiclesHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "vehicle deleted"}})
}
