package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shipment-service/internal/api/dto"
	"github.com/spec-kit/shipment-service/internal/auth"
	"github.com/spec-kit/shipment-service/internal/service"
	apperrors "github.com/spec-kit/shipment-service/pkg/util"
)

// ShipmentsHandler manages shipment endpoints.
type ShipmentsHandler struct {
	service *service.ShipmentService
}

// NewShipmentsHandler constructs handler.
func NewShipmentsHandler(shipmentService *service.ShipmentService) *ShipmentsHandler {
	return &ShipmentsHandler{service: shipmentService}
}

// List GET /shipments.
func (h *ShipmentsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	shipments, err := h.service.List(c.Context(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": shipments})
}

// Get GET /shipments/:id.
func (h *ShipmentsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	shipment, err := h.service.GetByID(c.Context(), id, principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": shipment})
}

// Create POST /shipments.
func (h *ShipmentsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateShipmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Origin == "" || req.Destination == "" {
		return apperrors.NewValidationError("origin, destination required", nil)
	}

	input := service.ShipmentCreateInput{
		TrackingNumber: req.TrackingNumber,
		Origin:         req.Origin,
		Destination:    req.Destination,
		Sender:         req.Sender,
		Recipient:      req.Recipient,
		Weight:         req.Weight,
		Price:          req.Price,
		Description:    req.Description,
		Status:         req.Status,
		CustomerID:     req.CustomerID,
	}
	shipment, err := h.service.Create(c.Context(), principal, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": shipment})
}

// Update PUT /shipments/:id.
func (h *ShipmentsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateShipmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.ShipmentUpdateInput{
		Status:            req.Status,
		Origin:            req.Origin,
		Destination:       req.Destination,
		Sender:            req.Sender,
		Recipient:         req.Recipient,
		Weight:            req.Weight,
		Price:             req.Price,
		Description:       req.Description,
		CustomerID:        req.CustomerID,
		OperatorID:        req.OperatorID,
		CarrierID:         req.CarrierID,
		OperatorConfirmed: req.OperatorConfirmed,
		Note:              req.Note,
	}
	shipment, err := h.service.Update(c.Context(), id, principal, input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": shipment})
}

// CompleteDelivery POST /shipments/:id/complete-delivery.
func (h *ShipmentsHandler) CompleteDelivery(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.CompleteDeliveryRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	shipment, err := h.service.CompleteDelivery(c.Context(), id, principal, req.Note)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": shipment})
}

// Delete DELETE /shipments/:id.
func (h *ShipmentsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Context(), id, principal); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "shipment deleted"}})
}

// Stats GET /stats.
func (h *ShipmentsHandler) Stats(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("user required")
	}
	stats, err := h.service.Stats(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id", nil)
	}
	return id, nil
}
