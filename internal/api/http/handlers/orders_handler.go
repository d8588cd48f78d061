package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shipment-service/internal/api/dto"
	"github.com/spec-kit/shipment-service/internal/auth"
	"github.com/spec-kit/shipment-service/internal/service"
	apperrors "github.com/spec-kit/shipment-service/pkg/util"
)

// OrdersHandler manages customer order endpoints.
type OrdersHandler struct {
	service *service.OrderService
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orderService *service.OrderService) *OrdersHandler {
	return &OrdersHandler{service: orderService}
}

// List GET /orders.
func (h *OrdersHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	orders, err := h.service.List(c.Context(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": orders})
}

// Get GET /orders/:id.
func (h *OrdersHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	order, err := h.service.GetByID(c.Context(), id, principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": order})
}

// Create POST /orders.
func (h *OrdersHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	order, err := h.service.Create(c.Context(), principal, service.OrderCreateInput{
		Origin:         req.Origin,
		Destination:    req.Destination,
		RecipientName:  req.RecipientName,
		Weight:         req.Weight,
		EstimatedPrice: req.EstimatedPrice,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": order})
}

// Update PUT /orders/:id.
func (h *OrdersHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	order, err := h.service.Update(c.Context(), id, principal, service.OrderUpdateInput{
		Origin:         req.Origin,
		Destination:    req.Destination,
		RecipientName:  req.RecipientName,
		Weight:         req.Weight,
		EstimatedPrice: req.EstimatedPrice,
		Status:         req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": order})
}

// Delete DELETE /orders/:id.
func (h *OrdersHandler) Delete(c *fiber.Ctx) error {
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
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "order deleted"}})
}

// ConvertToShipment POST /orders/:id/convert-to-shipment.
func (h *OrdersHandler) ConvertToShipment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	shipment, err := h.service.ConvertToShipment(c.Context(), id, principal)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": shipment})
}
