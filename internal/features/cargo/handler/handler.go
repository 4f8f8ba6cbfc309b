package handler

import (
	"errors"

	"comex-portal/internal/core/session"
	"comex-portal/internal/features/cargo/service"

	"github.com/gofiber/fiber/v2"
)

// CargoHandler handles HTTP requests for cargo tracking. Read-only.
type CargoHandler struct {
	cargoService *service.CargoService
}

// NewCargoHandler creates a new CargoHandler.
func NewCargoHandler(cargoService *service.CargoService) *CargoHandler {
	return &CargoHandler{
		cargoService: cargoService,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// ListCargo godoc
// @Summary List tracked shipments with milestone progress
// @Tags cargo
// @Produce json
// @Success 200 {array} domain.Cargo
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/cargo [get]
func (h *CargoHandler) ListCargo(c *fiber.Ctx) error {
	cargos, err := h.cargoService.ListCargo(c.UserContext(), session.FromCtx(c))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(cargos)
}

// GetCargo godoc
// @Summary Get one shipment with its full milestone timeline
// @Tags cargo
// @Produce json
// @Param id path int true "Cargo ID"
// @Success 200 {object} domain.Cargo
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/cargo/{id} [get]
func (h *CargoHandler) GetCargo(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "Identificador inválido",
			RayID:   c.Locals("requestid").(string),
		})
	}

	cargo, err := h.cargoService.GetCargo(c.UserContext(), session.FromCtx(c), int64(id))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(cargo)
}

// fail maps service errors to HTTP responses.
func (h *CargoHandler) fail(c *fiber.Ctx, err error) error {
	rayID := c.Locals("requestid").(string)

	switch {
	case errors.Is(err, session.ErrExpired):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Message: "Sesión expirada, inicie sesión nuevamente",
			RayID:   rayID,
		})
	case errors.Is(err, service.ErrCargoNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Message: "Carga no encontrada",
			RayID:   rayID,
		})
	}

	return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
		Message: "Error de conexión con el sistema central",
		RayID:   rayID,
	})
}
