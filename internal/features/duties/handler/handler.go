package handler

import (
	"errors"

	"comex-portal/internal/features/duties/domain"
	"comex-portal/internal/features/duties/service"

	"github.com/gofiber/fiber/v2"
)

// DutyHandler handles HTTP requests for customs duty estimates.
type DutyHandler struct {
	dutyService *service.DutyService
}

// NewDutyHandler creates a new DutyHandler.
func NewDutyHandler(dutyService *service.DutyService) *DutyHandler {
	return &DutyHandler{
		dutyService: dutyService,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// Estimate godoc
// @Summary Estimate customs duties for an import
// @Description Resolves the ad-valorem rate for the tariff subheading and returns the SENAE pre-liquidation breakdown
// @Tags duties
// @Accept json
// @Produce json
// @Param request body domain.EstimateRequest true "Cost inputs"
// @Success 200 {object} domain.Estimate
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/duties/estimate [post]
func (h *DutyHandler) Estimate(c *fiber.Ctx) error {
	var req domain.EstimateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "Cuerpo de solicitud inválido",
			RayID:   c.Locals("requestid").(string),
		})
	}

	if req.HSCode == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
			Message: "Ingrese la subpartida arancelaria",
			RayID:   c.Locals("requestid").(string),
		})
	}

	est, err := h.dutyService.Estimate(c.UserContext(), req)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(est)
}

// fail maps service errors to HTTP responses.
func (h *DutyHandler) fail(c *fiber.Ctx, err error) error {
	rayID := c.Locals("requestid").(string)

	switch {
	case errors.Is(err, service.ErrInvalidValues):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
			Message: "Ingrese un valor CIF o FOB mayor a cero",
			RayID:   rayID,
		})
	case errors.Is(err, service.ErrTariffNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Message: "Subpartida arancelaria no encontrada",
			RayID:   rayID,
		})
	}

	return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
		Message: "No se pudo consultar el arancel, intente nuevamente",
		RayID:   rayID,
	})
}
