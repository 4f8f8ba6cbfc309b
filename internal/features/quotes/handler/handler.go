package handler

import (
	"errors"

	"comex-portal/internal/core/session"
	"comex-portal/internal/features/quotes/domain"
	"comex-portal/internal/features/quotes/service"

	"github.com/gofiber/fiber/v2"
)

// QuoteHandler handles HTTP requests for the quote submission lifecycle.
type QuoteHandler struct {
	quoteService *service.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(quoteService *service.QuoteService) *QuoteHandler {
	return &QuoteHandler{
		quoteService: quoteService,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// FieldErrorsResponse represents a per-field validation failure.
type FieldErrorsResponse struct {
	// Errors maps field names to their validation messages.
	Errors map[string]string `json:"errors"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// RejectBody is the optional body for a rejection.
type RejectBody struct {
	// Reason is the importer's rejection note.
	Reason string `json:"reason"`
}

// ListMySubmissions godoc
// @Summary List the importer's quote submissions
// @Description Returns all quote submissions owned by the session's lead, with portal display statuses
// @Tags quotes
// @Produce json
// @Success 200 {array} domain.Submission
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/quotes [get]
func (h *QuoteHandler) ListMySubmissions(c *fiber.Ctx) error {
	sess := session.FromCtx(c)

	subs, err := h.quoteService.ListMySubmissions(c.UserContext(), sess)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(subs)
}

// GetSubmission godoc
// @Summary Get one quote submission
// @Tags quotes
// @Produce json
// @Param id path int true "Submission ID"
// @Success 200 {object} domain.Submission
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/quotes/{id} [get]
func (h *QuoteHandler) GetSubmission(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "Identificador inválido",
			RayID:   c.Locals("requestid").(string),
		})
	}

	sub, err := h.quoteService.GetSubmission(c.UserContext(), session.FromCtx(c), int64(id))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(sub)
}

// CreateSubmission godoc
// @Summary Submit a new quote request
// @Description Validates the request, computes weight/container/volume totals and registers it with the core system
// @Tags quotes
// @Accept json
// @Produce json
// @Param request body domain.Request true "Quote request"
// @Success 201 {object} domain.Submission
// @Failure 422 {object} FieldErrorsResponse
// @Security BearerAuth
// @Router /api/quotes [post]
func (h *QuoteHandler) CreateSubmission(c *fiber.Ctx) error {
	var req domain.Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "Cuerpo de solicitud inválido",
			RayID:   c.Locals("requestid").(string),
		})
	}

	if fields := req.Validate(); fields != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(FieldErrorsResponse{
			Errors: fields,
			RayID:  c.Locals("requestid").(string),
		})
	}

	sub, err := h.quoteService.Create(c.UserContext(), session.FromCtx(c), req)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(sub)
}

// ApproveSubmission godoc
// @Summary Approve a quoted submission
// @Tags quotes
// @Produce json
// @Param id path int true "Submission ID"
// @Success 200 {object} domain.Submission
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/quotes/{id}/approve [post]
func (h *QuoteHandler) ApproveSubmission(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "Identificador inválido",
			RayID:   c.Locals("requestid").(string),
		})
	}

	sub, err := h.quoteService.Approve(c.UserContext(), session.FromCtx(c), int64(id))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(sub)
}

// RejectSubmission godoc
// @Summary Reject a quoted submission
// @Tags quotes
// @Accept json
// @Produce json
// @Param id path int true "Submission ID"
// @Param request body RejectBody false "Rejection reason"
// @Success 200 {object} domain.Submission
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/quotes/{id}/reject [post]
func (h *QuoteHandler) RejectSubmission(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "Identificador inválido",
			RayID:   c.Locals("requestid").(string),
		})
	}

	var body RejectBody
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Message: "Cuerpo de solicitud inválido",
				RayID:   c.Locals("requestid").(string),
			})
		}
	}

	sub, err := h.quoteService.Reject(c.UserContext(), session.FromCtx(c), int64(id), body.Reason)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(sub)
}

// fail maps service errors to HTTP responses.
func (h *QuoteHandler) fail(c *fiber.Ctx, err error) error {
	rayID := c.Locals("requestid").(string)

	switch {
	case errors.Is(err, session.ErrExpired):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Message: "Sesión expirada, inicie sesión nuevamente",
			RayID:   rayID,
		})
	case errors.Is(err, service.ErrQuoteNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Message: "Cotización no encontrada",
			RayID:   rayID,
		})
	case errors.Is(err, service.ErrNotDecidable):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Message: "La cotización no está pendiente de decisión",
			RayID:   rayID,
		})
	}

	var apiErr *session.APIError
	if errors.As(err, &apiErr) {
		if len(apiErr.Fields) > 0 {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(FieldErrorsResponse{
				Errors: apiErr.Fields,
				RayID:  rayID,
			})
		}
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
			Message: apiErr.Message,
			RayID:   rayID,
		})
	}

	return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
		Message: "Error de conexión con el sistema central",
		RayID:   rayID,
	})
}
