package handler

import (
	"errors"
	"io"

	"comex-portal/internal/core/session"
	"comex-portal/internal/features/instructions/domain"
	"comex-portal/internal/features/instructions/service"

	"github.com/gofiber/fiber/v2"
)

// InstructionHandler handles HTTP requests for the shipping-instruction
// pipeline.
type InstructionHandler struct {
	instructionService *service.InstructionService
}

// NewInstructionHandler creates a new InstructionHandler.
func NewInstructionHandler(instructionService *service.InstructionService) *InstructionHandler {
	return &InstructionHandler{
		instructionService: instructionService,
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

// InitBody is the body for initializing the pipeline from a submission.
type InitBody struct {
	// QuoteSubmissionID is the approved quote submission to start from.
	QuoteSubmissionID int64 `json:"quote_submission_id"`
}

// ReferenceBody is the body for saving the forwarder's reference.
type ReferenceBody struct {
	// Reference is the forwarder's acknowledgment reference.
	Reference string `json:"reference"`
}

// Init godoc
// @Summary Initialize a shipping instruction from an approved quote
// @Description Idempotent: re-entering the wizard resumes at the derived step
// @Tags instructions
// @Accept json
// @Produce json
// @Param request body InitBody true "Approved quote submission"
// @Success 200 {object} domain.Instruction
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/instructions/init [post]
func (h *InstructionHandler) Init(c *fiber.Ctx) error {
	var body InitBody
	if err := c.BodyParser(&body); err != nil || body.QuoteSubmissionID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "Cuerpo de solicitud inválido",
			RayID:   c.Locals("requestid").(string),
		})
	}

	inst, err := h.instructionService.Init(c.UserContext(), session.FromCtx(c), body.QuoteSubmissionID)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(inst)
}

// Get godoc
// @Summary Get a shipping instruction with its wizard step
// @Tags instructions
// @Produce json
// @Param id path int true "Instruction ID"
// @Success 200 {object} domain.Instruction
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/instructions/{id} [get]
func (h *InstructionHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "Identificador inválido",
			RayID:   c.Locals("requestid").(string),
		})
	}

	inst, err := h.instructionService.Get(c.UserContext(), session.FromCtx(c), int64(id))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(inst)
}

// GetForm godoc
// @Summary Get the instruction form with AI suggestions merged
// @Tags instructions
// @Produce json
// @Param id path int true "Instruction ID"
// @Success 200 {object} domain.FormView
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/instructions/{id}/form [get]
func (h *InstructionHandler) GetForm(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "Identificador inválido",
			RayID:   c.Locals("requestid").(string),
		})
	}

	view, err := h.instructionService.GetForm(c.UserContext(), session.FromCtx(c), int64(id))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(view)
}

// SaveForm godoc
// @Summary Save a partial form update
// @Description Only the fields present in the body are updated
// @Tags instructions
// @Accept json
// @Produce json
// @Param id path int true "Instruction ID"
// @Param request body map[string]any true "Changed fields"
// @Success 200 {object} domain.Form
// @Failure 422 {object} FieldErrorsResponse
// @Security BearerAuth
// @Router /api/instructions/{id}/form [patch]
func (h *InstructionHandler) SaveForm(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "Identificador inválido",
			RayID:   c.Locals("requestid").(string),
		})
	}

	var patch map[string]any
	if err := c.BodyParser(&patch); err != nil || len(patch) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "Cuerpo de solicitud inválido",
			RayID:   c.Locals("requestid").(string),
		})
	}

	form, err := h.instructionService.SaveForm(c.UserContext(), session.FromCtx(c), int64(id), patch)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(form)
}

// UploadDocument godoc
// @Summary Upload a shipping document
// @Tags instructions
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Instruction ID"
// @Param file formData file true "Document file"
// @Param document_type formData string true "Document type"
// @Success 201 {object} domain.Document
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/instructions/{id}/documents [post]
func (h *InstructionHandler) UploadDocument(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "Identificador inválido",
			RayID:   c.Locals("requestid").(string),
		})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "Adjunte un archivo",
			RayID:   c.Locals("requestid").(string),
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "No se pudo leer el archivo",
			RayID:   c.Locals("requestid").(string),
		})
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "No se pudo leer el archivo",
			RayID:   c.Locals("requestid").(string),
		})
	}

	doc := domain.DocumentUpload{
		Type:     domain.DocumentType(c.FormValue("document_type")),
		FileName: fileHeader.Filename,
		Content:  content,
	}

	uploaded, err := h.instructionService.UploadDocument(c.UserContext(), session.FromCtx(c), int64(id), doc)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(uploaded)
}

// Finalize godoc
// @Summary Validate and lock the instruction form
// @Tags instructions
// @Produce json
// @Param id path int true "Instruction ID"
// @Success 200 {object} domain.Instruction
// @Failure 422 {object} FieldErrorsResponse
// @Security BearerAuth
// @Router /api/instructions/{id}/finalize [post]
func (h *InstructionHandler) Finalize(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "Identificador inválido",
			RayID:   c.Locals("requestid").(string),
		})
	}

	inst, err := h.instructionService.Finalize(c.UserContext(), session.FromCtx(c), int64(id))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(inst)
}

// GenerateRO godoc
// @Summary Generate the routing order
// @Description Refused permanently once a routing order number exists
// @Tags instructions
// @Produce json
// @Param id path int true "Instruction ID"
// @Success 200 {object} domain.Instruction
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/instructions/{id}/generate-ro [post]
func (h *InstructionHandler) GenerateRO(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "Identificador inválido",
			RayID:   c.Locals("requestid").(string),
		})
	}

	inst, err := h.instructionService.GenerateRO(c.UserContext(), session.FromCtx(c), int64(id))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(inst)
}

// NotifyForwarder godoc
// @Summary Notify the freight forwarder of the routing order
// @Tags instructions
// @Produce json
// @Param id path int true "Instruction ID"
// @Success 200 {object} domain.Instruction
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/instructions/{id}/notify-forwarder [post]
func (h *InstructionHandler) NotifyForwarder(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "Identificador inválido",
			RayID:   c.Locals("requestid").(string),
		})
	}

	inst, err := h.instructionService.NotifyForwarder(c.UserContext(), session.FromCtx(c), int64(id))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(inst)
}

// SaveForwarderReference godoc
// @Summary Save the forwarder's acknowledgment reference
// @Tags instructions
// @Accept json
// @Produce json
// @Param id path int true "Instruction ID"
// @Param request body ReferenceBody true "Forwarder reference"
// @Success 200 {object} domain.Instruction
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/instructions/{id}/forwarder-reference [put]
func (h *InstructionHandler) SaveForwarderReference(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "Identificador inválido",
			RayID:   c.Locals("requestid").(string),
		})
	}

	var body ReferenceBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "Cuerpo de solicitud inválido",
			RayID:   c.Locals("requestid").(string),
		})
	}

	inst, err := h.instructionService.SaveForwarderReference(c.UserContext(), session.FromCtx(c), int64(id), body.Reference)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(inst)
}

// fail maps service errors to HTTP responses.
func (h *InstructionHandler) fail(c *fiber.Ctx, err error) error {
	rayID := c.Locals("requestid").(string)

	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(FieldErrorsResponse{
			Errors: verr.Fields,
			RayID:  rayID,
		})
	}

	switch {
	case errors.Is(err, session.ErrExpired):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Message: "Sesión expirada, inicie sesión nuevamente",
			RayID:   rayID,
		})
	case errors.Is(err, service.ErrInstructionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Message: "Instrucción de embarque no encontrada",
			RayID:   rayID,
		})
	case errors.Is(err, service.ErrQuoteNotApproved):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Message: "La cotización aún no está aprobada",
			RayID:   rayID,
		})
	case errors.Is(err, service.ErrROAlreadyGenerated):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Message: "El routing order ya fue generado",
			RayID:   rayID,
		})
	case errors.Is(err, service.ErrRONotReady):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Message: "Finalice el formulario antes de generar el routing order",
			RayID:   rayID,
		})
	case errors.Is(err, service.ErrNotifyNotReady):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Message: "Genere el routing order antes de notificar al forwarder",
			RayID:   rayID,
		})
	case errors.Is(err, service.ErrConfirmNotReady):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Message: "Notifique al forwarder antes de registrar su referencia",
			RayID:   rayID,
		})
	case errors.Is(err, service.ErrInvalidDocumentType):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "Tipo de documento no válido",
			RayID:   rayID,
		})
	case errors.Is(err, service.ErrEmptyReference):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "Ingrese la referencia del forwarder",
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
