package handler

import (
	"errors"

	"comex-portal/internal/core/session"
	"comex-portal/internal/core/validation"
	"comex-portal/internal/features/auth/domain"
	"comex-portal/internal/features/auth/service"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for portal authentication.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
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

// Login godoc
// @Summary Log in and open a portal session
// @Description Exchanges credentials with the core system and returns the portal session id to use as bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body domain.Credentials true "Credentials"
// @Success 200 {object} domain.Login
// @Failure 401 {object} ErrorResponse
// @Failure 422 {object} FieldErrorsResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var creds domain.Credentials
	if err := c.BodyParser(&creds); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "Cuerpo de solicitud inválido",
			RayID:   c.Locals("requestid").(string),
		})
	}

	if fields := validation.Struct(creds); fields != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(FieldErrorsResponse{
			Errors: fields,
			RayID:  c.Locals("requestid").(string),
		})
	}

	login, err := h.authService.Login(c.UserContext(), creds)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(login)
}

// Logout godoc
// @Summary Close the portal session
// @Tags auth
// @Produce json
// @Success 204
// @Security BearerAuth
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sess := session.FromCtx(c)

	if err := h.authService.Logout(c.UserContext(), sess.ID); err != nil {
		return h.fail(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Me godoc
// @Summary Get the cached user profile
// @Tags auth
// @Produce json
// @Success 200 {object} object
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	sess := session.FromCtx(c)

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(sess.User)
}

// fail maps service errors to HTTP responses.
func (h *AuthHandler) fail(c *fiber.Ctx, err error) error {
	rayID := c.Locals("requestid").(string)

	if errors.Is(err, service.ErrBadCredentials) {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Message: "Correo o contraseña incorrectos",
			RayID:   rayID,
		})
	}

	return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
		Message: "Error de conexión con el sistema central",
		RayID:   rayID,
	})
}
