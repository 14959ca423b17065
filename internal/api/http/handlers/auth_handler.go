package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
	"github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// AuthHandler exposes signup/signin/signout endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// SignUp handles POST /auth/signup.
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return errorutil.NewValidationError("email and password required", nil)
	}

	profile, token, exp, err := h.auth.SignUp(c.UserContext(), req.Email, req.Password, req.FullName)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"user": profileResponse(profile),
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// SignIn handles POST /auth/signin.
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return errorutil.NewValidationError("email and password required", nil)
	}

	profile, token, exp, err := h.auth.SignIn(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": profileResponse(profile),
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// SignOut handles POST /auth/signout.
func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	token := ""
	if header := c.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 {
			token = parts[1]
		}
	}
	if err := h.auth.SignOut(c.UserContext(), token); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
