package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	"github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// UsersHandler exposes admin profile management endpoints.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// List GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	profiles, err := h.users.ListProfiles(c.UserContext(), auth.IdentityFromContext(c))
	if err != nil {
		return err
	}
	items := make([]dto.ProfileResponse, 0, len(profiles))
	for i := range profiles {
		items = append(items, profileResponse(&profiles[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// UpdateRole PATCH /users/:id/role.
func (h *UsersHandler) UpdateRole(c *fiber.Ctx) error {
	var req dto.UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	if err := h.users.UpdateRole(c.UserContext(), auth.IdentityFromContext(c), c.Params("id"), domain.Role(req.Role)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"user_id": c.Params("id"), "role": req.Role}})
}

func profileResponse(profile *domain.UserProfile) dto.ProfileResponse {
	return dto.ProfileResponse{
		ID:        profile.ID,
		Email:     profile.Email,
		FullName:  profile.FullName,
		Role:      profile.Role,
		CreatedAt: profile.CreatedAt,
		UpdatedAt: profile.UpdatedAt,
	}
}
