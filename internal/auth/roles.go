package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// RequireAuthenticated rejects anonymous callers.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if IdentityFromContext(c).IsAnonymous() {
			return errorutil.NewUnauthenticated("authentication required")
		}
		return c.Next()
	}
}

// RequireSupport admits support and admin callers only.
func RequireSupport() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ident := IdentityFromContext(c)
		if ident.IsAnonymous() {
			return errorutil.NewUnauthenticated("authentication required")
		}
		if !ident.IsSupport() {
			return errorutil.NewPermissionDenied("support role required")
		}
		return c.Next()
	}
}

// RequireAdmin admits admin callers only.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ident := IdentityFromContext(c)
		if ident.IsAnonymous() {
			return errorutil.NewUnauthenticated("authentication required")
		}
		if !ident.IsAdmin() {
			return errorutil.NewPermissionDenied("admin role required")
		}
		return c.Next()
	}
}
