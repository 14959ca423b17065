package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/identity"
	"github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

const identityKey = "auth_identity"

// Middleware resolves bearer tokens into a caller Identity. Requests without
// a token continue as anonymous; route gates and the ticket guard decide what
// anonymous callers may do.
type Middleware struct {
	tokens   *TokenManager
	resolver *identity.Resolver
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, resolver *identity.Resolver) *Middleware {
	return &Middleware{tokens: tokens, resolver: resolver}
}

// Handle attaches the resolved Identity to the request context.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		c.Locals(identityKey, domain.Anonymous())
		return c.Next()
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return errorutil.NewUnauthenticated("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return errorutil.NewUnauthenticated("invalid token")
	}

	ident := m.resolver.Resolve(c.UserContext(), claims.UserID, claims.Email)
	c.Locals(identityKey, ident)
	return c.Next()
}

// IdentityFromContext retrieves the caller identity, anonymous when absent.
func IdentityFromContext(c *fiber.Ctx) domain.Identity {
	val := c.Locals(identityKey)
	if val == nil {
		return domain.Anonymous()
	}
	ident, ok := val.(domain.Identity)
	if !ok {
		return domain.Anonymous()
	}
	return ident
}
