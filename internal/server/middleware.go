package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// callerKey is the locals key holding the authenticated principal.
const callerKey = "principal"

// requireCaller resolves the caller principal from the bearer token. A
// missing or invalid token aborts the request before any state change.
func (s *Server) requireCaller(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error: "unauthenticated",
		})
	}

	principal, err := s.auth.Verify(token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error: "unauthenticated",
		})
	}

	c.Locals(callerKey, principal)
	return c.Next()
}

// caller returns the authenticated principal set by requireCaller.
func caller(c *fiber.Ctx) string {
	p, _ := c.Locals(callerKey).(string)
	return p
}
