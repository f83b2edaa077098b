package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/mixelka/mailvault/internal/vault"
)

// ErrorResponse is the error payload of the API.
type ErrorResponse struct {
	Error string `json:"error"`
}

// vaultError maps core errors to responses. Uniqueness violations are
// conflicts; everything else is internal.
func (s *Server) vaultError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, vault.ErrAlreadyRegistered):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error: "wallet already has an alias registered",
		})
	case errors.Is(err, vault.ErrAliasTaken):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error: "alias already taken",
		})
	default:
		return s.internalError(c, err)
	}
}

func (s *Server) internalError(c *fiber.Ctx, err error) error {
	s.logger.Error("request failed", "error", err, "path", c.Path())
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error: "internal error",
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msg})
}
