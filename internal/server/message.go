package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/mixelka/mailvault/internal/vault"
)

// CreateMessageRequest is the body of POST /messages. The body reference
// is opaque here; the frontend applies its transform before submitting.
type CreateMessageRequest struct {
	To        string `json:"to"`
	Subject   string `json:"subject"`
	BodyRef   string `json:"body_ref"`
	Encrypted bool   `json:"encrypted"`
}

func (s *Server) handleCreateMessage(c *fiber.Ctx) error {
	var req CreateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed request body")
	}
	if req.To == "" {
		return badRequest(c, "to required")
	}

	id, err := s.vault.CreateMessage(c.Context(), caller(c), req.To,
		req.Subject, req.BodyRef, req.Encrypted)
	if err != nil {
		return s.internalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (s *Server) handleGetMessage(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, "malformed message id")
	}

	msg, err := s.vault.Message(c.Context(), id)
	if errors.Is(err, vault.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error: "message not found",
		})
	}
	if err != nil {
		return s.internalError(c, err)
	}
	return c.JSON(msg)
}
