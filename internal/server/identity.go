package server

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRequest is the body of POST /identities.
type RegisterRequest struct {
	Username string `json:"username"` // local part, without @domain
}

// IdentityResponse carries an alias binding.
type IdentityResponse struct {
	Principal string `json:"principal"`
	Alias     string `json:"alias"`
}

func (s *Server) handleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil || req.Username == "" {
		return badRequest(c, "username required")
	}

	principal := caller(c)
	alias, err := s.vault.Register(c.Context(), principal, req.Username)
	if err != nil {
		return s.vaultError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(IdentityResponse{
		Principal: principal,
		Alias:     alias,
	})
}

func (s *Server) handleAliasOf(c *fiber.Ctx) error {
	alias, err := s.vault.AliasOf(c.Context(), c.Params("principal"))
	if err != nil {
		return s.internalError(c, err)
	}
	// Empty alias means no binding; misses are not errors.
	return c.JSON(fiber.Map{"alias": alias})
}

func (s *Server) handlePrincipalOf(c *fiber.Ctx) error {
	alias, err := decodeParam(c, "alias")
	if err != nil {
		return badRequest(c, "malformed alias")
	}
	principal, err := s.vault.PrincipalOf(c.Context(), alias)
	if err != nil {
		return s.internalError(c, err)
	}
	return c.JSON(fiber.Map{"principal": principal})
}

func (s *Server) handleExists(c *fiber.Ctx) error {
	alias, err := decodeParam(c, "alias")
	if err != nil {
		return badRequest(c, "malformed alias")
	}
	exists, err := s.vault.Exists(c.Context(), alias)
	if err != nil {
		return s.internalError(c, err)
	}
	return c.JSON(fiber.Map{"exists": exists})
}
