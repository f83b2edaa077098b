package server

import (
	"github.com/gofiber/fiber/v2"
)

// SpamListRequest is the body of PUT /prefs/spamlist. The stored list is
// replaced wholesale; incremental edits are read-modify-write upstream.
type SpamListRequest struct {
	Addresses []string `json:"addresses"`
}

// RetentionRequest is the body of the retention PUTs. Values are stored as
// given, unvalidated; nothing in the vault acts on them.
type RetentionRequest struct {
	Days int64 `json:"days"`
}

func (s *Server) handleGetSpamList(c *fiber.Ctx) error {
	addrs, err := s.vault.SpamList(c.Context(), c.Params("principal"))
	if err != nil {
		return s.internalError(c, err)
	}
	return c.JSON(fiber.Map{"addresses": addrs})
}

func (s *Server) handleSetSpamList(c *fiber.Ctx) error {
	var req SpamListRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed request body")
	}

	owner := caller(c)
	if err := s.vault.SetSpamList(c.Context(), owner, req.Addresses); err != nil {
		return s.internalError(c, err)
	}
	return c.JSON(fiber.Map{"addresses": req.Addresses})
}

func (s *Server) handleGetMaxInboxDays(c *fiber.Ctx) error {
	days, err := s.vault.MaxInboxDays(c.Context(), c.Params("principal"))
	if err != nil {
		return s.internalError(c, err)
	}
	return c.JSON(fiber.Map{"days": days})
}

func (s *Server) handleSetMaxInboxDays(c *fiber.Ctx) error {
	var req RetentionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed request body")
	}

	if err := s.vault.SetMaxInboxDays(c.Context(), caller(c), req.Days); err != nil {
		return s.internalError(c, err)
	}
	return c.JSON(fiber.Map{"days": req.Days})
}

func (s *Server) handleGetMaxSpamDays(c *fiber.Ctx) error {
	days, err := s.vault.MaxSpamDays(c.Context(), c.Params("principal"))
	if err != nil {
		return s.internalError(c, err)
	}
	return c.JSON(fiber.Map{"days": days})
}

func (s *Server) handleSetMaxSpamDays(c *fiber.Ctx) error {
	var req RetentionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed request body")
	}

	if err := s.vault.SetMaxSpamDays(c.Context(), caller(c), req.Days); err != nil {
		return s.internalError(c, err)
	}
	return c.JSON(fiber.Map{"days": req.Days})
}
