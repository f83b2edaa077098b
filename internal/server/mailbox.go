package server

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// DeliverRequest is the body of POST /mailbox/deliver. The caller is the
// sender; create and deliver are deliberately two calls, and a message
// created but never delivered stays inert in the ledger.
type DeliverRequest struct {
	To string `json:"to"`
	ID uint64 `json:"id"`
}

// EntryResponse carries the status flags of one (owner, message) pair.
type EntryResponse struct {
	Read     bool `json:"read"`
	Archived bool `json:"archived"`
	Spam     bool `json:"spam"`
}

func (s *Server) handleDeliver(c *fiber.Ctx) error {
	var req DeliverRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed request body")
	}
	if req.To == "" || req.ID == 0 {
		return badRequest(c, "to and id required")
	}

	if err := s.vault.Deliver(c.Context(), caller(c), req.To, req.ID); err != nil {
		return s.internalError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleInbox(c *fiber.Ctx) error {
	ids, err := s.vault.Inbox(c.Context(), c.Params("principal"))
	if err != nil {
		return s.internalError(c, err)
	}
	return c.JSON(fiber.Map{"ids": ids})
}

func (s *Server) handleSent(c *fiber.Ctx) error {
	ids, err := s.vault.Sent(c.Context(), c.Params("principal"))
	if err != nil {
		return s.internalError(c, err)
	}
	return c.JSON(fiber.Map{"ids": ids})
}

// Flag handlers respond 204 whether or not an entry existed; a missing
// entry is a silent no-op at this boundary and collaborators must not read
// 204 as confirmation that anything changed.

func (s *Server) handleMarkRead(c *fiber.Ctx) error {
	return s.setFlag(c, s.vault.MarkRead)
}

func (s *Server) handleMarkSpam(c *fiber.Ctx) error {
	return s.setFlag(c, s.vault.MarkSpam)
}

func (s *Server) handleArchive(c *fiber.Ctx) error {
	return s.setFlag(c, s.vault.Archive)
}

func (s *Server) setFlag(c *fiber.Ctx, op func(ctx context.Context, owner string, id uint64) (bool, error)) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, "malformed message id")
	}

	if _, err := op(c.Context(), caller(c), id); err != nil {
		return s.internalError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleEntry(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, "malformed message id")
	}

	entry, err := s.vault.Entry(c.Context(), c.Params("principal"), id)
	if err != nil {
		return s.internalError(c, err)
	}
	return c.JSON(EntryResponse{
		Read:     entry.IsRead,
		Archived: entry.IsArchived,
		Spam:     entry.IsSpam,
	})
}
