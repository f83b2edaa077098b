package server

import (
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// decodeParam returns a path parameter with URL escaping undone; aliases
// arrive as e.g. alice%40demailx.
func decodeParam(c *fiber.Ctx, name string) (string, error) {
	return url.QueryUnescape(c.Params(name))
}

// idParam parses the :id path parameter as a ledger id.
func idParam(c *fiber.Ctx) (uint64, error) {
	return strconv.ParseUint(c.Params("id"), 10, 64)
}
