// Package server exposes the vault operations over HTTP for the wallet
// frontend. Routes that act as a caller read the principal from the bearer
// token; pure reads are unauthenticated, matching the storage model where
// any caller may address any key.
package server

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/mixelka/mailvault/internal/auth"
	"github.com/mixelka/mailvault/internal/vault"
)

// Server is the HTTP API over a vault.
type Server struct {
	app    *fiber.App
	vault  *vault.Vault
	auth   *auth.Manager
	logger *slog.Logger
}

// New creates the API server.
func New(v *vault.Vault, a *auth.Manager, logger *slog.Logger) *Server {
	s := &Server{
		vault:  v,
		auth:   a,
		logger: logger.With("component", "api"),
	}

	app := fiber.New()
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,OPTIONS",
		AllowHeaders: "Content-Type,Authorization",
	}))

	s.app = app
	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := s.app.Group("/api/v1")

	api.Get("/stats", s.handleStats)

	// Identity registry
	api.Post("/identities", s.requireCaller, s.handleRegister)
	api.Get("/identities/alias/:principal", s.handleAliasOf)
	api.Get("/identities/principal/:alias", s.handlePrincipalOf)
	api.Get("/identities/exists/:alias", s.handleExists)

	// Message ledger
	api.Post("/messages", s.requireCaller, s.handleCreateMessage)
	api.Get("/messages/:id", s.handleGetMessage)

	// Mailbox index
	api.Post("/mailbox/deliver", s.requireCaller, s.handleDeliver)
	api.Get("/mailbox/inbox/:principal", s.handleInbox)
	api.Get("/mailbox/sent/:principal", s.handleSent)
	api.Post("/mailbox/read/:id", s.requireCaller, s.handleMarkRead)
	api.Post("/mailbox/spam/:id", s.requireCaller, s.handleMarkSpam)
	api.Post("/mailbox/archive/:id", s.requireCaller, s.handleArchive)
	api.Get("/mailbox/entry/:principal/:id", s.handleEntry)

	// Preferences
	api.Get("/prefs/spamlist/:principal", s.handleGetSpamList)
	api.Put("/prefs/spamlist", s.requireCaller, s.handleSetSpamList)
	api.Get("/prefs/inboxdays/:principal", s.handleGetMaxInboxDays)
	api.Put("/prefs/inboxdays", s.requireCaller, s.handleSetMaxInboxDays)
	api.Get("/prefs/spamdays/:principal", s.handleGetMaxSpamDays)
	api.Put("/prefs/spamdays", s.requireCaller, s.handleSetMaxSpamDays)
}

// Listen serves the API on addr, blocking until shutdown.
func (s *Server) Listen(addr string) error {
	s.logger.Info("starting http api", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) handleStats(c *fiber.Ctx) error {
	count, err := s.vault.RegisteredCount(c.Context())
	if err != nil {
		return s.internalError(c, err)
	}
	return c.JSON(fiber.Map{"registrations": count})
}
