// Package imapgw is a read-only IMAP view over the mailbox index, so a
// stock mail client can browse a wallet's mail. Login is alias plus API
// token; the only writes allowed through are the monotone status flags.
package imapgw

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/backend"
	imapserver "github.com/emersion/go-imap/server"

	"github.com/mixelka/mailvault/internal/auth"
	"github.com/mixelka/mailvault/internal/vault"
)

// Mailbox names served by the gateway.
const (
	mailboxInbox = "INBOX"
	mailboxSent  = "Sent"
)

// ErrReadOnly is returned for every mutating IMAP operation the vault has
// no counterpart for.
var ErrReadOnly = errors.New("mailvault: mailbox is read-only")

// Backend implements backend.Backend over a vault.
type Backend struct {
	vault  *vault.Vault
	auth   *auth.Manager
	logger *slog.Logger
}

// NewBackend creates the IMAP backend.
func NewBackend(v *vault.Vault, a *auth.Manager, logger *slog.Logger) *Backend {
	return &Backend{
		vault:  v,
		auth:   a,
		logger: logger.With("component", "imap"),
	}
}

// Login authenticates with an alias as username and an API token as
// password. The token subject must be the principal the alias is bound to.
func (b *Backend) Login(_ *imap.ConnInfo, username, password string) (backend.User, error) {
	ctx := context.Background()

	principal, err := b.vault.PrincipalOf(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve alias: %w", err)
	}
	if principal == "" {
		return nil, backend.ErrInvalidCredentials
	}

	tokenPrincipal, err := b.auth.Verify(password)
	if err != nil || tokenPrincipal != principal {
		return nil, backend.ErrInvalidCredentials
	}

	b.logger.Info("imap login", "alias", username)
	return &User{backend: b, alias: username, principal: principal}, nil
}

// Serve runs an IMAP server on addr until the listener fails or is closed.
func Serve(addr string, b *Backend) error {
	s := imapserver.New(b)
	s.Addr = addr
	s.AllowInsecureAuth = true // TLS termination is the deployment's job

	b.logger.Info("starting imap gateway", "addr", addr)
	return s.ListenAndServe()
}

// User implements backend.User for one authenticated principal.
type User struct {
	backend   *Backend
	alias     string
	principal string
}

// Username returns the alias the session logged in with.
func (u *User) Username() string {
	return u.alias
}

// ListMailboxes lists the two folders the index maintains.
func (u *User) ListMailboxes(subscribed bool) ([]backend.Mailbox, error) {
	return []backend.Mailbox{
		u.mailbox(mailboxInbox),
		u.mailbox(mailboxSent),
	}, nil
}

// GetMailbox returns a folder by name.
func (u *User) GetMailbox(name string) (backend.Mailbox, error) {
	switch name {
	case mailboxInbox, mailboxSent:
		return u.mailbox(name), nil
	default:
		return nil, backend.ErrNoSuchMailbox
	}
}

// CreateMailbox is not supported; the folder set is fixed.
func (u *User) CreateMailbox(name string) error {
	return ErrReadOnly
}

// DeleteMailbox is not supported.
func (u *User) DeleteMailbox(name string) error {
	return ErrReadOnly
}

// RenameMailbox is not supported.
func (u *User) RenameMailbox(existingName, newName string) error {
	return ErrReadOnly
}

// Logout ends the session.
func (u *User) Logout() error {
	return nil
}

func (u *User) mailbox(name string) *Mailbox {
	return &Mailbox{backend: u.backend, principal: u.principal, name: name}
}
