// Package event carries the notification stream the vault emits on every
// state change: registrations, message creation, delivery and flag updates.
package event

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind identifies what happened.
type Kind string

const (
	KindIdentityRegistered Kind = "identity_registered"
	KindMessageCreated     Kind = "message_created"
	KindMessageDelivered   Kind = "message_delivered"
	KindMessageRead        Kind = "message_read"
	KindMessageSpam        Kind = "message_spam"
	KindMessageArchived    Kind = "message_archived"
	KindSpamListUpdated    Kind = "spam_list_updated"
	KindRetentionUpdated   Kind = "retention_updated"
)

// Event is a single notification.
type Event struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Principal string    `json:"principal,omitempty"`  // acting principal
	Peer      string    `json:"peer,omitempty"`       // counterparty, if any
	MessageID uint64    `json:"message_id,omitempty"` // ledger id, if any
	Text      string    `json:"text"`                 // human-readable summary
	At        time.Time `json:"at"`
}

// Sink receives published events. Notify must not block; slow sinks are
// expected to buffer internally.
type Sink interface {
	Notify(ctx context.Context, e Event)
}

// Bus fans events out to subscribed sinks. Every event is also logged.
type Bus struct {
	mu     sync.RWMutex
	sinks  []Sink
	logger *slog.Logger
}

// NewBus creates a bus.
func NewBus(logger *slog.Logger) *Bus {
	return &Bus{logger: logger.With("component", "events")}
}

// Subscribe adds a sink. Sinks are not removable; subscription happens at
// startup only.
func (b *Bus) Subscribe(s Sink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sinks = append(b.sinks, s)
}

// Publish stamps the event with an id and time and delivers it.
func (b *Bus) Publish(ctx context.Context, e Event) {
	e.ID = uuid.NewString()
	e.At = time.Now()

	b.logger.Info(e.Text,
		"event", string(e.Kind),
		"event_id", e.ID,
		"principal", e.Principal,
		"message_id", e.MessageID,
	)

	b.mu.RLock()
	sinks := b.sinks
	b.mu.RUnlock()

	for _, s := range sinks {
		s.Notify(ctx, e)
	}
}
