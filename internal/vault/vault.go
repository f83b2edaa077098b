// Package vault is the persistent storage core: the identity registry, the
// append-only message ledger, the per-recipient mailbox index and the
// preference store, all laid out over a flat key-value byte store.
package vault

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/mixelka/mailvault/internal/event"
	"github.com/mixelka/mailvault/internal/kv"
)

// Storage key prefixes. The layouts of the values behind these keys are
// shared with every other component of the system and must not change.
const (
	keyEmailByAddr   = "email_by_addr_" // + principal -> alias
	keyAddrByEmail   = "addr_by_email_" // + alias -> principal
	keyEmailCount    = "email_count"    // -> decimal count of registrations
	keyMessage       = "msg_"           // + id -> message record
	keyNextMessageID = "next_msg_id"    // -> decimal next id
	keyInboxEntry    = "inbox_entry_"   // + owner + "_" + id -> entry record
	keySpamList      = "spam_list_"     // + owner -> comma-joined principals
	keyMaxInboxDays  = "max_inbox_days_" // + owner -> decimal days
	keyMaxSpamDays   = "max_spam_days_"  // + owner -> decimal days

	// Folder lists are stored one item per key plus a count, so appends and
	// random access stay O(1) regardless of list length.
	keyInbox      = "inbox_"       // + owner + "_" + seq -> decimal id
	keySent       = "sent_"        // + owner + "_" + seq -> decimal id
	keyInboxCount = "inbox_count_" // + owner -> decimal length
	keySentCount  = "sent_count_"  // + owner -> decimal length

	keyInitialized = "vault_initialized"
)

// ErrNotFound is returned when a queried record does not exist.
var ErrNotFound = errors.New("record not found")

// Vault is the aggregate over all four storage components. Multi-key write
// sequences are serialized per concern with a mutex, because the backing
// store only guarantees single-key atomicity; reads stay lock-free.
type Vault struct {
	kv     kv.Store
	bus    *event.Bus
	logger *slog.Logger
	domain string // alias domain, e.g. "demailx"

	regMu sync.Mutex // registry: check-both-then-write-both
	idMu  sync.Mutex // ledger: counter read-advance-write
	boxMu sync.Mutex // mailbox: folder appends and entry creation
}

// New creates a vault over the given store. domain is the alias domain
// appended to registered usernames.
func New(store kv.Store, bus *event.Bus, logger *slog.Logger, domain string) *Vault {
	return &Vault{
		kv:     store,
		bus:    bus,
		logger: logger.With("component", "vault"),
		domain: domain,
	}
}

// Bootstrap performs the one-time initialization of the global counters.
// It is guarded by a marker key and safe to call on every startup; once a
// deployment is initialized it never touches the counters again.
func (v *Vault) Bootstrap(ctx context.Context) error {
	ok, err := v.kv.Has(ctx, keyInitialized)
	if err != nil {
		return fmt.Errorf("failed to check init marker: %w", err)
	}
	if ok {
		return nil
	}

	if err := v.kv.Set(ctx, keyNextMessageID, []byte("1")); err != nil {
		return fmt.Errorf("failed to init message counter: %w", err)
	}
	if err := v.kv.Set(ctx, keyEmailCount, []byte("0")); err != nil {
		return fmt.Errorf("failed to init registration counter: %w", err)
	}
	if err := v.kv.Set(ctx, keyInitialized, []byte("1")); err != nil {
		return fmt.Errorf("failed to set init marker: %w", err)
	}

	v.logger.Info("vault initialized", "domain", v.domain)
	return nil
}

// getString reads a key and maps a miss to the empty string, which is the
// "no value" convention of the stored layout.
func (v *Vault) getString(ctx context.Context, key string) (string, error) {
	b, err := v.kv.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// getUint reads a decimal counter, returning def on a miss.
func (v *Vault) getUint(ctx context.Context, key string, def uint64) (uint64, error) {
	s, err := v.getString(ctx, key)
	if err != nil {
		return 0, err
	}
	if s == "" {
		return def, nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt counter %s: %w", key, err)
	}
	return n, nil
}

func (v *Vault) setUint(ctx context.Context, key string, n uint64) error {
	return v.kv.Set(ctx, key, []byte(strconv.FormatUint(n, 10)))
}

func (v *Vault) publish(ctx context.Context, e event.Event) {
	if v.bus != nil {
		v.bus.Publish(ctx, e)
	}
}
