package vault

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/mixelka/mailvault/internal/event"
	"github.com/mixelka/mailvault/internal/kv"
	"github.com/mixelka/mailvault/pkg/models"
)

// Deliver appends id to from's Sent list and to's Inbox list, then creates
// the recipient's status entry with all flags false. The entry is only
// created if absent, so a repeated delivery of the same id appends
// duplicate list items but never resets flags. Deliver does not check that
// the message exists, that the recipient is registered or that the sender
// is blocked; those are the caller's concerns.
func (v *Vault) Deliver(ctx context.Context, from, to string, id uint64) error {
	v.boxMu.Lock()
	defer v.boxMu.Unlock()

	if err := v.appendFolder(ctx, keySent, keySentCount, from, id); err != nil {
		return fmt.Errorf("failed to append to sent list: %w", err)
	}
	if err := v.appendFolder(ctx, keyInbox, keyInboxCount, to, id); err != nil {
		return fmt.Errorf("failed to append to inbox list: %w", err)
	}

	key := entryKey(to, id)
	ok, err := v.kv.Has(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to check mailbox entry: %w", err)
	}
	if !ok {
		entry := models.DefaultEntry(to, id)
		if err := v.kv.Set(ctx, key, []byte(entry.Record())); err != nil {
			return fmt.Errorf("failed to create mailbox entry: %w", err)
		}
	}

	v.publish(ctx, event.Event{
		Kind:      event.KindMessageDelivered,
		Principal: from,
		Peer:      to,
		MessageID: id,
		Text:      fmt.Sprintf("Message sent: %d from %s to %s", id, from, to),
	})
	return nil
}

// Inbox returns owner's inbox ids in delivery order, duplicates included.
// Filtering by read/spam/archived state is a presentation concern applied
// over this raw list.
func (v *Vault) Inbox(ctx context.Context, owner string) ([]uint64, error) {
	return v.folder(ctx, keyInbox, keyInboxCount, owner)
}

// Sent returns owner's sent ids in delivery order, duplicates included.
func (v *Vault) Sent(ctx context.Context, owner string) ([]uint64, error) {
	return v.folder(ctx, keySent, keySentCount, owner)
}

// MarkRead sets the read flag on (owner, id). It reports whether an entry
// existed; a missing entry is left missing and is not an error.
func (v *Vault) MarkRead(ctx context.Context, owner string, id uint64) (bool, error) {
	return v.setFlag(ctx, owner, id, flagRead, event.KindMessageRead,
		fmt.Sprintf("Message marked as read: %d", id))
}

// MarkSpam sets the spam flag on (owner, id), with MarkRead's semantics.
func (v *Vault) MarkSpam(ctx context.Context, owner string, id uint64) (bool, error) {
	return v.setFlag(ctx, owner, id, flagSpam, event.KindMessageSpam,
		fmt.Sprintf("Message marked as spam: %d", id))
}

// Archive sets the archived flag on (owner, id), with MarkRead's semantics.
func (v *Vault) Archive(ctx context.Context, owner string, id uint64) (bool, error) {
	return v.setFlag(ctx, owner, id, flagArchived, event.KindMessageArchived,
		fmt.Sprintf("Message archived: %d", id))
}

// Entry returns the status flags for (owner, id). If no delivery ever
// created the entry, the all-false default is returned; the two cases are
// indistinguishable from this call alone.
func (v *Vault) Entry(ctx context.Context, owner string, id uint64) (*models.MailboxEntry, error) {
	b, err := v.kv.Get(ctx, entryKey(owner, id))
	if errors.Is(err, kv.ErrNotFound) {
		return models.DefaultEntry(owner, id), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mailbox entry: %w", err)
	}
	return models.ParseEntryRecord(owner, id, string(b))
}

// Flag positions within the entry record. Order is load-bearing.
const (
	flagRead = iota
	flagArchived
	flagSpam
)

func entryKey(owner string, id uint64) string {
	return keyInboxEntry + owner + "_" + strconv.FormatUint(id, 10)
}

func itemKey(prefix, owner string, seq uint64) string {
	return prefix + owner + "_" + strconv.FormatUint(seq, 10)
}

// appendFolder appends one id to an (owner, seq)-keyed list. Two key
// writes; callers hold boxMu.
func (v *Vault) appendFolder(ctx context.Context, prefix, countPrefix, owner string, id uint64) error {
	n, err := v.getUint(ctx, countPrefix+owner, 0)
	if err != nil {
		return err
	}
	if err := v.setUint(ctx, itemKey(prefix, owner, n), id); err != nil {
		return err
	}
	return v.setUint(ctx, countPrefix+owner, n+1)
}

func (v *Vault) folder(ctx context.Context, prefix, countPrefix, owner string) ([]uint64, error) {
	n, err := v.getUint(ctx, countPrefix+owner, 0)
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, n)
	for seq := uint64(0); seq < n; seq++ {
		id, err := v.getUint(ctx, itemKey(prefix, owner, seq), 0)
		if err != nil {
			return nil, fmt.Errorf("failed to read folder item %d: %w", seq, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// setFlag flips one entry flag to true without touching the others. A
// missing entry is a no-op that reports false and writes nothing.
func (v *Vault) setFlag(ctx context.Context, owner string, id uint64, pos int, kind event.Kind, text string) (bool, error) {
	v.boxMu.Lock()
	defer v.boxMu.Unlock()

	b, err := v.kv.Get(ctx, entryKey(owner, id))
	if errors.Is(err, kv.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get mailbox entry: %w", err)
	}

	entry, err := models.ParseEntryRecord(owner, id, string(b))
	if err != nil {
		return false, err
	}
	switch pos {
	case flagRead:
		entry.IsRead = true
	case flagArchived:
		entry.IsArchived = true
	case flagSpam:
		entry.IsSpam = true
	}

	if err := v.kv.Set(ctx, entryKey(owner, id), []byte(entry.Record())); err != nil {
		return false, fmt.Errorf("failed to update mailbox entry: %w", err)
	}

	v.publish(ctx, event.Event{
		Kind:      kind,
		Principal: owner,
		MessageID: id,
		Text:      text,
	})
	return true, nil
}
