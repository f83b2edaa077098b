package vault

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/mixelka/mailvault/internal/event"
	"github.com/mixelka/mailvault/internal/kv"
	"github.com/mixelka/mailvault/pkg/models"
)

// CreateMessage appends an immutable record to the ledger and returns its
// id. Ids come from a single global counter starting at 1 and are never
// reused; creating a message does not deliver it (see Deliver), so a
// record with no corresponding delivery is inert but valid.
func (v *Vault) CreateMessage(ctx context.Context, from, to, subject, bodyRef string, encrypted bool) (uint64, error) {
	v.idMu.Lock()
	defer v.idMu.Unlock()

	id, err := v.getUint(ctx, keyNextMessageID, 1)
	if err != nil {
		return 0, err
	}
	if err := v.setUint(ctx, keyNextMessageID, id+1); err != nil {
		return 0, fmt.Errorf("failed to advance message counter: %w", err)
	}

	msg := &models.Message{
		ID:        id,
		From:      from,
		To:        to,
		Subject:   subject,
		BodyRef:   bodyRef,
		Timestamp: uint64(time.Now().Unix()),
		Encrypted: encrypted,
	}
	key := keyMessage + strconv.FormatUint(id, 10)
	if err := v.kv.Set(ctx, key, []byte(msg.Record())); err != nil {
		return 0, fmt.Errorf("failed to store message: %w", err)
	}

	v.publish(ctx, event.Event{
		Kind:      event.KindMessageCreated,
		Principal: from,
		Peer:      to,
		MessageID: id,
		Text:      fmt.Sprintf("Message created: %d from %s to %s", id, from, to),
	})
	return id, nil
}

// Message returns the ledger record for id, or ErrNotFound.
func (v *Vault) Message(ctx context.Context, id uint64) (*models.Message, error) {
	b, err := v.kv.Get(ctx, keyMessage+strconv.FormatUint(id, 10))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return models.ParseMessageRecord(id, string(b))
}
