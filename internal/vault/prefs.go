package vault

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mixelka/mailvault/internal/event"
	"github.com/mixelka/mailvault/pkg/models"
)

// Retention defaults, returned when an owner never stored a value. Nothing
// in the vault enforces retention; the values are advisory data for
// whatever client chooses to act on them.
const (
	DefaultMaxInboxDays int64 = 60
	DefaultMaxSpamDays  int64 = 7
)

// SetSpamList stores owner's block-list, replacing the whole list. The
// list is owner-authored and advisory; delivery never consults it.
func (v *Vault) SetSpamList(ctx context.Context, owner string, addrs []string) error {
	if err := v.kv.Set(ctx, keySpamList+owner, []byte(models.JoinList(addrs))); err != nil {
		return fmt.Errorf("failed to store spam list: %w", err)
	}
	v.publish(ctx, event.Event{
		Kind:      event.KindSpamListUpdated,
		Principal: owner,
		Text:      fmt.Sprintf("Spam list updated for %s", owner),
	})
	return nil
}

// SpamList returns owner's block-list, empty if never set.
func (v *Vault) SpamList(ctx context.Context, owner string) ([]string, error) {
	s, err := v.getString(ctx, keySpamList+owner)
	if err != nil {
		return nil, err
	}
	return models.SplitList(s), nil
}

// SetMaxInboxDays stores owner's inbox retention setting. The value is
// stored as given; zero and negative values are accepted.
func (v *Vault) SetMaxInboxDays(ctx context.Context, owner string, days int64) error {
	return v.setRetention(ctx, keyMaxInboxDays, "Max inbox days", owner, days)
}

// MaxInboxDays returns owner's inbox retention setting, or the default.
func (v *Vault) MaxInboxDays(ctx context.Context, owner string) (int64, error) {
	return v.retention(ctx, keyMaxInboxDays, owner, DefaultMaxInboxDays)
}

// SetMaxSpamDays stores owner's spam retention setting.
func (v *Vault) SetMaxSpamDays(ctx context.Context, owner string, days int64) error {
	return v.setRetention(ctx, keyMaxSpamDays, "Max spam days", owner, days)
}

// MaxSpamDays returns owner's spam retention setting, or the default.
func (v *Vault) MaxSpamDays(ctx context.Context, owner string) (int64, error) {
	return v.retention(ctx, keyMaxSpamDays, owner, DefaultMaxSpamDays)
}

func (v *Vault) setRetention(ctx context.Context, prefix, label, owner string, days int64) error {
	if err := v.kv.Set(ctx, prefix+owner, []byte(strconv.FormatInt(days, 10))); err != nil {
		return fmt.Errorf("failed to store retention setting: %w", err)
	}
	v.publish(ctx, event.Event{
		Kind:      event.KindRetentionUpdated,
		Principal: owner,
		Text:      fmt.Sprintf("%s set to %d for %s", label, days, owner),
	})
	return nil
}

func (v *Vault) retention(ctx context.Context, prefix, owner string, def int64) (int64, error) {
	s, err := v.getString(ctx, prefix+owner)
	if err != nil {
		return 0, err
	}
	if s == "" {
		return def, nil
	}
	days, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt retention setting for %s: %w", owner, err)
	}
	return days, nil
}
