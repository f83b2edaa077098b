package vault_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mixelka/mailvault/internal/vault"
)

func TestSpamList(t *testing.T) {
	ctx := context.Background()
	v, _ := newTestVault(t)

	// Unset list is empty.
	addrs, err := v.SpamList(ctx, principalA)
	require.NoError(t, err)
	require.Empty(t, addrs)

	list := []string{"AU12Spammer1", "AU12Spammer2"}
	require.NoError(t, v.SetSpamList(ctx, principalA, list))

	addrs, err = v.SpamList(ctx, principalA)
	require.NoError(t, err)
	require.Equal(t, list, addrs)

	// Whole-list overwrite semantics.
	require.NoError(t, v.SetSpamList(ctx, principalA, []string{"AU12Spammer3"}))
	addrs, err = v.SpamList(ctx, principalA)
	require.NoError(t, err)
	require.Equal(t, []string{"AU12Spammer3"}, addrs)

	// Clearing back to empty works too.
	require.NoError(t, v.SetSpamList(ctx, principalA, nil))
	addrs, err = v.SpamList(ctx, principalA)
	require.NoError(t, err)
	require.Empty(t, addrs)
}

func TestRetentionDefaults(t *testing.T) {
	ctx := context.Background()
	v, _ := newTestVault(t)

	days, err := v.MaxInboxDays(ctx, principalA)
	require.NoError(t, err)
	require.Equal(t, vault.DefaultMaxInboxDays, days)

	days, err = v.MaxSpamDays(ctx, principalA)
	require.NoError(t, err)
	require.Equal(t, vault.DefaultMaxSpamDays, days)
}

func TestRetentionStoredAsGiven(t *testing.T) {
	ctx := context.Background()
	v, _ := newTestVault(t)

	require.NoError(t, v.SetMaxInboxDays(ctx, principalA, 90))
	days, err := v.MaxInboxDays(ctx, principalA)
	require.NoError(t, err)
	require.Equal(t, int64(90), days)

	// Zero and negative values are accepted unvalidated.
	require.NoError(t, v.SetMaxSpamDays(ctx, principalA, 0))
	days, err = v.MaxSpamDays(ctx, principalA)
	require.NoError(t, err)
	require.Equal(t, int64(0), days)

	require.NoError(t, v.SetMaxInboxDays(ctx, principalA, -5))
	days, err = v.MaxInboxDays(ctx, principalA)
	require.NoError(t, err)
	require.Equal(t, int64(-5), days)

	// Settings are per owner.
	days, err = v.MaxSpamDays(ctx, principalB)
	require.NoError(t, err)
	require.Equal(t, vault.DefaultMaxSpamDays, days)
}
