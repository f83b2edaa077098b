package vault_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mixelka/mailvault/internal/vault"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()
	v, _ := newTestVault(t)

	alias, err := v.Register(ctx, principalA, "alice")
	require.NoError(t, err)
	require.Equal(t, "alice@demailx", alias)

	// Both directions resolve.
	got, err := v.AliasOf(ctx, principalA)
	require.NoError(t, err)
	require.Equal(t, alias, got)

	p, err := v.PrincipalOf(ctx, alias)
	require.NoError(t, err)
	require.Equal(t, principalA, p)

	exists, err := v.Exists(ctx, alias)
	require.NoError(t, err)
	require.True(t, exists)

	count, err := v.RegisteredCount(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(1), count)
}

func TestRegisterSecondAliasRejected(t *testing.T) {
	ctx := context.Background()
	v, _ := newTestVault(t)

	_, err := v.Register(ctx, principalA, "alice")
	require.NoError(t, err)

	// A second registration by the same wallet always fails, even with a
	// fresh name.
	_, err = v.Register(ctx, principalA, "alice2")
	require.ErrorIs(t, err, vault.ErrAlreadyRegistered)

	// The original binding is untouched and the new alias unbound.
	got, err := v.AliasOf(ctx, principalA)
	require.NoError(t, err)
	require.Equal(t, "alice@demailx", got)

	exists, err := v.Exists(ctx, "alice2@demailx")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestRegisterTakenAliasRejected(t *testing.T) {
	ctx := context.Background()
	v, _ := newTestVault(t)

	_, err := v.Register(ctx, principalA, "alice")
	require.NoError(t, err)

	_, err = v.Register(ctx, principalB, "alice")
	require.ErrorIs(t, err, vault.ErrAliasTaken)

	// B stays unregistered, A's binding is untouched.
	got, err := v.AliasOf(ctx, principalB)
	require.NoError(t, err)
	require.Empty(t, got)

	p, err := v.PrincipalOf(ctx, "alice@demailx")
	require.NoError(t, err)
	require.Equal(t, principalA, p)

	count, err := v.RegisteredCount(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(1), count)
}

func TestLookupMisses(t *testing.T) {
	ctx := context.Background()
	v, _ := newTestVault(t)

	alias, err := v.AliasOf(ctx, "AU12Nobody")
	require.NoError(t, err)
	require.Empty(t, alias)

	p, err := v.PrincipalOf(ctx, "ghost@demailx")
	require.NoError(t, err)
	require.Empty(t, p)

	exists, err := v.Exists(ctx, "ghost@demailx")
	require.NoError(t, err)
	require.False(t, exists)
}
