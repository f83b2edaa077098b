package vault

import (
	"context"
	"errors"
	"fmt"

	"github.com/mixelka/mailvault/internal/event"
)

// ErrAlreadyRegistered is returned by Register when the principal already
// has a bound alias.
var ErrAlreadyRegistered = errors.New("wallet already has an alias registered")

// ErrAliasTaken is returned by Register when the derived alias is bound to
// a different principal.
var ErrAliasTaken = errors.New("alias already taken")

// Register binds principal to `username@domain`. Both directions are
// checked before anything is written, so a rejected call leaves the store
// untouched and no partial binding is ever observable. Bindings are
// permanent: there is no reassign or delete.
func (v *Vault) Register(ctx context.Context, principal, username string) (string, error) {
	alias := username + "@" + v.domain

	v.regMu.Lock()
	defer v.regMu.Unlock()

	existing, err := v.getString(ctx, keyEmailByAddr+principal)
	if err != nil {
		return "", fmt.Errorf("failed to check principal binding: %w", err)
	}
	if existing != "" {
		return "", ErrAlreadyRegistered
	}

	holder, err := v.getString(ctx, keyAddrByEmail+alias)
	if err != nil {
		return "", fmt.Errorf("failed to check alias binding: %w", err)
	}
	if holder != "" {
		return "", ErrAliasTaken
	}

	if err := v.kv.Set(ctx, keyEmailByAddr+principal, []byte(alias)); err != nil {
		return "", fmt.Errorf("failed to write forward binding: %w", err)
	}
	if err := v.kv.Set(ctx, keyAddrByEmail+alias, []byte(principal)); err != nil {
		return "", fmt.Errorf("failed to write reverse binding: %w", err)
	}

	count, err := v.getUint(ctx, keyEmailCount, 0)
	if err != nil {
		return "", err
	}
	if err := v.setUint(ctx, keyEmailCount, count+1); err != nil {
		return "", fmt.Errorf("failed to bump registration counter: %w", err)
	}

	v.publish(ctx, event.Event{
		Kind:      event.KindIdentityRegistered,
		Principal: principal,
		Text:      fmt.Sprintf("Email registered: %s for %s", alias, principal),
	})
	return alias, nil
}

// AliasOf returns the alias bound to principal, or "" if there is none.
func (v *Vault) AliasOf(ctx context.Context, principal string) (string, error) {
	return v.getString(ctx, keyEmailByAddr+principal)
}

// PrincipalOf returns the principal bound to alias, or "" if there is none.
func (v *Vault) PrincipalOf(ctx context.Context, alias string) (string, error) {
	return v.getString(ctx, keyAddrByEmail+alias)
}

// Exists reports whether alias is bound to any principal.
func (v *Vault) Exists(ctx context.Context, alias string) (bool, error) {
	p, err := v.PrincipalOf(ctx, alias)
	if err != nil {
		return false, err
	}
	return p != "", nil
}

// RegisteredCount returns the number of registrations ever made.
func (v *Vault) RegisteredCount(ctx context.Context) (uint64, error) {
	return v.getUint(ctx, keyEmailCount, 0)
}
