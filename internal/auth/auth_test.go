package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mixelka/mailvault/internal/auth"
)

func TestIssueVerify(t *testing.T) {
	m := auth.New("0123456789abcdef0123456789abcdef")

	token, err := m.Issue("AU12AliceWallet", auth.DefaultTTL)
	require.NoError(t, err)

	principal, err := m.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "AU12AliceWallet", principal)
}

func TestVerifyRejects(t *testing.T) {
	m := auth.New("0123456789abcdef0123456789abcdef")
	other := auth.New("another-secret-another-secret-xx")

	token, err := other.Issue("AU12AliceWallet", auth.DefaultTTL)
	require.NoError(t, err)

	cases := map[string]string{
		"garbage":      "not.a.token",
		"empty":        "",
		"wrong secret": token,
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := m.Verify(tok)
			require.ErrorIs(t, err, auth.ErrUnauthenticated)
		})
	}
}

func TestVerifyExpired(t *testing.T) {
	m := auth.New("0123456789abcdef0123456789abcdef")

	token, err := m.Issue("AU12AliceWallet", -time.Minute)
	require.NoError(t, err)

	_, err = m.Verify(token)
	require.ErrorIs(t, err, auth.ErrUnauthenticated)
}
