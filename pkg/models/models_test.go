package models_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mixelka/mailvault/pkg/models"
)

func TestMessageRecordLayout(t *testing.T) {
	msg := &models.Message{
		ID:        3,
		From:      "AU12Alice",
		To:        "AU12Bob",
		Subject:   "hello",
		BodyRef:   "0xdead",
		Timestamp: 1700000000,
		Encrypted: true,
	}

	// Other components depend on this exact layout.
	require.Equal(t, "AU12Alice|AU12Bob|hello|0xdead|1700000000|1", msg.Record())

	parsed, err := models.ParseMessageRecord(3, msg.Record())
	require.NoError(t, err)
	require.Equal(t, msg, parsed)
}

func TestParseMessageRecordMalformed(t *testing.T) {
	_, err := models.ParseMessageRecord(1, "too|few|fields")
	require.Error(t, err)

	_, err = models.ParseMessageRecord(1, "a|b|c|d|notanumber|0")
	require.Error(t, err)
}

func TestEntryRecordLayout(t *testing.T) {
	entry := models.DefaultEntry("AU12Bob", 9)
	require.Equal(t, "0|0|0", entry.Record())

	entry.IsSpam = true
	require.Equal(t, "0|0|1", entry.Record())

	parsed, err := models.ParseEntryRecord("AU12Bob", 9, "1|0|1")
	require.NoError(t, err)
	require.True(t, parsed.IsRead)
	require.False(t, parsed.IsArchived)
	require.True(t, parsed.IsSpam)
}

func TestSplitList(t *testing.T) {
	require.Empty(t, models.SplitList(""))
	require.Equal(t, []string{"a"}, models.SplitList("a"))
	require.Equal(t, []string{"a", "b"}, models.SplitList("a,b"))
	require.Equal(t, "a,b", models.JoinList([]string{"a", "b"}))
}
