package models

import (
	"fmt"
	"strings"
)

// MailboxEntry is the per-recipient status record for a delivered message.
// The stored value is the fixed three-field record `read|archived|spam`
// with "0"/"1" fields; field order must never change.
type MailboxEntry struct {
	Owner      string `json:"owner"`
	MessageID  uint64 `json:"message_id"`
	IsRead     bool   `json:"read"`
	IsArchived bool   `json:"archived"`
	IsSpam     bool   `json:"spam"`
}

// DefaultEntry returns the all-false entry used both at delivery time and
// for lookups that find nothing.
func DefaultEntry(owner string, messageID uint64) *MailboxEntry {
	return &MailboxEntry{Owner: owner, MessageID: messageID}
}

// Record renders the stored value for an entry.
func (e *MailboxEntry) Record() string {
	return FormatBool(e.IsRead) + "|" + FormatBool(e.IsArchived) + "|" + FormatBool(e.IsSpam)
}

// ParseEntryRecord parses a stored entry record.
func ParseEntryRecord(owner string, messageID uint64, record string) (*MailboxEntry, error) {
	parts := strings.Split(record, "|")
	if len(parts) != 3 {
		return nil, fmt.Errorf("malformed mailbox entry for %s/%d", owner, messageID)
	}
	return &MailboxEntry{
		Owner:      owner,
		MessageID:  messageID,
		IsRead:     parts[0] == "1",
		IsArchived: parts[1] == "1",
		IsSpam:     parts[2] == "1",
	}, nil
}
