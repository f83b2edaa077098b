package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Message is an immutable ledger record. The stored value layout is the
// pipe-delimited record `from|to|subject|bodyRef|timestamp|encrypted` that
// the rest of the system depends on byte for byte; the id lives in the key,
// not the record.
type Message struct {
	ID        uint64 `json:"id"`
	From      string `json:"from"`      // sender principal (wallet address)
	To        string `json:"to"`        // recipient principal
	Subject   string `json:"subject"`
	BodyRef   string `json:"body_ref"`  // opaque ciphertext or body reference
	Timestamp uint64 `json:"timestamp"` // unix seconds
	Encrypted bool   `json:"encrypted"`
}

// Record renders the stored value for a message.
func (m *Message) Record() string {
	return fmt.Sprintf("%s|%s|%s|%s|%d|%s",
		m.From, m.To, m.Subject, m.BodyRef, m.Timestamp, FormatBool(m.Encrypted))
}

// ParseMessageRecord parses a stored message record.
func ParseMessageRecord(id uint64, record string) (*Message, error) {
	parts := strings.SplitN(record, "|", 6)
	if len(parts) != 6 {
		return nil, fmt.Errorf("malformed message record for id %d", id)
	}

	ts, err := strconv.ParseUint(parts[4], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed timestamp for id %d: %w", id, err)
	}

	return &Message{
		ID:        id,
		From:      parts[0],
		To:        parts[1],
		Subject:   parts[2],
		BodyRef:   parts[3],
		Timestamp: ts,
		Encrypted: parts[5] == "1",
	}, nil
}

// FormatBool renders a bool as the "0"/"1" wire flag.
func FormatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
