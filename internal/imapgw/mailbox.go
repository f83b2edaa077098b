package imapgw

import (
	"bytes"
	"context"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/backend"

	"github.com/mixelka/mailvault/pkg/models"
)

// Custom keywords for the vault's non-standard flags.
const (
	flagJunk     = "$Junk"
	flagArchived = "$Archived"
)

// Mailbox serves one folder (INBOX or Sent) of one principal. Message UIDs
// are ledger ids, which are already unique and ascending per folder.
type Mailbox struct {
	backend   *Backend
	principal string
	name      string
}

// Name returns the folder name.
func (m *Mailbox) Name() string {
	return m.name
}

// Info returns folder metadata.
func (m *Mailbox) Info() (*imap.MailboxInfo, error) {
	return &imap.MailboxInfo{
		Delimiter: "/",
		Name:      m.name,
	}, nil
}

// ids returns the folder's raw id list in delivery order.
func (m *Mailbox) ids(ctx context.Context) ([]uint64, error) {
	if m.name == mailboxSent {
		return m.backend.vault.Sent(ctx, m.principal)
	}
	return m.backend.vault.Inbox(ctx, m.principal)
}

// Status reports folder counts.
func (m *Mailbox) Status(items []imap.StatusItem) (*imap.MailboxStatus, error) {
	ctx := context.Background()
	ids, err := m.ids(ctx)
	if err != nil {
		return nil, err
	}

	status := imap.NewMailboxStatus(m.name, items)
	for _, item := range items {
		switch item {
		case imap.StatusMessages:
			status.Messages = uint32(len(ids))
		case imap.StatusRecent:
			status.Recent = 0
		case imap.StatusUnseen:
			var unseen uint32
			for _, id := range ids {
				entry, err := m.backend.vault.Entry(ctx, m.principal, id)
				if err != nil {
					return nil, err
				}
				if !entry.IsRead {
					unseen++
				}
			}
			status.Unseen = unseen
		case imap.StatusUidNext:
			var next uint64 = 1
			for _, id := range ids {
				if id >= next {
					next = id + 1
				}
			}
			status.UidNext = uint32(next)
		case imap.StatusUidValidity:
			status.UidValidity = 1
		}
	}
	return status, nil
}

// SetSubscribed is accepted and ignored.
func (m *Mailbox) SetSubscribed(subscribed bool) error {
	return nil
}

// Check is a no-op.
func (m *Mailbox) Check() error {
	return nil
}

// ListMessages streams the requested messages to ch.
func (m *Mailbox) ListMessages(uid bool, seqSet *imap.SeqSet, items []imap.FetchItem, ch chan<- *imap.Message) error {
	defer close(ch)

	ctx := context.Background()
	ids, err := m.ids(ctx)
	if err != nil {
		return err
	}

	for i, id := range ids {
		seqNum := uint32(i + 1)
		if uid && !seqSet.Contains(uint32(id)) {
			continue
		}
		if !uid && !seqSet.Contains(seqNum) {
			continue
		}

		fetched, err := m.fetch(ctx, seqNum, id, items)
		if err != nil {
			return err
		}
		ch <- fetched
	}
	return nil
}

func (m *Mailbox) fetch(ctx context.Context, seqNum uint32, id uint64, items []imap.FetchItem) (*imap.Message, error) {
	msg, err := m.backend.vault.Message(ctx, id)
	if err != nil {
		// A folder can reference an id whose record predates this store;
		// serve a placeholder rather than failing the whole FETCH.
		msg = &models.Message{ID: id, Subject: "(missing message)"}
	}
	entry, err := m.backend.vault.Entry(ctx, m.principal, id)
	if err != nil {
		return nil, err
	}

	fetched := imap.NewMessage(seqNum, items)
	for _, item := range items {
		switch item {
		case imap.FetchEnvelope:
			fetched.Envelope = m.envelope(ctx, msg)
		case imap.FetchBody, imap.FetchBodyStructure:
			fetched.BodyStructure = &imap.BodyStructure{
				MIMEType:    "text",
				MIMESubType: "plain",
				Size:        uint32(len(msg.BodyRef)),
			}
		case imap.FetchFlags:
			fetched.Flags = entryFlags(entry)
		case imap.FetchInternalDate:
			fetched.InternalDate = time.Unix(int64(msg.Timestamp), 0)
		case imap.FetchRFC822Size:
			raw, err := m.literal(ctx, msg)
			if err != nil {
				return nil, err
			}
			fetched.Size = uint32(len(raw))
		case imap.FetchUid:
			fetched.Uid = uint32(id)
		default:
			section, err := imap.ParseBodySectionName(item)
			if err != nil {
				continue
			}
			raw, err := m.literal(ctx, msg)
			if err != nil {
				return nil, err
			}
			fetched.Body[section] = bytes.NewReader(raw)
		}
	}
	return fetched, nil
}

// SearchMessages supports the criteria a read-only store can answer.
func (m *Mailbox) SearchMessages(uid bool, criteria *imap.SearchCriteria) ([]uint32, error) {
	ctx := context.Background()
	ids, err := m.ids(ctx)
	if err != nil {
		return nil, err
	}

	var results []uint32
	for i, id := range ids {
		seqNum := uint32(i + 1)
		if criteria.SeqNum != nil && !criteria.SeqNum.Contains(seqNum) {
			continue
		}
		if criteria.Uid != nil && !criteria.Uid.Contains(uint32(id)) {
			continue
		}

		entry, err := m.backend.vault.Entry(ctx, m.principal, id)
		if err != nil {
			return nil, err
		}
		if !matchFlags(entry, criteria.WithFlags, criteria.WithoutFlags) {
			continue
		}

		if uid {
			results = append(results, uint32(id))
		} else {
			results = append(results, seqNum)
		}
	}
	return results, nil
}

// CreateMessage is not supported; messages enter through the ledger.
func (m *Mailbox) CreateMessage(flags []string, date time.Time, body imap.Literal) error {
	return ErrReadOnly
}

// UpdateMessagesFlags applies flag additions that have vault counterparts.
// Flags are monotone: removals are accepted and ignored, like the silent
// no-op the index performs on a missing entry.
func (m *Mailbox) UpdateMessagesFlags(uid bool, seqSet *imap.SeqSet, op imap.FlagsOp, flags []string) error {
	if op == imap.RemoveFlags {
		return nil
	}

	ctx := context.Background()
	ids, err := m.ids(ctx)
	if err != nil {
		return err
	}

	for i, id := range ids {
		seqNum := uint32(i + 1)
		if uid && !seqSet.Contains(uint32(id)) {
			continue
		}
		if !uid && !seqSet.Contains(seqNum) {
			continue
		}

		for _, flag := range flags {
			switch flag {
			case imap.SeenFlag:
				_, err = m.backend.vault.MarkRead(ctx, m.principal, id)
			case flagJunk:
				_, err = m.backend.vault.MarkSpam(ctx, m.principal, id)
			case flagArchived:
				_, err = m.backend.vault.Archive(ctx, m.principal, id)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// CopyMessages is not supported.
func (m *Mailbox) CopyMessages(uid bool, seqSet *imap.SeqSet, destName string) error {
	return ErrReadOnly
}

// Expunge is not supported; the ledger never deletes.
func (m *Mailbox) Expunge() error {
	return ErrReadOnly
}

var _ backend.Mailbox = (*Mailbox)(nil)

func entryFlags(entry *models.MailboxEntry) []string {
	var flags []string
	if entry.IsRead {
		flags = append(flags, imap.SeenFlag)
	}
	if entry.IsSpam {
		flags = append(flags, flagJunk)
	}
	if entry.IsArchived {
		flags = append(flags, flagArchived)
	}
	return flags
}

func matchFlags(entry *models.MailboxEntry, with, without []string) bool {
	for _, flag := range with {
		if !entryHas(entry, flag) {
			return false
		}
	}
	for _, flag := range without {
		if entryHas(entry, flag) {
			return false
		}
	}
	return true
}

func entryHas(entry *models.MailboxEntry, flag string) bool {
	switch flag {
	case imap.SeenFlag:
		return entry.IsRead
	case flagJunk:
		return entry.IsSpam
	case flagArchived:
		return entry.IsArchived
	default:
		return false
	}
}
