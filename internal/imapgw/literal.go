package imapgw

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-message/mail"

	"github.com/mixelka/mailvault/pkg/models"
)

// literal renders a ledger record as an RFC 822 message. The body is the
// stored bodyRef verbatim; if it is ciphertext, it is served as ciphertext,
// since undoing the transform is the frontend's job.
func (m *Mailbox) literal(ctx context.Context, msg *models.Message) ([]byte, error) {
	from := m.address(ctx, msg.From)
	to := m.address(ctx, msg.To)

	var b bytes.Buffer
	var h mail.Header
	h.SetDate(time.Unix(int64(msg.Timestamp), 0))
	h.SetSubject(msg.Subject)
	h.SetAddressList("From", []*mail.Address{{Address: from.MailboxName + "@" + from.HostName}})
	h.SetAddressList("To", []*mail.Address{{Address: to.MailboxName + "@" + to.HostName}})
	h.SetMessageID(fmt.Sprintf("%d.%s", msg.ID, from.HostName))

	w, err := mail.CreateSingleInlineWriter(&b, h)
	if err != nil {
		return nil, fmt.Errorf("failed to render message: %w", err)
	}
	if _, err := io.WriteString(w, msg.BodyRef); err != nil {
		return nil, fmt.Errorf("failed to render body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (m *Mailbox) envelope(ctx context.Context, msg *models.Message) *imap.Envelope {
	return &imap.Envelope{
		Date:      time.Unix(int64(msg.Timestamp), 0),
		Subject:   msg.Subject,
		From:      []*imap.Address{m.address(ctx, msg.From)},
		To:        []*imap.Address{m.address(ctx, msg.To)},
		MessageId: fmt.Sprintf("<%d@mailvault>", msg.ID),
	}
}

// address resolves a principal to its alias for display. Unregistered
// principals (delivery never checks registration) show up as themselves.
func (m *Mailbox) address(ctx context.Context, principal string) *imap.Address {
	alias, err := m.backend.vault.AliasOf(ctx, principal)
	if err != nil || alias == "" {
		return &imap.Address{MailboxName: principal, HostName: "unregistered"}
	}

	name, domain, ok := strings.Cut(alias, "@")
	if !ok {
		return &imap.Address{MailboxName: alias, HostName: "unregistered"}
	}
	return &imap.Address{MailboxName: name, HostName: domain}
}
