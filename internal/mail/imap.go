// Package mail provides the IMAP and SMTP adapters for the mailbox
// processing loop. The IMAP side fetches unseen messages from INBOX
// without marking them; messages are flagged seen only after a reply
// has gone out.
package mail

import (
	"context"
	"fmt"
	"log"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"

	"github.com/arya-labs/aryamail/internal/domain"
)

// IMAPDialer opens authenticated TLS sessions against a single mailbox.
type IMAPDialer struct {
	addr     string
	username string
	password string
}

func NewIMAPDialer(addr, username, password string) *IMAPDialer {
	return &IMAPDialer{addr: addr, username: username, password: password}
}

// Dial connects, authenticates and selects INBOX. The returned session
// must be closed by the caller.
func (d *IMAPDialer) Dial(ctx context.Context) (*IMAPSession, error) {
	c, err := client.DialTLS(d.addr, nil)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeUpstream, "failed to connect to IMAP server", err)
	}

	if err := c.Login(d.username, d.password); err != nil {
		_ = c.Logout()
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeUpstream, "IMAP login failed", err)
	}

	if _, err := c.Select("INBOX", false); err != nil {
		_ = c.Logout()
		return nil, fmt.Errorf("%w: %v", domain.ErrMailboxSelect, err)
	}

	return &IMAPSession{client: c}, nil
}

// IMAPSession wraps a logged-in IMAP connection with INBOX selected.
type IMAPSession struct {
	client *client.Client
}

// FetchUnseen returns every message in INBOX without the \Seen flag.
// Messages are fetched with BODY.PEEK so the flag stays untouched until
// MarkSeen is called. A message whose body cannot be decoded is still
// returned, carrying only its sequence number, so the caller can skip
// it and leave it unseen for a later pass.
func (s *IMAPSession) FetchUnseen(ctx context.Context) ([]*domain.IncomingMessage, error) {
	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}

	ids, err := s.client.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMailboxSearch, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{section.FetchItem()}

	ch := make(chan *imap.Message, len(ids))
	done := make(chan error, 1)
	go func() {
		done <- s.client.Fetch(seqset, items, ch)
	}()

	var messages []*domain.IncomingMessage
	for raw := range ch {
		msg, err := decodeMessage(raw, section)
		if err != nil {
			log.Printf("could not decode message %d: %v", raw.SeqNum, err)
			messages = append(messages, &domain.IncomingMessage{SeqNum: raw.SeqNum})
			continue
		}
		messages = append(messages, msg)
	}

	if err := <-done; err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeUpstream, "failed to fetch unseen messages", err)
	}
	return messages, nil
}

// MarkSeen adds the \Seen flag to a single message.
func (s *IMAPSession) MarkSeen(ctx context.Context, seqNum uint32) error {
	seqset := new(imap.SeqSet)
	seqset.AddNum(seqNum)

	item := imap.FormatFlagsOp(imap.AddFlags, true)
	flags := []interface{}{imap.SeenFlag}
	if err := s.client.Store(seqset, item, flags, nil); err != nil {
		return domain.NewDomainErrorWithCause(domain.ErrCodeUpstream, "failed to mark message seen", err)
	}
	return nil
}

func (s *IMAPSession) Close() error {
	return s.client.Logout()
}
