package domain

import (
	"fmt"
	"strings"
)

// IncomingMessage is one unseen mailbox message. SeqNum identifies the
// message within the selected mailbox for the duration of the session.
type IncomingMessage struct {
	SeqNum  uint32
	From    string
	Subject string
	Body    string
}

// Query combines subject and body into the retrieval/generation query.
func (m *IncomingMessage) Query() string {
	return fmt.Sprintf("Subject: %s\n\n%s", m.Subject, m.Body)
}

// HasValidSender reports whether the message carries a usable sender
// address. Messages without one are skipped silently during a pass.
func (m *IncomingMessage) HasValidSender() bool {
	return m.From != "" && strings.Contains(m.From, "@")
}
