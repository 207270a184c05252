package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/arya-labs/aryamail/internal/domain"
)

const retrievalTopK = 3

// NoNewEmailsMessage is returned when the unseen search comes back empty.
const NoNewEmailsMessage = "No new emails to process."

// MailboxSession is one authenticated connection to the inbox.
type MailboxSession interface {
	// FetchUnseen returns all unseen messages in server order. Messages
	// whose content could not be parsed are still included, with only
	// their sequence number set, so the pass counts and skips them.
	FetchUnseen(ctx context.Context) ([]*domain.IncomingMessage, error)
	MarkSeen(ctx context.Context, seqNum uint32) error
	Close() error
}

// MailboxDialer opens a mailbox session for one pass.
type MailboxDialer interface {
	Dial(ctx context.Context) (MailboxSession, error)
}

// ReplySender delivers one outbound reply.
type ReplySender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// ReplyGenerator composes the reply text for one question.
type ReplyGenerator interface {
	Generate(ctx context.Context, contextText, question string) string
}

// MailboxService runs one synchronous pass over the inbox: fetch unseen,
// retrieve context, generate, send, mark seen. Passes are serialized; a
// second trigger blocks until the running pass finishes.
type MailboxService struct {
	dialer    MailboxDialer
	sender    ReplySender
	retriever Retriever
	replies   ReplyGenerator

	mu sync.Mutex
}

func NewMailboxService(dialer MailboxDialer, sender ReplySender, retriever Retriever, replies ReplyGenerator) *MailboxService {
	return &MailboxService{
		dialer:    dialer,
		sender:    sender,
		retriever: retriever,
		replies:   replies,
	}
}

// ProcessPass handles every unseen message once. A message is marked seen
// only after its reply was sent, so a failed send leaves it unseen for the
// next pass. Any failure outside send aborts the remainder of the pass;
// messages already marked seen stay seen.
func (s *MailboxService) ProcessPass(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.dialer.Dial(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to connect to mailbox: %w", err)
	}
	defer session.Close()

	messages, err := session.FetchUnseen(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to fetch unseen messages: %w", err)
	}
	if len(messages) == 0 {
		log.Println("no new unread emails")
		return NoNewEmailsMessage, nil
	}
	log.Printf("found %d new email(s)", len(messages))

	processed := 0
	for _, msg := range messages {
		if !msg.HasValidSender() {
			log.Printf("skipping message %d: %v", msg.SeqNum, domain.ErrMissingSender)
			continue
		}
		log.Printf("processing email from %s", msg.From)

		query := msg.Query()

		chunks, err := s.retriever.Search(ctx, query, retrievalTopK)
		if err != nil {
			return "", fmt.Errorf("knowledge base search failed: %w", err)
		}
		contextText := joinChunks(chunks)

		reply := s.replies.Generate(ctx, contextText, query)

		if err := s.sender.Send(ctx, msg.From, "Re: "+msg.Subject, reply); err != nil {
			log.Printf("failed to send reply to %s: %v", msg.From, err)
			continue
		}

		if err := session.MarkSeen(ctx, msg.SeqNum); err != nil {
			return "", fmt.Errorf("failed to mark message seen: %w", err)
		}
		processed++
	}

	return fmt.Sprintf("Successfully processed %d of %d email(s).", processed, len(messages)), nil
}

func joinChunks(chunks []domain.ScoredChunk) string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	return strings.Join(texts, "\n\n")
}
