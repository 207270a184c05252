package mail

import (
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-imap"
	gomail "github.com/emersion/go-message/mail"

	// Registers decoders for non-UTF-8 message charsets.
	_ "github.com/emersion/go-message/charset"

	"github.com/arya-labs/aryamail/internal/domain"
)

func decodeMessage(raw *imap.Message, section *imap.BodySectionName) (*domain.IncomingMessage, error) {
	body := raw.GetBody(section)
	if body == nil {
		return nil, domain.ErrMessageDecode
	}
	msg, err := parseMessage(body)
	if err != nil {
		return nil, err
	}
	msg.SeqNum = raw.SeqNum
	return msg, nil
}

// parseMessage reads a raw RFC 5322 message and extracts the sender
// address, the decoded subject and the body. Multipart messages take the
// first text/plain part; anything single-part takes the lone payload as-is,
// whatever its content type.
func parseMessage(r io.Reader) (*domain.IncomingMessage, error) {
	mr, err := gomail.CreateReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMessageDecode, err)
	}

	msg := &domain.IncomingMessage{}

	if addrs, err := mr.Header.AddressList("From"); err == nil && len(addrs) > 0 {
		msg.From = addrs[0].Address
	}
	if subject, err := mr.Header.Subject(); err == nil {
		msg.Subject = strings.TrimSpace(subject)
	}

	topType, _, _ := mr.Header.ContentType()
	multipart := strings.HasPrefix(topType, "multipart/")

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMessageDecode, err)
		}

		header, ok := part.Header.(*gomail.InlineHeader)
		if !ok {
			continue
		}
		if multipart {
			contentType, _, err := header.ContentType()
			if err != nil || contentType != "text/plain" {
				continue
			}
		}

		text, err := io.ReadAll(part.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMessageDecode, err)
		}
		msg.Body = strings.TrimSpace(string(text))
		break
	}

	return msg, nil
}
