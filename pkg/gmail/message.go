package gmail

import (
	"bytes"
	"encoding/base64"
	"errors"
	"mime"
	"net/mail"

	"github.com/dmitrymomot/mailcraft/pkg/sanitizer"
)

// Message is a single HTML email.
// To and Cc accept comma separated address lists.
type Message struct {
	From    string
	To      string
	Cc      string
	Subject string
	HTML    string
}

const lineLength = 76

// Build renders msg as an RFC 5322 message with a base64 text/html body.
func Build(msg Message) ([]byte, error) {
	from := sanitizer.SingleLine(msg.From)
	to := sanitizer.SingleLine(msg.To)
	cc := sanitizer.SingleLine(msg.Cc)

	if from == "" {
		return nil, ErrMissingSender
	}
	if to == "" {
		return nil, ErrMissingRecipient
	}
	for _, list := range []string{from, to, cc} {
		if list == "" {
			continue
		}
		if _, err := mail.ParseAddressList(list); err != nil {
			return nil, errors.Join(ErrInvalidAddress, err)
		}
	}

	var b bytes.Buffer
	header := func(key, value string) {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString("\r\n")
	}

	header("MIME-Version", "1.0")
	header("Content-Type", `text/html; charset="utf-8"`)
	header("Content-Transfer-Encoding", "base64")
	header("To", to)
	header("From", from)
	if cc != "" {
		header("Cc", cc)
	}
	header("Subject", mime.QEncoding.Encode("utf-8", sanitizer.SingleLine(msg.Subject)))
	b.WriteString("\r\n")

	body := base64.StdEncoding.EncodeToString([]byte(msg.HTML))
	for len(body) > lineLength {
		b.WriteString(body[:lineLength])
		b.WriteString("\r\n")
		body = body[lineLength:]
	}
	if body != "" {
		b.WriteString(body)
		b.WriteString("\r\n")
	}

	return b.Bytes(), nil
}
