package gmail_test

import (
	"bytes"
	"io"
	"net/mail"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailcraft/pkg/gmail"
)

func TestBuild(t *testing.T) {
	t.Parallel()

	t.Run("parses back as html mail", func(t *testing.T) {
		t.Parallel()
		html := "<html><body>" + strings.Repeat("Привет 🎉 ", 40) + "</body></html>"
		raw, err := gmail.Build(gmail.Message{
			From:    "me@example.com",
			To:      "a@example.com, b@example.com",
			Cc:      "c@example.com",
			Subject: "🎉 Welcome\r\nBcc: evil@example.com",
			HTML:    html,
		})
		require.NoError(t, err)

		msg, err := mail.ReadMessage(bytes.NewReader(raw))
		require.NoError(t, err)

		assert.Equal(t, "me@example.com", msg.Header.Get("From"))
		assert.Equal(t, "a@example.com, b@example.com", msg.Header.Get("To"))
		assert.Equal(t, "c@example.com", msg.Header.Get("Cc"))
		assert.Empty(t, msg.Header.Get("Bcc"))
		assert.Equal(t, `text/html; charset="utf-8"`, msg.Header.Get("Content-Type"))

		var dec mimeDecoder
		subject, err := dec.DecodeHeader(msg.Header.Get("Subject"))
		require.NoError(t, err)
		assert.Equal(t, "🎉 Welcome Bcc: evil@example.com", subject)

		body, err := io.ReadAll(msg.Body)
		require.NoError(t, err)
		for _, line := range strings.Split(strings.TrimSpace(string(body)), "\r\n") {
			assert.LessOrEqual(t, len(line), 76)
		}
		assert.Equal(t, html, decodeBase64(t, string(body)))
	})

	t.Run("no cc header when empty", func(t *testing.T) {
		t.Parallel()
		raw, err := gmail.Build(gmail.Message{From: "me@example.com", To: "a@example.com", Subject: "Hi", HTML: "<p>x</p>"})
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "Cc:")
	})

	t.Run("validation", func(t *testing.T) {
		t.Parallel()
		_, err := gmail.Build(gmail.Message{From: "me@example.com"})
		assert.ErrorIs(t, err, gmail.ErrMissingRecipient)

		_, err = gmail.Build(gmail.Message{To: "a@example.com"})
		assert.ErrorIs(t, err, gmail.ErrMissingSender)

		_, err = gmail.Build(gmail.Message{From: "me@example.com", To: "not an address"})
		assert.ErrorIs(t, err, gmail.ErrInvalidAddress)

		_, err = gmail.Build(gmail.Message{From: "me@example.com", To: "a@example.com", Cc: "@@"})
		assert.ErrorIs(t, err, gmail.ErrInvalidAddress)
	})
}
