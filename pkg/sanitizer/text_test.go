package sanitizer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/mailcraft/pkg/sanitizer"
)

func TestApply(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "hello", sanitizer.Apply("  HELLO ", strings.TrimSpace, strings.ToLower))
	assert.Equal(t, "x", sanitizer.Apply("x"))

	short := func(s string) string { return sanitizer.Truncate(s, 5) }
	assert.Equal(t, "a b c", sanitizer.Apply("a\n b\r\n c d", sanitizer.SingleLine, short))
	assert.Equal(t, "To: x Bcc: y", sanitizer.SingleLine("To: x\r\nBcc: y"))
}

func TestStripOuterFences(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "\n<p/>\n", sanitizer.StripOuterFences("```html\n<p/>\n```"))
	assert.Equal(t, "\n<p/>\n", sanitizer.StripOuterFences("```HTML\n<p/>\n```"))
	assert.Equal(t, "<p/>", sanitizer.StripOuterFences("```<p/>```"))
	assert.Equal(t, "<p/>", sanitizer.StripOuterFences("<p/>"))
}

func TestRemoveFences(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ab c", sanitizer.RemoveFences("a```HTMLb ```c"))
	assert.Equal(t, "no fences", sanitizer.RemoveFences("no fences"))
}

func TestStripQuotes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "🚀 Launch day", sanitizer.StripQuotes(`"🚀 Launch day"`))
	assert.Equal(t, "Hi", sanitizer.StripQuotes(" 'Hi' "))
	assert.Equal(t, "Hi", sanitizer.StripQuotes("“Hi”"))
	assert.Equal(t, "", sanitizer.StripQuotes(`""`))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", sanitizer.Truncate("abc", 0))
	assert.Equal(t, "ab", sanitizer.Truncate("abc", 2))
	assert.Equal(t, "abc", sanitizer.Truncate("abc", 3))
	assert.Equal(t, "📧📧", sanitizer.Truncate("📧📧📧", 2))
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "john.doe@example.com", sanitizer.NormalizeEmail("  John..Doe@Example.COM "))
	assert.Equal(t, "not-an-email", sanitizer.NormalizeEmail("Not-An-Email"))
	assert.Equal(t, "a@b@c", sanitizer.NormalizeEmail("a@b@c"))
	assert.Equal(t, "ab@x.io", sanitizer.NormalizeEmail(".ab.@x.io"))
}

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a_b_c.png", sanitizer.SanitizeFilename("a/b\\c.png"))
	assert.Equal(t, "file", sanitizer.SanitizeFilename(" .. "))
	assert.Equal(t, "a_b.txt", sanitizer.SanitizeFilename("a\x00b.txt"))
	assert.Len(t, sanitizer.SanitizeFilename(strings.Repeat("x", 300)), 255)
	assert.Len(t, sanitizer.SanitizeFilename(strings.Repeat("é", 200)), 254)
}
