package sanitizer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Apply passes value through each step in turn.
func Apply[T any](value T, steps ...func(T) T) T {
	for _, step := range steps {
		value = step(value)
	}
	return value
}

// Truncate keeps at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}

// SingleLine folds every run of whitespace, line breaks included, into one
// space. Header values built from user input must pass through it.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

const quoteRunes = "\"'`“”‘’"

// StripQuotes removes straight and typographic quotes around s.
func StripQuotes(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), quoteRunes))
}

// NormalizeEmail lowercases and trims an address. For a single @ it also
// squeezes repeated dots in the local part and trims dots at its ends.
func NormalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if strings.Count(email, "@") != 1 {
		return email
	}
	local, domain, _ := strings.Cut(email, "@")

	var b strings.Builder
	b.Grow(len(email))
	for i := 0; i < len(local); i++ {
		if local[i] == '.' && (b.Len() == 0 || i+1 == len(local) || local[i+1] == '.') {
			continue
		}
		b.WriteByte(local[i])
	}
	b.WriteByte('@')
	b.WriteString(domain)
	return b.String()
}

const maxFilenameBytes = 255

// SanitizeFilename swaps path separators, reserved characters and control
// codes for underscores. The result is never empty and never longer than 255
// bytes, cut on a rune boundary.
func SanitizeFilename(name string) string {
	safe := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || strings.ContainsRune(`<>:"/\|?*`, r) {
			return '_'
		}
		return r
	}, name)
	safe = strings.Trim(safe, " .")

	if len(safe) > maxFilenameBytes {
		cut := maxFilenameBytes
		for cut > 0 && !utf8.RuneStart(safe[cut]) {
			cut--
		}
		safe = safe[:cut]
	}
	if safe == "" {
		return "file"
	}
	return safe
}
