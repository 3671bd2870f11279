package sanitizer

import (
	"regexp"
	"strings"
)

// anchorTagRegex matches an opening <a> tag, allowing ">" inside quoted values.
var anchorTagRegex = regexp.MustCompile(`(?i)<a\s(?:[^>"']|"[^"]*"|'[^']*')*>`)

const newTabAttributes = `target="_blank" rel="noopener noreferrer" `

// RewriteLinks makes every anchor open in a new tab. Anchors that already
// declare a target, or have no href, are left untouched, so the rewrite is
// idempotent. Attribute names are only recognized outside quoted values.
func RewriteLinks(html string) string {
	return anchorTagRegex.ReplaceAllStringFunc(html, func(tag string) string {
		if attrIndex(tag, "target") != -1 {
			return tag
		}
		at := attrIndex(tag, "href")
		if at == -1 {
			return tag
		}
		return tag[:at] + newTabAttributes + tag[at:]
	})
}

// attrIndex returns the offset of the attribute name in tag, or -1. The name
// must follow whitespace and be followed by "=", optionally spaced.
func attrIndex(tag, name string) int {
	var quote byte
	for i := 1; i < len(tag); i++ {
		c := tag[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case isSpace(tag[i-1]) && isAttr(tag[i:], name):
			return i
		}
	}
	return -1
}

func isAttr(s, name string) bool {
	if len(s) < len(name) || !strings.EqualFold(s[:len(name)], name) {
		return false
	}
	rest := strings.TrimLeft(s[len(name):], " \t\r\n\f")
	return strings.HasPrefix(rest, "=")
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
