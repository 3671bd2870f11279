package sanitizer

import "strings"

const fence = "```"

// StripOuterFences removes a leading ```html (or bare ```) opener and a
// trailing ``` closer. The input is expected to be trimmed.
func StripOuterFences(s string) string {
	if strings.HasPrefix(s, fence) {
		rest := s[len(fence):]
		if len(rest) >= 4 && strings.EqualFold(rest[:4], "html") {
			rest = rest[4:]
		}
		s = rest
	}
	return strings.TrimSuffix(s, fence)
}

// RemoveFences deletes every ```html and ``` marker left anywhere in s.
func RemoveFences(s string) string {
	lower := lowerASCII(s)
	if !strings.Contains(lower, fence) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if strings.HasPrefix(lower[i:], fence) {
			i += len(fence)
			if strings.HasPrefix(lower[i:], "html") {
				i += len("html")
			}
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}
