package clientip

import (
	"net"
	"net/http"
	"strings"
)

// Headers lists the proxy headers GetIP trusts, highest priority first.
var Headers = []string{"CF-Connecting-IP", "X-Real-IP", "X-Forwarded-For"}

// GetIP returns the normalized client address of r, or an empty string when
// no source holds a valid IP.
func GetIP(r *http.Request) string {
	for _, name := range Headers {
		value := r.Header.Get(name)
		if value == "" {
			continue
		}
		for candidate := range strings.SplitSeq(value, ",") {
			if ip := parseIP(candidate); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

func parseIP(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}
