package clientip

import (
	"net"
	"net/http"
	"strings"
)

// Unknown is returned when the request carries no usable address.
const Unknown = "unknown"

// RealClientIP returns the canonical client IP of r, used as the rate-limit key.
// It reads r.RemoteAddr only; chi's RealIP middleware runs first and rewrites
// RemoteAddr from X-Real-IP / X-Forwarded-For when the server sits behind a proxy.
func RealClientIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	addr = strings.Trim(addr, "[]")
	if ip := net.ParseIP(addr); ip != nil {
		return ip.String()
	}
	if addr == "" {
		return Unknown
	}
	return addr
}
