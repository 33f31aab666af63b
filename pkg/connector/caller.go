package connector

import (
	"net"
	"net/http"
	"strings"
)

// Caller describes the end user on whose behalf a query is sent. Empty
// fields are treated as absent.
type Caller struct {
	// IP is the end user address, sent as afs:ip and appended to
	// X-Forwarded-For
	IP string
	// UserAgent is the end user agent, sent as afs:userAgent and as the
	// User-Agent header
	UserAgent string
	// ForwardedFor is the X-Forwarded-For chain already received from
	// upstream proxies
	ForwardedFor string
}

// CallerFromRequest extracts the caller of an incoming HTTP request.
func CallerFromRequest(r *http.Request) Caller {
	if r == nil {
		return Caller{}
	}
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}
	return Caller{
		IP:           ip,
		UserAgent:    r.UserAgent(),
		ForwardedFor: strings.TrimSpace(r.Header.Get("X-Forwarded-For")),
	}
}

// forwardedFor returns the X-Forwarded-For value to send, or "" when the
// caller IP is unknown.
func (c Caller) forwardedFor() string {
	if c.IP == "" {
		return ""
	}
	if c.ForwardedFor != "" {
		return c.ForwardedFor + ", " + c.IP
	}
	return c.IP
}

func (c Caller) applyHeaders(h http.Header) {
	if xff := c.forwardedFor(); xff != "" {
		h.Set("X-Forwarded-For", xff)
	}
	if c.UserAgent != "" {
		h.Set("User-Agent", c.UserAgent)
	}
}
