package internal

import (
	"net"
	"net/http"
	"strings"
)

// clientIPHeaders are checked in priority order. CF-Connecting-IP wins so
// Cloudflare-fronted deployments see the real visitor, not the edge proxy.
var clientIPHeaders = []string{
	"CF-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
	"Client-IP",
}

// ClientIP resolves the originating client address for a request. It walks
// the proxy headers in priority order, taking the first entry of a
// comma-separated list, and accepts only valid IP literals. Falls back to
// the peer address, then 127.0.0.1.
func ClientIP(r *http.Request) string {
	for _, header := range clientIPHeaders {
		v := r.Header.Get(header)
		if v == "" {
			continue
		}
		// X-Forwarded-For may carry the whole proxy chain; the first
		// entry is the original client.
		if i := strings.IndexByte(v, ','); i >= 0 {
			v = v[:i]
		}
		v = strings.TrimSpace(v)
		if net.ParseIP(v) != nil {
			return v
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if net.ParseIP(host) != nil {
		return host
	}
	return "127.0.0.1"
}

// WantsJSON reports whether the client expects a JSON response. True when the
// Accept or Content-Type header mentions application/json, the request is an
// AJAX call (X-Requested-With: XMLHttpRequest, case-insensitive), or the path
// is under /api/.
func WantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	if strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest") {
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/api/")
}
