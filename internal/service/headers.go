package service

import (
	"net/http"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// Fallbacks for the forwarded request headers.
const (
	defaultAccept         = "*/*"
	defaultAcceptLanguage = "en-US,en;q=0.9"
)

// blockedResponseHeaders are never mirrored back to the client: hop-by-hop
// headers, and policies that stop the response being embedded or read
// from another origin. Keys are lowercase.
var blockedResponseHeaders = map[string]bool{
	"connection":          true,
	"keep-alive":          true,
	"proxy-authenticate":  true,
	"proxy-authorization": true,
	"te":                  true,
	"trailers":            true,
	"transfer-encoding":   true,
	"upgrade":             true,

	"content-security-policy":             true,
	"content-security-policy-report-only": true,
	"x-frame-options":                     true,
	"strict-transport-security":           true,
	"report-to":                           true,
	"nel":                                 true,
	"cross-origin-opener-policy":          true,
	"cross-origin-embedder-policy":        true,
	"cross-origin-resource-policy":        true,
}

// IsBlockedResponseHeader reports whether name is on the response block-list.
func IsBlockedResponseHeader(name string) bool {
	return blockedResponseHeaders[strings.ToLower(name)]
}

// UpstreamHeaders builds the outbound header set. Only User-Agent, Accept
// and Accept-Language are ever sent; cookies, credentials and custom
// headers from the client stay behind.
func UpstreamHeaders(src http.Header, userAgent string) http.Header {
	dst := make(http.Header, 3)
	dst.Set("User-Agent", firstNonEmpty(src.Get("User-Agent"), userAgent))
	dst.Set("Accept", firstNonEmpty(src.Get("Accept"), defaultAccept))
	dst.Set("Accept-Language", firstNonEmpty(src.Get("Accept-Language"), defaultAcceptLanguage))
	return dst
}

// FilterResponseHeaders copies src minus the block-list. Entries whose name
// or value cannot be written on the wire are dropped silently; duplicate
// values keep their order.
func FilterResponseHeaders(src http.Header) http.Header {
	dst := make(http.Header, len(src))
	for key, vals := range src {
		if IsBlockedResponseHeader(key) || !httpguts.ValidHeaderFieldName(key) {
			continue
		}
		for _, v := range vals {
			if httpguts.ValidHeaderFieldValue(v) {
				dst[key] = append(dst[key], v)
			}
		}
	}
	return dst
}

func firstNonEmpty(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
