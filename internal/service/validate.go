package service

import (
	"net"
	"net/url"
	"regexp"
	"strings"

	"cors-relay/internal/config"
)

// forbiddenSchemes matches targets the relay never fetches.
var forbiddenSchemes = regexp.MustCompile(`(?i)^(?:about:|chrome:|file:|data:|vbscript:|javascript:)`)

// CheckScheme rejects targets using a browser-internal or local scheme.
func CheckScheme(target string) error {
	if forbiddenSchemes.MatchString(target) {
		return ErrDisallowedScheme
	}
	return nil
}

// CheckLoop rejects targets that point back at the relay itself.
//
// In substring mode the lowercased target is rejected when it contains the
// lowercased inbound host anywhere, path and query included. This over-triggers
// on unrelated URLs that merely mention the host and misses IP or
// differently spelled restatements of it. Host mode compares the target's
// hostname with the inbound hostname instead, ignoring ports.
//
// An empty host skips the check in both modes.
func CheckLoop(target, host, mode string) error {
	if host == "" {
		return nil
	}
	switch mode {
	case config.LoopCheckHost:
		if sameHost(target, host) {
			return ErrSelfLoop
		}
	default:
		if strings.Contains(strings.ToLower(target), strings.ToLower(host)) {
			return ErrSelfLoop
		}
	}
	return nil
}

func sameHost(target, host string) bool {
	u, err := url.Parse(target)
	if err != nil || u.Hostname() == "" {
		return false
	}
	return strings.EqualFold(u.Hostname(), hostname(host))
}

// hostname strips an optional port (and IPv6 brackets) from a Host header value.
func hostname(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return strings.Trim(host, "[]")
}
