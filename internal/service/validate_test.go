package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cors-relay/internal/config"
)

func TestCheckScheme(t *testing.T) {
	tests := []struct {
		target  string
		wantErr bool
	}{
		{"https://example.com", false},
		{"http://example.com", false},
		{"ftp://example.com", false},
		{"javascript:alert(1)", true},
		{"JavaScript:alert(1)", true},
		{"about:blank", true},
		{"chrome://settings", true},
		{"file:///etc/passwd", true},
		{"FILE:///etc/passwd", true},
		{"data:text/html,hi", true},
		{"vbscript:msgbox", true},
		{" javascript:alert(1)", false},
		{"https://example.com/?next=javascript:alert(1)", false},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			err := CheckScheme(tt.target)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrDisallowedScheme)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckLoop_Substring(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		host    string
		wantErr bool
	}{
		{"same host", "https://proxy.example.com/evil", "proxy.example.com", true},
		{"host case differs", "https://PROXY.example.com/", "proxy.EXAMPLE.com", true},
		{"host mentioned in path", "https://other.test/proxy.example.com/page", "proxy.example.com", true},
		{"host mentioned in query", "https://other.test/?ref=proxy.example.com", "proxy.example.com", true},
		{"different host", "https://example.org/", "proxy.example.com", false},
		{"ip restatement not caught", "http://127.0.0.1/", "localhost", false},
		{"host with port must match verbatim", "http://relay.test/", "relay.test:8080", false},
		{"empty host skips check", "https://example.org/", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckLoop(tt.target, tt.host, config.LoopCheckSubstring)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrSelfLoop)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckLoop_Host(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		host    string
		wantErr bool
	}{
		{"same host", "https://proxy.example.com/evil", "proxy.example.com", true},
		{"case insensitive", "https://Proxy.Example.com/", "proxy.example.com", true},
		{"port ignored", "http://relay.test:9000/", "relay.test:8080", true},
		{"ipv6 literal", "http://[::1]:8080/", "[::1]:8080", true},
		{"host only in path", "https://other.test/proxy.example.com/page", "proxy.example.com", false},
		{"subdomain", "https://a.proxy.example.com/", "proxy.example.com", false},
		{"unparseable target", "http://[::1", "proxy.example.com", false},
		{"empty host skips check", "https://proxy.example.com/", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckLoop(tt.target, tt.host, config.LoopCheckHost)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrSelfLoop)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
