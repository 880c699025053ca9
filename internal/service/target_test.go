package service

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTarget(t *testing.T) {
	tests := []struct {
		name     string
		rawQuery string
		want     string
		wantOK   bool
	}{
		{"encoded url param", "url=https%3A%2F%2Fexample.com", "https://example.com", true},
		{"plain url param", "url=https://example.com/a", "https://example.com/a", true},
		{"url param with other keys", "foo=bar&url=https%3A%2F%2Fexample.com", "https://example.com", true},
		{"url param wins over lazy key", "https://other.test&url=https%3A%2F%2Fexample.com", "https://example.com", true},
		{"url param taken verbatim", "url=ftp%3A%2F%2Fexample.com", "ftp://example.com", true},
		{"lazy form", "https://example.com", "https://example.com", true},
		{"lazy form with empty value", "https://example.com=", "https://example.com", true},
		{"lazy form plain http", "http://example.com/path", "http://example.com/path", true},
		{"lazy form encoded key", "https%3A%2F%2Fexample.com", "https://example.com", true},
		{"lazy key with value", "https://example.com/?a=b", "", false},
		{"lazy key not http", "ftp://example.com", "", false},
		{"two lazy keys", "https://a.test&https://b.test", "", false},
		{"empty url param", "url=", "", false},
		{"no query", "", "", false},
		{"unrelated key", "foo=bar", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, _ := url.ParseQuery(tt.rawQuery)
			got, ok := ExtractTarget(query)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractTarget_RepeatedURLParamUsesFirst(t *testing.T) {
	query, err := url.ParseQuery("url=https%3A%2F%2Ffirst.test&url=https%3A%2F%2Fsecond.test")
	require.NoError(t, err)

	got, ok := ExtractTarget(query)
	require.True(t, ok)
	assert.Equal(t, "https://first.test", got)
}
