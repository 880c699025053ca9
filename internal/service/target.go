package service

import (
	"net/url"
	"strings"
)

// targetParam is the explicit query parameter naming the target.
const targetParam = "url"

// ExtractTarget finds the target URL in a parsed query string.
//
// Precedence:
//  1. a non-empty "url" parameter wins, taken as decoded;
//  2. otherwise a query made of exactly one valueless key starting with
//     "http" is itself the target (the lazy form "/?https://example.com").
//
// Anything else has no target.
func ExtractTarget(query url.Values) (string, bool) {
	if target := query.Get(targetParam); target != "" {
		return target, true
	}
	return lazyTarget(query)
}

func lazyTarget(query url.Values) (string, bool) {
	if len(query) != 1 {
		return "", false
	}
	for key, vals := range query {
		if !strings.HasPrefix(key, "http") {
			return "", false
		}
		for _, v := range vals {
			if v != "" {
				return "", false
			}
		}
		return key, true
	}
	return "", false
}
