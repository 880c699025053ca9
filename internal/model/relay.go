// Package model defines shared types for the relay.
package model

import (
	"context"
	"io"
	"net/http"
	"net/url"
)

// RelayRequest is the part of an inbound request the relay looks at.
// Method gating happens before one is built, so it carries no method.
type RelayRequest struct {
	Ctx    context.Context
	Host   string
	Query  url.Values
	Header http.Header
}

// UpstreamResponse is the filtered upstream response to be written back.
// Header has already been passed through the response block-list.
type UpstreamResponse struct {
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser
}
