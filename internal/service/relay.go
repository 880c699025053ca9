// Package service implements target extraction, validation and forwarding for the relay.
package service

import (
	"errors"
	"fmt"
	"log/slog"

	"cors-relay/internal/client"
	"cors-relay/internal/config"
	"cors-relay/internal/model"
)

// Client input errors. Their messages are sent to the client verbatim.
var (
	ErrNoTarget         = errors.New("Usage: /?url=https%3A%2F%2Fexample.com  or  /?https://example.com") //nolint:staticcheck // client-facing text
	ErrDisallowedScheme = errors.New("Disallowed URL scheme")                                              //nolint:staticcheck // client-facing text
	ErrSelfLoop         = errors.New("Refusing to proxy to self")                                          //nolint:staticcheck // client-facing text
)

// RelayService validates relay targets and fetches them.
type RelayService struct {
	client    *client.UpstreamClient
	userAgent string
	loopCheck string
	logger    *slog.Logger
}

// NewRelayService creates a RelayService.
func NewRelayService(c *client.UpstreamClient, cfg *config.Config, logger *slog.Logger) *RelayService {
	return &RelayService{
		client:    c,
		userAgent: cfg.Relay.UserAgent,
		loopCheck: cfg.Relay.LoopCheck,
		logger:    logger.With("component", "relay_service"),
	}
}

// Resolve extracts and validates the target of rr.
func (s *RelayService) Resolve(rr *model.RelayRequest) (string, error) {
	target, ok := ExtractTarget(rr.Query)
	if !ok {
		return "", ErrNoTarget
	}
	if err := CheckScheme(target); err != nil {
		return "", err
	}
	if err := CheckLoop(target, rr.Host, s.loopCheck); err != nil {
		return "", err
	}
	return target, nil
}

// Relay resolves the target of rr and fetches it with GET.
// The caller is responsible for closing the response body.
//
// Client input failures are returned as ErrNoTarget, ErrDisallowedScheme or
// ErrSelfLoop; anything else is an upstream failure.
func (s *RelayService) Relay(rr *model.RelayRequest) (*model.UpstreamResponse, error) {
	target, err := s.Resolve(rr)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("relaying request", "target", RedactURL(target))

	resp, err := s.client.Fetch(rr.Ctx, target, UpstreamHeaders(rr.Header, s.userAgent))
	if err != nil {
		return nil, fmt.Errorf("fetch target: %w", err)
	}

	resp.Header = FilterResponseHeaders(resp.Header)
	return resp, nil
}

// IsClientError reports whether err was caused by the client's input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrNoTarget) || errors.Is(err, ErrDisallowedScheme) || errors.Is(err, ErrSelfLoop)
}
