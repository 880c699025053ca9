package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"cors-relay/internal/config"
	"cors-relay/internal/metrics"
	"cors-relay/internal/model"
	"cors-relay/internal/service"
)

// streamChunkSize is the read size used when streaming upstream bodies.
const streamChunkSize = 32 * 1024

// RelayHandler serves the relay endpoint.
type RelayHandler struct {
	service  *service.RelayService
	metrics  *metrics.Metrics
	bodyMode string
	logger   *slog.Logger
}

// NewRelayHandler creates a RelayHandler. The metrics parameter is optional.
func NewRelayHandler(svc *service.RelayService, cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) *RelayHandler {
	return &RelayHandler{
		service:  svc,
		metrics:  m,
		bodyMode: cfg.Relay.BodyMode,
		logger:   logger.With("component", "relay_handler"),
	}
}

// Handle relays the request's target and writes the upstream response back.
// CORS headers are added by middleware.CORS, not here.
func (h *RelayHandler) Handle(c echo.Context) error {
	req := c.Request()

	switch req.Method {
	case http.MethodOptions:
		return c.NoContent(http.StatusNoContent)
	case http.MethodGet, http.MethodHead:
	default:
		h.reject(metrics.ReasonMethod)
		return c.String(http.StatusMethodNotAllowed, "Method not allowed")
	}

	rr := &model.RelayRequest{
		Ctx:    req.Context(),
		Host:   req.Host,
		Query:  c.QueryParams(),
		Header: req.Header,
	}

	resp, err := h.service.Relay(rr)
	if err != nil {
		return h.mapError(c, err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Upstream is always fetched with GET; for HEAD the body is dropped here.
	if req.Method == http.MethodHead || resp.StatusCode == http.StatusNoContent {
		h.writeHead(c, resp)
		return nil
	}

	if fl, ok := h.flusher(c); ok {
		return h.stream(c, resp, fl)
	}
	return h.buffer(c, resp)
}

// writeHead mirrors the filtered upstream headers and status.
func (h *RelayHandler) writeHead(c echo.Context, resp *model.UpstreamResponse) {
	res := c.Response()
	for key, vals := range resp.Header {
		for _, v := range vals {
			res.Header().Add(key, v)
		}
	}
	res.WriteHeader(resp.StatusCode)
}

// flusher returns the underlying writer's http.Flusher when streaming is
// both enabled and supported.
func (h *RelayHandler) flusher(c echo.Context) (http.Flusher, bool) {
	if h.bodyMode == config.BodyModeBuffer {
		return nil, false
	}
	fl, ok := c.Response().Writer.(http.Flusher)
	return fl, ok
}

// stream forwards the body chunk by chunk, flushing after each write.
// Headers are committed only once the first read succeeds, so an upstream
// that fails immediately still gets a clean 502.
func (h *RelayHandler) stream(c echo.Context, resp *model.UpstreamResponse, fl http.Flusher) error {
	res := c.Response()
	buf := make([]byte, streamChunkSize)

	for {
		n, err := resp.Body.Read(buf)
		if !res.Committed {
			if err != nil && !errors.Is(err, io.EOF) && n == 0 {
				return h.mapError(c, err)
			}
			h.writeHead(c, resp)
		}

		if n > 0 {
			if _, werr := res.Write(buf[:n]); werr != nil {
				h.logger.Debug("client write failed", "err", werr)
				return nil
			}
			fl.Flush()
		}

		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			h.abort(c, err)
		}
	}
}

// buffer reads the whole body before writing anything.
func (h *RelayHandler) buffer(c echo.Context, resp *model.UpstreamResponse) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return h.mapError(c, err)
	}

	h.writeHead(c, resp)
	if _, err := c.Response().Write(body); err != nil {
		h.logger.Debug("client write failed", "err", err)
	}
	return nil
}

// abort ends a response whose headers are already out. Panicking with
// http.ErrAbortHandler makes net/http drop the connection, so the client
// sees a truncated body instead of a clean end of stream.
func (h *RelayHandler) abort(c echo.Context, err error) {
	h.logger.Error("upstream body failed after response was committed",
		"err", sanitizeError(err),
		"path", c.Request().URL.Path,
		"bytes_out", c.Response().Size,
	)
	panic(http.ErrAbortHandler)
}

func (h *RelayHandler) mapError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrNoTarget):
		h.reject(metrics.ReasonNoTarget)
		return c.String(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrDisallowedScheme):
		h.reject(metrics.ReasonScheme)
		return c.String(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrSelfLoop):
		h.reject(metrics.ReasonLoop)
		return c.String(http.StatusBadRequest, err.Error())
	}

	h.logger.Error("relay error",
		"err", sanitizeError(err),
		"path", c.Request().URL.Path,
	)

	return c.String(http.StatusBadGateway, "Proxy error: "+errorMessage(err))
}

func (h *RelayHandler) reject(reason string) {
	if h.metrics != nil {
		h.metrics.RejectionsTotal.WithLabelValues(reason).Inc()
	}
}

// errorMessage returns the message of the innermost *url.Error when there is
// one, which is what net/http reports for the failed fetch, without our own
// wrapping prefixes.
func errorMessage(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Error()
	}
	return err.Error()
}

// sanitizeError redacts URL credentials from error messages before logging.
func sanitizeError(err error) string {
	return service.RedactURL(err.Error())
}
