package webapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/personal-calendar-mcp/internal/config"
	"github.com/teemow/personal-calendar-mcp/internal/instrumentation"
	"github.com/teemow/personal-calendar-mcp/internal/logging"
)

// ErrTransport is returned when no HTTP response was received from the web app.
var ErrTransport = errors.New("web app request failed")

// Client posts events to the Apps Script web app.
type Client struct {
	config     config.Provider
	httpClient *http.Client
	metrics    *instrumentation.Metrics
	logger     logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for outbound requests.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithMetrics records every outbound request on m.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(client *Client) {
		client.metrics = m
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l logging.Logger) Option {
	return func(client *Client) {
		client.logger = l
	}
}

// New creates a Client reading its endpoint and secret from provider on every
// call. The default HTTP client has no timeout of its own.
func New(provider config.Provider, opts ...Option) *Client {
	c := &Client{
		config: provider,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logging.DefaultLogger().With(logging.KeyComponent, "webapp"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// outboundRequest is the body posted to the web app. Secret always comes from
// configuration.
type outboundRequest struct {
	Secret string         `json:"secret"`
	Event  map[string]any `json:"event"`
}

// Post sends event to the web app and normalizes the reply.
//
// A *config.Error is returned without any network call when the endpoint or
// secret is not configured. Errors wrapping ErrTransport mean no response was
// received. Every HTTP response, whatever its status or body, is reported as
// a Result with a nil error.
func (c *Client) Post(ctx context.Context, event map[string]any) (Result, error) {
	cfg := c.config.Load()
	if err := cfg.RequireWebApp(); err != nil {
		return nil, err
	}

	payload := withDefaultCalendar(event, cfg.DefaultCalendarID)
	calendarID, _ := payload["calendarId"].(string)

	body, err := json.Marshal(outboundRequest{Secret: cfg.WebAppSecret, Event: payload})
	if err != nil {
		return nil, fmt.Errorf("failed to encode event: %w", err)
	}

	ctx, span := instrumentation.StartWebAppSpan(ctx, calendarID)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.WebAppURL, bytes.NewReader(body))
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return nil, fmt.Errorf("failed to build web app request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("posting event to web app",
		logging.CalendarID(calendarID),
		"secret", logging.SanitizeToken(cfg.WebAppSecret))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.RecordWebAppRequest(ctx, 0, instrumentation.StatusError, time.Since(start))
		instrumentation.SetSpanError(span, err)
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.RecordWebAppRequest(ctx, resp.StatusCode, instrumentation.StatusError, time.Since(start))
		instrumentation.SetSpanError(span, err)
		return nil, fmt.Errorf("%w: reading response: %w", ErrTransport, err)
	}

	result := normalize(resp.StatusCode, raw)

	status := instrumentation.StatusSuccess
	if !result.OK() {
		status = instrumentation.StatusError
		c.logger.Warn("web app reported failure",
			logging.HTTPStatus(resp.StatusCode),
			logging.KeyError, result.ErrorMessage())
	}
	c.metrics.RecordWebAppRequest(ctx, resp.StatusCode, status, time.Since(start))
	span.SetAttributes(
		attribute.Int(instrumentation.SpanAttrHTTPStatus, resp.StatusCode),
		attribute.Bool(instrumentation.SpanAttrResultOK, result.OK()),
	)
	instrumentation.SetSpanSuccess(span)

	return result, nil
}

// withDefaultCalendar returns a shallow copy of event whose calendarId is set
// to fallback when missing, null or empty.
func withDefaultCalendar(event map[string]any, fallback string) map[string]any {
	out := make(map[string]any, len(event)+1)
	for k, v := range event {
		out[k] = v
	}
	switch v := out["calendarId"].(type) {
	case nil:
		out["calendarId"] = fallback
	case string:
		if v == "" {
			out["calendarId"] = fallback
		}
	}
	return out
}
