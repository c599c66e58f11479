package webapp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/personal-calendar-mcp/internal/config"
)

type recorder struct {
	mu       sync.Mutex
	requests []recordedRequest
	calls    atomic.Int32
}

func (r *recorder) all() []recordedRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedRequest(nil), r.requests...)
}

type recordedRequest struct {
	Method      string
	ContentType string
	Body        map[string]any
}

// newWebApp starts a fake web app answering with status and body and
// recording every request it receives.
func newWebApp(t *testing.T, status int, body string) (*httptest.Server, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.calls.Add(1)
		raw, _ := io.ReadAll(r.Body)
		var decoded map[string]any
		_ = json.Unmarshal(raw, &decoded)
		rec.mu.Lock()
		rec.requests = append(rec.requests, recordedRequest{
			Method:      r.Method,
			ContentType: r.Header.Get("Content-Type"),
			Body:        decoded,
		})
		rec.mu.Unlock()
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func testConfig(url string) config.Static {
	return config.Static{
		WebAppURL:    url,
		WebAppSecret: "s3cret",
	}
}

func TestPost_SendsSecretAndDefaultCalendar(t *testing.T) {
	srv, rec := newWebApp(t, http.StatusOK, `{"ok":true,"eventId":"abc123"}`)
	client := New(testConfig(srv.URL), WithHTTPClient(srv.Client()))

	event := map[string]any{"title": "Standup"}
	result, err := client.Post(context.Background(), event)
	require.NoError(t, err)

	assert.True(t, result.OK())
	assert.Equal(t, "abc123", result["eventId"])

	requests := rec.all()
	require.Len(t, requests, 1)
	got := requests[0]
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "application/json", got.ContentType)
	assert.Equal(t, "s3cret", got.Body["secret"])
	assert.Equal(t, map[string]any{"title": "Standup", "calendarId": "primary"}, got.Body["event"])

	// The caller's map is left untouched.
	assert.NotContains(t, event, "calendarId")
}

func TestPost_KeepsExplicitCalendar(t *testing.T) {
	srv, rec := newWebApp(t, http.StatusOK, `{"ok":true}`)
	cfg := testConfig(srv.URL)
	cfg.DefaultCalendarID = "team@example.com"
	client := New(cfg, WithHTTPClient(srv.Client()))

	_, err := client.Post(context.Background(), map[string]any{"calendarId": "other@example.com"})
	require.NoError(t, err)
	_, err = client.Post(context.Background(), map[string]any{"calendarId": ""})
	require.NoError(t, err)

	requests := rec.all()
	require.Len(t, requests, 2)
	assert.Equal(t, "other@example.com", requests[0].Body["event"].(map[string]any)["calendarId"])
	assert.Equal(t, "team@example.com", requests[1].Body["event"].(map[string]any)["calendarId"])
}

func TestPost_MissingConfigMakesNoRequest(t *testing.T) {
	srv, rec := newWebApp(t, http.StatusOK, `{"ok":true}`)

	tests := []struct {
		name    string
		cfg     config.Static
		setting string
	}{
		{"missing url", config.Static{WebAppSecret: "s3cret"}, config.EnvWebAppURL},
		{"missing secret", config.Static{WebAppURL: srv.URL}, config.EnvWebAppSecret},
		{"missing both", config.Static{}, config.EnvWebAppURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := New(tt.cfg, WithHTTPClient(srv.Client()))
			result, err := client.Post(context.Background(), map[string]any{"title": "x"})

			require.Error(t, err)
			assert.Nil(t, result)
			var cfgErr *config.Error
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.setting, cfgErr.Setting)
		})
	}

	assert.Zero(t, rec.calls.Load())
}

func TestPost_NormalizesResponses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   Result
	}{
		{
			name:   "success object",
			status: http.StatusOK,
			body:   `{"ok":true,"htmlLink":"https://calendar.google.com/x"}`,
			want:   Result{"ok": true, "htmlLink": "https://calendar.google.com/x"},
		},
		{
			name:   "reported failure",
			status: http.StatusOK,
			body:   `{"ok":false,"error":"Unauthorized"}`,
			want:   Result{"ok": false, "error": "Unauthorized"},
		},
		{
			name:   "invalid json",
			status: http.StatusOK,
			body:   `<html>oops</html>`,
			want:   Result{"ok": false, "error": "Invalid JSON response from Apps Script: <html>oops</html>"},
		},
		{
			name:   "empty body",
			status: http.StatusOK,
			body:   ``,
			want:   Result{"ok": false, "error": "Invalid JSON response from Apps Script: "},
		},
		{
			name:   "server error with json",
			status: http.StatusInternalServerError,
			body:   `{"message":"boom"}`,
			want: Result{
				"ok":    false,
				"error": "HTTP 500",
				"body":  map[string]any{"message": "boom"},
			},
		},
		{
			name:   "server error with text",
			status: http.StatusBadGateway,
			body:   `bad gateway`,
			want: Result{
				"ok":    false,
				"error": "HTTP 502",
				"body": map[string]any{
					"ok":    false,
					"error": "Invalid JSON response from Apps Script: bad gateway",
				},
			},
		},
		{
			name:   "success with array body",
			status: http.StatusOK,
			body:   `["a"]`,
			want: Result{
				"ok":    false,
				"error": "Unexpected response from Apps Script",
				"body":  []any{"a"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newWebApp(t, tt.status, tt.body)
			client := New(testConfig(srv.URL), WithHTTPClient(srv.Client()))

			result, err := client.Post(context.Background(), map[string]any{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, result)
		})
	}
}

func TestPost_PreservesNumbers(t *testing.T) {
	srv, _ := newWebApp(t, http.StatusOK, `{"ok":true,"sequence":12345678901234567890}`)
	client := New(testConfig(srv.URL), WithHTTPClient(srv.Client()))

	result, err := client.Post(context.Background(), map[string]any{})
	require.NoError(t, err)

	out, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true,"sequence":12345678901234567890}`, string(out))
}

func TestPost_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := New(testConfig(url))
	result, err := client.Post(context.Background(), map[string]any{})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestResult_Accessors(t *testing.T) {
	assert.False(t, Result{}.OK())
	assert.False(t, Result{"ok": "true"}.OK())
	assert.True(t, Result{"ok": true}.OK())
	assert.Equal(t, "", Result{"error": 42}.ErrorMessage())
	assert.Equal(t, "HTTP 404", Result{"error": "HTTP 404"}.ErrorMessage())
}
