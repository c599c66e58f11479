package instrumentation

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTool = "google_calendar_create_event"

func newCapturingLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func decodeRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	return record
}

func TestToolInvocation_Complete(t *testing.T) {
	ti := NewToolInvocation(testTool)
	assert.False(t, ti.StartTime.IsZero())

	ti.CompleteSuccess()
	assert.True(t, ti.Success)
	assert.Equal(t, StatusSuccess, ti.Status())
	assert.GreaterOrEqual(t, int64(ti.Duration), int64(0))
	assert.Empty(t, ti.Error)

	failed := NewToolInvocation(testTool).CompleteWithError(errors.New("Missing GCAL_WEBAPP_URL"))
	assert.False(t, failed.Success)
	assert.Equal(t, StatusError, failed.Status())
	assert.Equal(t, "Missing GCAL_WEBAPP_URL", failed.Error)
}

func TestAuditLogger_AnonymizesAttendees(t *testing.T) {
	logger, buf := newCapturingLogger()
	al := NewAuditLogger(logger, AuditLoggingConfig{Enabled: true})

	ti := NewToolInvocation(testTool).
		WithCalendar("primary").
		WithAttendees([]string{"jane@example.com", "joe@example.com", "ann@other.org"}).
		CompleteSuccess()
	al.LogToolInvocation(ti)

	record := decodeRecord(t, buf)
	assert.Equal(t, "tool_executed", record["msg"])
	assert.Equal(t, testTool, record["tool"])
	assert.Equal(t, "primary", record["calendar_id"])
	assert.EqualValues(t, 3, record["attendee_count"])
	assert.Equal(t, []any{"example.com", "other.org"}, record["attendee_domains"])
	assert.NotContains(t, buf.String(), "jane@example.com")
}

func TestAuditLogger_IncludePII(t *testing.T) {
	logger, buf := newCapturingLogger()
	al := NewAuditLogger(logger, AuditLoggingConfig{Enabled: true, IncludePII: true})

	al.LogToolInvocation(NewToolInvocation(testTool).
		WithAttendees([]string{"jane@example.com"}).
		CompleteWithError(errors.New("HTTP 500")))

	record := decodeRecord(t, buf)
	assert.Equal(t, "tool_failed", record["msg"])
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, []any{"jane@example.com"}, record["attendees"])
	assert.Equal(t, "HTTP 500", record["error"])
}

func TestAuditLogger_Disabled(t *testing.T) {
	logger, buf := newCapturingLogger()
	al := NewAuditLogger(logger, AuditLoggingConfig{Enabled: false})

	al.LogToolInvocation(NewToolInvocation(testTool).CompleteSuccess())
	assert.Zero(t, buf.Len())

	var nilLogger *AuditLogger
	nilLogger.LogToolInvocation(NewToolInvocation(testTool).CompleteSuccess())
}

func TestAttendeeDomains(t *testing.T) {
	assert.Equal(t,
		[]string{"example.com", "unknown"},
		attendeeDomains([]string{"a@example.com", "b@example.com", "broken", "trailing@"}),
	)
}
