package registry

import (
	"context"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/personal-calendar-mcp/internal/instrumentation"
)

var errToolResult = errors.New("tool reported an error result")

// instrument wraps call with a span, tool metrics and an audit record.
func (r *Registry) instrument(
	ctx context.Context,
	def Definition,
	args Arguments,
	call func(ctx context.Context) (*mcp.CallToolResult, error),
) (*mcp.CallToolResult, error) {
	ctx, span := instrumentation.StartToolSpan(ctx, def.Name)
	defer span.End()

	start := time.Now()
	invocation := instrumentation.NewToolInvocation(def.Name).
		WithSpanContext(ctx).
		WithCalendar(args.CalendarID()).
		WithAttendees(args.AttendeeEmails())

	result, failure := call(ctx)
	duration := time.Since(start)

	status := instrumentation.StatusSuccess
	switch {
	case failure != nil:
		status = instrumentation.StatusError
		invocation.CompleteWithError(failure)
		instrumentation.SetSpanError(span, failure)
	case result != nil && result.IsError:
		status = instrumentation.StatusError
		invocation.Complete(false, nil)
		instrumentation.SetSpanError(span, errToolResult)
	default:
		invocation.CompleteSuccess()
		instrumentation.SetSpanSuccess(span)
	}

	r.metrics.RecordToolInvocation(ctx, def.Name, status, duration)
	r.audit.LogToolInvocation(invocation)

	return result, failure
}
