package calendar_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/personal-calendar-mcp/internal/registry"
)

var postRawEventSchema = registry.Schema{
	Fields: []registry.Field{
		{
			Name:            "event",
			Type:            registry.TypeObject,
			Required:        true,
			AllowAdditional: true,
			Description:     "Event body forwarded to the web app unchanged",
		},
	},
}

func (t *calendarTools) handlePostRawEvent(ctx context.Context, args registry.Arguments) (*mcp.CallToolResult, error) {
	event, _ := args.Object("event")
	return t.post(ctx, event)
}
