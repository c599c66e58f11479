package calendar_tools

import (
	"context"

	"github.com/teemow/personal-calendar-mcp/internal/config"
	"github.com/teemow/personal-calendar-mcp/internal/registry"
	"github.com/teemow/personal-calendar-mcp/internal/webapp"
)

// Tool names.
const (
	CreateEventToolName  = "google_calendar_create_event"
	PostRawEventToolName = "google_calendar_post_raw_event"
)

// EventPoster delivers an event to the web app.
type EventPoster interface {
	Post(ctx context.Context, event map[string]any) (webapp.Result, error)
}

type calendarTools struct {
	config config.Provider
	poster EventPoster
}

// RegisterCalendarTools registers all Calendar tools with the registry.
// Defaults are read from provider on every invocation.
func RegisterCalendarTools(reg *registry.Registry, provider config.Provider, poster EventPoster) {
	t := &calendarTools{config: provider, poster: poster}

	reg.Register(registry.Definition{
		Name:        CreateEventToolName,
		Description: "Create one Google Calendar event through the configured Apps Script web app.",
		Schema:      createEventSchema,
		Handler:     t.handleCreateEvent,
	})

	reg.Register(registry.Definition{
		Name:        PostRawEventToolName,
		Description: "Post a raw event payload directly to the configured Apps Script web app.",
		Schema:      postRawEventSchema,
		Handler:     t.handlePostRawEvent,
	})
}
