package calendar_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"google.golang.org/api/calendar/v3"

	"github.com/teemow/personal-calendar-mcp/internal/config"
	"github.com/teemow/personal-calendar-mcp/internal/registry"
)

var createEventSchema = registry.Schema{
	Fields: []registry.Field{
		{Name: "summary", Type: registry.TypeString, Required: true, MinLength: 1,
			Description: "Event title"},
		{Name: "startDateTime", Type: registry.TypeString, Required: true, Format: registry.FormatDateTime,
			Description: "ISO 8601 datetime, for example 2026-03-21T19:00:00+00:00"},
		{Name: "endDateTime", Type: registry.TypeString, Required: true, Format: registry.FormatDateTime,
			Description: "ISO 8601 datetime, for example 2026-03-21T23:00:00+00:00"},
		{Name: "timeZone", Type: registry.TypeString,
			Description: "IANA time zone for start and end (defaults to the server's configured time zone)"},
		{Name: "location", Type: registry.TypeString, Description: "Event location"},
		{Name: "description", Type: registry.TypeString, Description: "Event description"},
		{Name: "emojiPrefix", Type: registry.TypeString,
			Description: "Emoji the web app puts in front of the title"},
		{Name: "disableEmojiPrefix", Type: registry.TypeBoolean,
			Description: "Ask the web app not to prefix the title with an emoji"},
		{Name: "calendarId", Type: registry.TypeString,
			Description: "Calendar ID (defaults to the server's configured calendar)"},
		{
			Name:        "attendees",
			Type:        registry.TypeArray,
			Description: "Guests to add to the event",
			Items: &registry.Field{
				Type: registry.TypeObject,
				Properties: []registry.Field{
					{Name: "email", Type: registry.TypeString, Required: true, Format: registry.FormatEmail},
				},
			},
		},
		{Name: "sendInvites", Type: registry.TypeBoolean,
			Description: "Whether the web app should email invitations to attendees"},
	},
}

func (t *calendarTools) handleCreateEvent(ctx context.Context, args registry.Arguments) (*mcp.CallToolResult, error) {
	event := buildEventPayload(args, t.config.Load())
	return t.post(ctx, event)
}

// buildEventPayload turns validated create_event arguments into the event
// sent to the web app. Optional pass-through fields are only set when the
// caller supplied them.
func buildEventPayload(args registry.Arguments, cfg config.Config) map[string]any {
	summary, _ := args.String("summary")
	startDateTime, _ := args.String("startDateTime")
	endDateTime, _ := args.String("endDateTime")
	timeZone := args.StringOr("timeZone", cfg.DefaultTimezone)

	event := map[string]any{
		"summary":     summary,
		"location":    args.StringOr("location", ""),
		"description": args.StringOr("description", ""),
		"start": &calendar.EventDateTime{
			DateTime: startDateTime,
			TimeZone: timeZone,
		},
		"end": &calendar.EventDateTime{
			DateTime: endDateTime,
			TimeZone: timeZone,
		},
		"reminders": map[string]any{
			"useDefault": false,
			"overrides":  []any{},
		},
		"calendarId": args.StringOr("calendarId", cfg.DefaultCalendarID),
	}

	if prefix, ok := args.String("emojiPrefix"); ok && prefix != "" {
		event["emojiPrefix"] = prefix
	}
	if disable, ok := args.Bool("disableEmojiPrefix"); ok {
		event["disableEmojiPrefix"] = disable
	}
	if attendees := args.Objects("attendees"); len(attendees) > 0 {
		list := make([]*calendar.EventAttendee, 0, len(attendees))
		for _, a := range attendees {
			email, _ := a["email"].(string)
			list = append(list, &calendar.EventAttendee{Email: email})
		}
		event["attendees"] = list
	}
	if send, ok := args.Bool("sendInvites"); ok {
		event["sendInvites"] = send
	}

	return event
}
