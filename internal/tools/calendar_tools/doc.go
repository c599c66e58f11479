// Package calendar_tools provides the MCP tools that write Google Calendar
// events through the Apps Script web app.
//
// google_calendar_create_event builds a Calendar API shaped event from
// validated arguments and configured defaults. google_calendar_post_raw_event
// forwards a caller-supplied event body as is. Both return the web app's
// normalized reply as indented JSON and flag the result as an error unless
// the reply has "ok": true.
package calendar_tools
