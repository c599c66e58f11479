// Package webapp is the client for the Google Apps Script web app that writes
// events into Google Calendar.
//
// Every call reads the endpoint URL and shared secret from configuration, so
// both may change while the server runs. The event is posted as
//
//	{"secret": "<GCAL_WEBAPP_SECRET>", "event": {...}}
//
// with calendarId defaulted when absent. Replies are normalized into a Result:
// unparseable bodies, non-2xx statuses and non-object bodies all become
// ok=false objects. There are no retries and no client-side timeout beyond the
// caller's context.
package webapp
