package registry

// Arguments are the validated arguments of a tool invocation.
type Arguments map[string]any

// Has reports whether the caller supplied name.
func (a Arguments) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// String returns the string value of name and whether it was supplied.
func (a Arguments) String(name string) (string, bool) {
	s, ok := a[name].(string)
	return s, ok
}

// StringOr returns the string value of name, or fallback when it is missing
// or empty.
func (a Arguments) StringOr(name, fallback string) string {
	if s, ok := a.String(name); ok && s != "" {
		return s
	}
	return fallback
}

// Bool returns the boolean value of name and whether it was supplied.
func (a Arguments) Bool(name string) (bool, bool) {
	b, ok := a[name].(bool)
	return b, ok
}

// Object returns the object value of name.
func (a Arguments) Object(name string) (map[string]any, bool) {
	obj, ok := a[name].(map[string]any)
	return obj, ok
}

// Objects returns the elements of an array of objects. Non-object elements
// are skipped.
func (a Arguments) Objects(name string) []map[string]any {
	items, _ := a[name].([]any)
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

// CalendarID returns the target calendar named by the arguments, either
// directly or inside a raw event.
func (a Arguments) CalendarID() string {
	if id, ok := a.String("calendarId"); ok {
		return id
	}
	if event, ok := a.Object("event"); ok {
		id, _ := event["calendarId"].(string)
		return id
	}
	return ""
}

// AttendeeEmails returns the attendee addresses named by the arguments,
// either directly or inside a raw event.
func (a Arguments) AttendeeEmails() []string {
	attendees := a.Objects("attendees")
	if event, ok := a.Object("event"); ok && len(attendees) == 0 {
		attendees = Arguments(event).Objects("attendees")
	}
	var emails []string
	for _, attendee := range attendees {
		if email, ok := attendee["email"].(string); ok {
			emails = append(emails, email)
		}
	}
	return emails
}
