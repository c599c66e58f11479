package webapp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// Result is the normalized reply of the web app. It is always a JSON object.
type Result map[string]any

// OK reports whether the web app answered with "ok": true.
func (r Result) OK() bool {
	ok, _ := r["ok"].(bool)
	return ok
}

// ErrorMessage returns the "error" field when it is a string.
func (r Result) ErrorMessage() string {
	msg, _ := r["error"].(string)
	return msg
}

const (
	invalidJSONPrefix  = "Invalid JSON response from Apps Script: "
	unexpectedResponse = "Unexpected response from Apps Script"
)

// normalize turns a raw HTTP reply into a Result.
//
// A body that is not JSON is replaced by a synthetic failure carrying the raw
// text. A non-2xx status always yields ok=false with the parsed body attached.
// A 2xx body that parses to anything other than an object is wrapped the same
// way so callers can rely on the object shape.
func normalize(statusCode int, raw []byte) Result {
	parsed := parseBody(raw)

	if statusCode < http.StatusOK || statusCode >= http.StatusMultipleChoices {
		return Result{
			"ok":    false,
			"error": fmt.Sprintf("HTTP %d", statusCode),
			"body":  parsed,
		}
	}

	if obj, ok := parsed.(map[string]any); ok {
		return Result(obj)
	}
	return Result{
		"ok":    false,
		"error": unexpectedResponse,
		"body":  parsed,
	}
}

// parseBody decodes raw as JSON, keeping numbers verbatim.
func parseBody(raw []byte) any {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return map[string]any{
			"ok":    false,
			"error": invalidJSONPrefix + string(raw),
		}
	}
	return v
}
