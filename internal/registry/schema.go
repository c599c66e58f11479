package registry

import (
	"fmt"
	"net/mail"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"
)

// FieldType is the JSON type a field must carry.
type FieldType string

// Supported field types.
const (
	TypeString  FieldType = "string"
	TypeBoolean FieldType = "boolean"
	TypeArray   FieldType = "array"
	TypeObject  FieldType = "object"
)

// Supported string formats.
const (
	FormatEmail    = "email"
	FormatDateTime = "date-time"
)

// Field describes one named argument.
type Field struct {
	Name        string
	Type        FieldType
	Required    bool
	Description string

	// MinLength is the minimum number of characters of a string.
	MinLength int
	// Format is FormatEmail or FormatDateTime for strings.
	Format string

	// Items describes array elements. Its Name is ignored.
	Items *Field

	// Properties and AllowAdditional describe object fields.
	Properties      []Field
	AllowAdditional bool
}

// Schema is the argument schema of a tool: an object with the given fields.
type Schema struct {
	Fields          []Field
	AllowAdditional bool
}

// Violation is a single schema violation at a field path such as
// "attendees[1].email".
type Violation struct {
	Path    string
	Message string
}

func (v Violation) String() string {
	if v.Path == "" {
		return v.Message
	}
	return v.Path + ": " + v.Message
}

// Validate checks args against the schema and returns a *ValidationError
// listing every violation, or nil.
func (s Schema) Validate(tool string, args map[string]any) error {
	var violations []Violation
	validateObject("", args, s.Fields, s.AllowAdditional, &violations)
	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Tool: tool, Violations: violations}
}

func validateObject(path string, obj map[string]any, fields []Field, allowAdditional bool, out *[]Violation) {
	known := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		known[f.Name] = struct{}{}

		fieldPath := joinPath(path, f.Name)
		v, present := obj[f.Name]
		if !present {
			if f.Required {
				*out = append(*out, Violation{Path: fieldPath, Message: "is required"})
			}
			continue
		}
		validateValue(fieldPath, v, f, out)
	}

	if allowAdditional {
		return
	}
	var unknown []string
	for k := range obj {
		if _, ok := known[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	for _, k := range unknown {
		*out = append(*out, Violation{Path: joinPath(path, k), Message: "is not allowed"})
	}
}

func validateValue(path string, v any, f Field, out *[]Violation) {
	switch f.Type {
	case TypeString:
		s, ok := v.(string)
		if !ok {
			*out = append(*out, typeViolation(path, f.Type, v))
			return
		}
		if f.MinLength > 0 && utf8.RuneCountInString(s) < f.MinLength {
			*out = append(*out, Violation{Path: path, Message: fmt.Sprintf("must be at least %d characters", f.MinLength)})
			return
		}
		switch f.Format {
		case FormatEmail:
			if !isEmail(s) {
				*out = append(*out, Violation{Path: path, Message: "must be a valid email address"})
			}
		case FormatDateTime:
			if !isDateTime(s) {
				*out = append(*out, Violation{Path: path, Message: "must be an ISO 8601 date-time"})
			}
		}

	case TypeBoolean:
		if _, ok := v.(bool); !ok {
			*out = append(*out, typeViolation(path, f.Type, v))
		}

	case TypeArray:
		items, ok := v.([]any)
		if !ok {
			*out = append(*out, typeViolation(path, f.Type, v))
			return
		}
		if f.Items == nil {
			return
		}
		for i, item := range items {
			validateValue(fmt.Sprintf("%s[%d]", path, i), item, *f.Items, out)
		}

	case TypeObject:
		obj, ok := v.(map[string]any)
		if !ok {
			*out = append(*out, typeViolation(path, f.Type, v))
			return
		}
		validateObject(path, obj, f.Properties, f.AllowAdditional, out)
	}
}

func typeViolation(path string, want FieldType, got any) Violation {
	return Violation{Path: path, Message: fmt.Sprintf("expected %s, got %s", want, jsonType(got))}
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "number"
	}
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

// isEmail accepts a bare RFC 5322 address without display name or brackets.
func isEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Name == "" && addr.Address == s
}

var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
}

// isDateTime accepts ISO 8601 date-times with or without offset. Fractional
// seconds are accepted by time.Parse after the seconds field.
func isDateTime(s string) bool {
	for _, layout := range dateTimeLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// InputSchema renders the schema as the JSON Schema advertised in tools/list.
func (s Schema) InputSchema() mcp.ToolInputSchema {
	props, required := renderFields(s.Fields)
	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}

func renderFields(fields []Field) (map[string]any, []string) {
	props := make(map[string]any, len(fields))
	var required []string
	for _, f := range fields {
		props[f.Name] = renderField(f)
		if f.Required {
			required = append(required, f.Name)
		}
	}
	return props, required
}

func renderField(f Field) map[string]any {
	out := map[string]any{"type": string(f.Type)}
	if f.Description != "" {
		out["description"] = f.Description
	}
	if f.MinLength > 0 {
		out["minLength"] = f.MinLength
	}
	if f.Format != "" {
		out["format"] = f.Format
	}
	if f.Type == TypeArray && f.Items != nil {
		out["items"] = renderField(*f.Items)
	}
	if f.Type == TypeObject {
		props, required := renderFields(f.Properties)
		out["properties"] = props
		if len(required) > 0 {
			out["required"] = required
		}
		out["additionalProperties"] = f.AllowAdditional
	}
	return out
}
