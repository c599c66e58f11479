package registry

import (
	"errors"
	"strings"
)

// ErrUnknownTool is returned by Invoke when no tool has the requested name.
var ErrUnknownTool = errors.New("unknown tool")

// ValidationError reports arguments that do not conform to a tool's schema.
type ValidationError struct {
	Tool       string
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return "invalid arguments for " + e.Tool + ": " + strings.Join(parts, "; ")
}

// Paths returns the offending field paths in report order.
func (e *ValidationError) Paths() []string {
	paths := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		paths[i] = v.Path
	}
	return paths
}
