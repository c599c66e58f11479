package calendar_tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/personal-calendar-mcp/internal/webapp"
)

// post sends event and wraps the reply. Errors are returned to the registry,
// which reports them as error results.
func (t *calendarTools) post(ctx context.Context, event map[string]any) (*mcp.CallToolResult, error) {
	result, err := t.poster.Post(ctx, event)
	if err != nil {
		return nil, err
	}
	return toolResult(result)
}

// toolResult renders result as two-space indented JSON.
func toolResult(result webapp.Result) (*mcp.CallToolResult, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return nil, fmt.Errorf("failed to encode web app result: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(strings.TrimSuffix(buf.String(), "\n"))},
		IsError: !result.OK(),
	}, nil
}
