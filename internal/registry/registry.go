package registry

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sort"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/personal-calendar-mcp/internal/instrumentation"
	"github.com/teemow/personal-calendar-mcp/internal/logging"
)

// HandlerFunc handles a validated tool invocation.
type HandlerFunc func(ctx context.Context, args Arguments) (*mcp.CallToolResult, error)

// Definition is a named tool with its argument schema and handler.
type Definition struct {
	Name        string
	Description string
	Schema      Schema
	Handler     HandlerFunc
}

// Tool returns the MCP tool advertised for the definition.
func (d Definition) Tool() mcp.Tool {
	return mcp.Tool{
		Name:        d.Name,
		Description: d.Description,
		InputSchema: d.Schema.InputSchema(),
	}
}

// Registry holds tool definitions and exposes them on an MCP server.
type Registry struct {
	mcpServer *mcpserver.MCPServer

	mu    sync.RWMutex
	defs  map[string]Definition
	order []string

	metrics *instrumentation.Metrics
	audit   *instrumentation.AuditLogger
	logger  logging.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithMetrics records tool invocation metrics on m.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(r *Registry) {
		r.metrics = m
	}
}

// WithAuditLogger writes an audit record for every invocation.
func WithAuditLogger(al *instrumentation.AuditLogger) Option {
	return func(r *Registry) {
		r.audit = al
	}
}

// WithLogger sets the logger used for handler failures.
func WithLogger(l logging.Logger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}

// New creates a Registry. Definitions registered later are added to
// mcpServer as tools; mcpServer may be nil when only Invoke is used.
func New(mcpServer *mcpserver.MCPServer, opts ...Option) *Registry {
	r := &Registry{
		mcpServer: mcpServer,
		defs:      make(map[string]Definition),
		logger:    logging.DefaultLogger().With(logging.KeyComponent, "registry"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds def, replacing any previous definition with the same name.
func (r *Registry) Register(def Definition) {
	r.mu.Lock()
	if _, exists := r.defs[def.Name]; !exists {
		r.order = append(r.order, def.Name)
	}
	r.defs[def.Name] = def
	r.mu.Unlock()

	if r.mcpServer != nil {
		r.mcpServer.AddTool(def.Tool(), r.toolHandler(def.Name))
	}
}

// Tool returns the definition registered under name.
func (r *Registry) Tool(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	return def, ok
}

// Definitions returns all definitions sorted by name.
func (r *Registry) Definitions() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := append([]string(nil), r.order...)
	sort.Strings(names)
	defs := make([]Definition, 0, len(names))
	for _, name := range names {
		defs = append(defs, r.defs[name])
	}
	return defs
}

// Invoke validates args against the named tool's schema and runs its handler.
//
// It fails with ErrUnknownTool when no tool matches and with a
// *ValidationError when the arguments do not conform. Handler errors and
// panics never escape: they are returned as a result with IsError set.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	def, ok := r.Tool(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	if args == nil {
		args = map[string]any{}
	}

	result, failure := r.instrument(ctx, def, args, func(ctx context.Context) (*mcp.CallToolResult, error) {
		if err := def.Schema.Validate(def.Name, args); err != nil {
			return nil, err
		}
		return r.run(ctx, def, args)
	})

	var verr *ValidationError
	if errors.As(failure, &verr) {
		return nil, verr
	}
	return result, nil
}

// toolHandler adapts Invoke to the mcp-go handler signature. Validation
// failures become error results so clients always get a parseable answer.
func (r *Registry) toolHandler(name string) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := r.Invoke(ctx, name, request.GetArguments())
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				return mcp.NewToolResultError(verr.Error()), nil
			}
			return nil, err
		}
		return result, nil
	}
}

// run calls the handler, converting errors and panics into error results. The
// returned error describes the failure for instrumentation only.
func (r *Registry) run(ctx context.Context, def Definition, args Arguments) (result *mcp.CallToolResult, failure error) {
	defer func() {
		if rec := recover(); rec != nil {
			failure = fmt.Errorf("panic in tool %s: %v", def.Name, rec)
			r.logger.Error("tool handler panicked",
				logging.Tool(def.Name),
				logging.KeyError, failure.Error(),
				"stack", string(debug.Stack()))
			result = mcp.NewToolResultError(fmt.Sprintf("Tool %s failed: %v", def.Name, rec))
		}
	}()

	result, err := def.Handler(ctx, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), err
	}
	if result == nil {
		err = fmt.Errorf("tool %s returned no result", def.Name)
		return mcp.NewToolResultError(err.Error()), err
	}
	return result, nil
}
