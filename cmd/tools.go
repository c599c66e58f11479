package cmd

import (
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/personal-calendar-mcp/internal/config"
	"github.com/teemow/personal-calendar-mcp/internal/instrumentation"
	"github.com/teemow/personal-calendar-mcp/internal/logging"
	"github.com/teemow/personal-calendar-mcp/internal/registry"
	"github.com/teemow/personal-calendar-mcp/internal/server"
	"github.com/teemow/personal-calendar-mcp/internal/tools/calendar_tools"
	"github.com/teemow/personal-calendar-mcp/internal/webapp"
)

// toolDeps are the collaborators shared by every registered tool. Nil
// metrics and audit logger disable the respective instrumentation.
type toolDeps struct {
	config  config.Provider
	metrics *instrumentation.Metrics
	audit   *instrumentation.AuditLogger
	logger  *logging.SlogAdapter
}

// newMCPServer creates the MCP server with all tools registered.
func newMCPServer(deps toolDeps) (*mcpserver.MCPServer, *registry.Registry) {
	if deps.logger == nil {
		deps.logger = logging.DefaultLogger()
	}

	mcpSrv := mcpserver.NewMCPServer(server.ServiceName, version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
	)

	reg := registry.New(mcpSrv,
		registry.WithMetrics(deps.metrics),
		registry.WithAuditLogger(deps.audit),
		registry.WithLogger(deps.logger.With(logging.KeyComponent, "registry")),
	)

	client := webapp.New(deps.config,
		webapp.WithMetrics(deps.metrics),
		webapp.WithLogger(deps.logger.With(logging.KeyComponent, "webapp")),
	)
	calendar_tools.RegisterCalendarTools(reg, deps.config, client)

	return mcpSrv, reg
}
