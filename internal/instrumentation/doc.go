// Package instrumentation provides OpenTelemetry instrumentation for the
// personal-calendar-mcp server.
//
// # Metrics
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//   - auth_attempts_total: Counter of bearer key checks by result (success, failure, open)
//
// MCP Tool Metrics:
//   - mcp_tool_invocations_total: Counter of tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of tool execution durations
//
// Web App Metrics:
//   - webapp_requests_total: Counter of POSTs to the Apps Script web app by HTTP code and status
//   - webapp_request_duration_seconds: Histogram of web app request durations
//
// # Configuration
//
// Instrumentation is configured from the environment:
//
//	INSTRUMENTATION_ENABLED=true        # default true
//	METRICS_EXPORTER=prometheus         # prometheus, otlp, stdout
//	TRACING_EXPORTER=none               # otlp, stdout, none
//	OTEL_EXPORTER_OTLP_ENDPOINT=host:4318
//	OTEL_TRACES_SAMPLER_ARG=0.1
//	AUDIT_LOGGING_ENABLED=true
//	AUDIT_LOGGING_INCLUDE_PII=false
//
// A disabled provider still returns a usable, no-op Metrics value so callers
// never need nil checks.
package instrumentation
