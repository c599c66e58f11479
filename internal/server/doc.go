// Package server is the HTTP layer of personal-calendar-mcp.
//
// Dispatcher is the single entry point handed to http.Server:
//
//   - GET /health and GET /api/health answer {"ok":true,"service":...}
//     without authentication or configuration.
//   - Every other response carries permissive CORS headers, and OPTIONS
//     preflights are answered with 204.
//   - When MCP_API_KEY is set, requests must present
//     "Authorization: Bearer <key>" or receive 401 {"error":"Unauthorized"}.
//   - Remaining requests go to Transport, the stateless streamable HTTP
//     binding of the mcp-go server, built once on first use.
//
// Panics before the response starts become a 500 JSON-RPC error envelope;
// later ones are logged. MetricsServer exposes Prometheus metrics and probes
// on a separate port.
package server
