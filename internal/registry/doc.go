// Package registry holds the MCP tools served by personal-calendar-mcp.
//
// A Definition pairs a tool name with a Schema of typed Field descriptors and
// a handler. Arguments are validated against the schema before the handler
// runs; a failure yields a *ValidationError naming every offending field path,
// for example "attendees[1].email". Handler errors and panics are turned into
// results with IsError set, so a tool fault never reaches the transport as a
// protocol error.
//
// Registered definitions are added to the mcp-go server, which answers
// tools/list and tools/call. Each invocation is traced, counted and written
// to the audit log.
package registry
