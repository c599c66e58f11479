// Package cmd implements the command-line interface for personal-calendar-mcp.
//
// This package provides the following commands:
//   - serve: Start the MCP server on streamable HTTP (default)
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
package cmd
