// Package mcp wires remote MCP endpoints to call dispatchers. Its central
// Service type loads configuration, creates one MCP client and one
// tool.Proxy per endpoint, shares a schema registry between them and can
// re-expose every remote tool over an aggregating MCP server.
package mcp
