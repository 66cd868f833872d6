// Package conversion generates Go struct types from MCP tool input schemas so
// that remote tools can be described and registered as typed actions.
package conversion
