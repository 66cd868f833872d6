// Package tool adapts dynamically discovered remote MCP tools to ergonomic
// calls. It maps idiomatic call names to tool identifiers (Mapper), caches
// tool schemas per endpoint with single-flight listing (Registry), reconciles
// heterogeneous call arguments into one canonical payload (Reconcile) and
// dispatches calls through a Transport (Proxy).
package tool
