// Package conv provides small helpers to convert between arbitrary Go values.
// Convert performs a best-effort JSON round-trip, while Mapping and Clone copy
// argument mappings without changing value types, which is what call
// reconciliation needs to keep caller data un-aliased.
package conv
