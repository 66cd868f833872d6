// Package cmd implements the sub-commands of the toolproxy command-line
// interface. Each file registers a single sub-command (list-tools, tool,
// exec, call, docs, serve). The plumbing shared between commands, such as
// configuration loading or service initialisation, is located in shared.go.
package cmd
