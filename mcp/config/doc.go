// Package config defines the YAML/JSON configuration model of the tool proxy:
// logging, call dispatch, the HTTP gateway and the remote MCP endpoints, as
// well as helpers to load and validate a configuration file.
package config
