// Package result exposes typed views over raw MCP tool call results.
package result

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	mcpschema "github.com/viant/mcp-protocol/schema"
	"github.com/viant/toolproxy/internal/conv"
)

// View wraps a raw tool result.
type View struct {
	raw *mcpschema.CallToolResult
}

// New wraps res; a nil result yields an empty view.
func New(res *mcpschema.CallToolResult) *View {
	if res == nil {
		res = &mcpschema.CallToolResult{}
	}
	return &View{raw: res}
}

// Raw returns the underlying protocol result.
func (v *View) Raw() *mcpschema.CallToolResult { return v.raw }

// IsError reports whether the tool flagged its result as an error.
func (v *View) IsError() bool { return conv.Dereference(v.raw.IsError) }

// Err returns the tool error text as an error, or nil for successful results.
func (v *View) Err() error {
	if !v.IsError() {
		return nil
	}
	text := v.Text()
	if text == "" {
		text = "tool returned an error"
	}
	return errors.New(text)
}

// Text joins every text content element with a new line.
func (v *View) Text() string {
	var parts []string
	for _, elem := range v.raw.Content {
		if elem.Text == "" {
			continue
		}
		if elem.Type != "" && elem.Type != "text" {
			continue
		}
		parts = append(parts, elem.Text)
	}
	return strings.Join(parts, "\n")
}

// JSON decodes the text content into out.
func (v *View) JSON(out interface{}) error {
	text := strings.TrimSpace(v.Text())
	if text == "" {
		return fmt.Errorf("result has no text content")
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	return nil
}

// Value decodes the text content as an arbitrary JSON value.
func (v *View) Value() (interface{}, bool) {
	var out interface{}
	if err := v.JSON(&out); err != nil {
		return nil, false
	}
	return out, true
}

// Markdown returns the markdown document carried by markdown-bearing results:
// a JSON object with a "markdown" field, either at the top level or under
// "data".
func (v *View) Markdown() (string, bool) {
	var doc map[string]interface{}
	if err := v.JSON(&doc); err != nil {
		return "", false
	}
	if md, ok := doc["markdown"].(string); ok {
		return md, true
	}
	if data, ok := doc["data"].(map[string]interface{}); ok {
		if md, ok := data["markdown"].(string); ok {
			return md, true
		}
	}
	return "", false
}
