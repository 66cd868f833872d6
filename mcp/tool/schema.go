package tool

import (
	"encoding/json"

	mcpschema "github.com/viant/mcp-protocol/schema"
	"github.com/viant/toolproxy/internal/conv"
	"github.com/viant/toolproxy/mcp/tool/conversion"
)

// Info is the call-relevant view of a remote tool input schema. It is
// derived once per tool and never modified afterwards.
type Info struct {
	// Name is the raw remote tool identifier.
	Name        string
	Description string
	// Keys lists every declared property: required ones first in declared
	// order, then the optional ones in lexical order. Positional values bind
	// to Keys, so a positional value past the required keys lands on the
	// lexically next optional property, which may differ from the order the
	// tool author declared (listings carry properties as an unordered map).
	// Pass optional values by name when that matters.
	Keys     []string
	Required []string
	// Properties holds raw property definitions (type, default, enum ...).
	Properties map[string]map[string]interface{}
	// Schema is the JSON encoded input schema.
	Schema json.RawMessage

	keys map[string]struct{}
}

// NewInfo derives Info from a listed tool. It returns false when the tool has
// no usable object schema.
func NewInfo(t *mcpschema.Tool) (*Info, bool) {
	if t == nil || t.Name == "" {
		return nil, false
	}
	input := t.InputSchema
	switch input.Type {
	case "object":
	case "":
		if len(input.Properties) == 0 && len(input.Required) == 0 {
			return nil, false
		}
	default:
		return nil, false
	}

	info := &Info{
		Name:        t.Name,
		Description: conv.Dereference(t.Description),
		Properties:  make(map[string]map[string]interface{}, len(input.Properties)),
		keys:        make(map[string]struct{}, len(input.Properties)+len(input.Required)),
	}
	for name, def := range input.Properties {
		info.Properties[name] = def
	}
	info.Keys = conversion.OrderedKeys(input.Properties, input.Required)
	for _, name := range info.Keys {
		info.keys[name] = struct{}{}
	}
	required := make(map[string]bool, len(input.Required))
	for _, name := range input.Required {
		if name == "" || required[name] {
			continue
		}
		required[name] = true
		info.Required = append(info.Required, name)
	}
	if data, err := json.Marshal(input); err == nil {
		info.Schema = data
	}
	return info, true
}

// Has reports whether key is a declared property.
func (i *Info) Has(key string) bool {
	_, ok := i.keys[key]
	return ok
}

// HasAll reports whether every key of m is a declared property.
func (i *Info) HasAll(m map[string]interface{}) bool {
	for k := range m {
		if !i.Has(k) {
			return false
		}
	}
	return true
}

// IsRequired reports whether key is mandatory.
func (i *Info) IsRequired(key string) bool {
	for _, r := range i.Required {
		if r == key {
			return true
		}
	}
	return false
}

// Default returns the schema declared default for key.
func (i *Info) Default(key string) (interface{}, bool) {
	def, ok := i.Properties[key]
	if !ok {
		return nil, false
	}
	value, ok := def["default"]
	return value, ok
}
