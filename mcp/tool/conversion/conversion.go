package conversion

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/viant/x"
)

// typeRegistry holds input types generated for loaded tools.
var typeRegistry = x.NewRegistry()

// Register stores t under name, replacing a type registered earlier under
// the same name (a tool schema may change after a cache refresh).
func Register(name string, t reflect.Type) {
	typeRegistry.Register(x.NewType(t, x.WithName(name), x.WithForceFlag()))
}

// Lookup returns the type registered under name.
func Lookup(name string) (reflect.Type, bool) {
	aType := typeRegistry.Lookup(name)
	if aType == nil {
		return nil, false
	}
	return aType.Type, true
}

// TypeFromSchema builds a struct type with one field per key, in keys order.
// Keys without a property definition become interface{} fields. An empty key
// list yields an empty struct.
func TypeFromSchema(keys, required []string, props map[string]map[string]interface{}) (reflect.Type, error) {
	fields, err := buildFields(keys, required, props)
	if err != nil {
		return nil, err
	}
	return reflect.StructOf(fields), nil
}

// OrderedKeys returns required keys in declaration order followed by the
// remaining property keys sorted lexically.
func OrderedKeys(props map[string]map[string]interface{}, required []string) []string {
	seen := make(map[string]bool, len(props)+len(required))
	var keys []string
	for _, name := range required {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		keys = append(keys, name)
	}
	var optional []string
	for name := range props {
		if !seen[name] {
			optional = append(optional, name)
		}
	}
	sort.Strings(optional)
	return append(keys, optional...)
}

func buildFields(keys, required []string, props map[string]map[string]interface{}) ([]reflect.StructField, error) {
	requiredSet := make(map[string]bool, len(required))
	for _, n := range required {
		requiredSet[n] = true
	}
	used := map[string]bool{}
	fields := make([]reflect.StructField, 0, len(keys))
	for _, name := range keys {
		def := props[name]
		fieldType, err := goTypeFromDef(def)
		if err != nil {
			return nil, fmt.Errorf("failed to determine type for field %q: %w", name, err)
		}
		tagName := name
		if !requiredSet[name] {
			tagName += ",omitempty"
		}
		fields = append(fields, reflect.StructField{
			Name: uniqueName(FieldName(name), used),
			Type: fieldType,
			Tag:  fieldTag(tagName, def),
		})
	}
	return fields, nil
}

func fieldTag(jsonName string, def map[string]interface{}) reflect.StructTag {
	tag := fmt.Sprintf("json:%q", jsonName)
	if desc, ok := def["description"].(string); ok && desc != "" {
		tag += fmt.Sprintf(" description:%q", desc)
	}
	if values, ok := def["enum"].([]interface{}); ok {
		for _, v := range values {
			tag += fmt.Sprintf(" choice:%q", fmt.Sprint(v))
		}
	}
	return reflect.StructTag(tag)
}

// FieldName converts a schema property name into an exported Go identifier,
// e.g. "context7CompatibleLibraryID" -> "Context7CompatibleLibraryID",
// "library-name" -> "LibraryName", "2fa" -> "F2fa".
func FieldName(name string) string {
	var sb strings.Builder
	upper := true
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		sb.WriteRune(r)
	}
	out := sb.String()
	if out == "" {
		return "Field"
	}
	if first := []rune(out)[0]; !unicode.IsLetter(first) || !unicode.IsUpper(first) {
		out = "F" + out
	}
	return out
}

func uniqueName(name string, used map[string]bool) string {
	candidate := name
	for i := 2; used[candidate]; i++ {
		candidate = fmt.Sprintf("%s%d", name, i)
	}
	used[candidate] = true
	return candidate
}

func goTypeFromDef(def map[string]interface{}) (reflect.Type, error) {
	var typeStr string
	switch v := def["type"].(type) {
	case string:
		typeStr = v
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok && s != "null" {
				typeStr = s
				break
			}
		}
	}
	switch typeStr {
	case "string":
		if format, ok := def["format"].(string); ok && format == "date-time" {
			return reflect.TypeOf(time.Time{}), nil
		}
		return reflect.TypeOf(""), nil
	case "integer":
		return reflect.TypeOf(int64(0)), nil
	case "number":
		return reflect.TypeOf(float64(0)), nil
	case "boolean":
		return reflect.TypeOf(true), nil
	case "object":
		nested := map[string]map[string]interface{}{}
		if raw, ok := def["properties"].(map[string]interface{}); ok {
			for k, v := range raw {
				if m, ok := v.(map[string]interface{}); ok {
					nested[k] = m
				}
			}
		}
		if len(nested) == 0 {
			return reflect.TypeOf(map[string]interface{}{}), nil
		}
		var nestedRequired []string
		if rawReq, ok := def["required"].([]interface{}); ok {
			for _, raw := range rawReq {
				if s, ok := raw.(string); ok {
					nestedRequired = append(nestedRequired, s)
				}
			}
		}
		return TypeFromSchema(OrderedKeys(nested, nestedRequired), nestedRequired, nested)
	case "array":
		if raw, ok := def["items"].(map[string]interface{}); ok {
			itemType, err := goTypeFromDef(raw)
			if err != nil {
				return nil, err
			}
			return reflect.SliceOf(itemType), nil
		}
		return reflect.TypeOf([]interface{}{}), nil
	default:
		return reflect.TypeOf(new(interface{})).Elem(), nil
	}
}
