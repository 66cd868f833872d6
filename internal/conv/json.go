package conv

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Convert performs a best-effort conversion of the input value into the type
// pointed to by outPtr.
//
// When input is already assignable to the destination element type it is
// copied directly, otherwise Convert falls back to a JSON round-trip.
// A nil input leaves outPtrʼs value untouched.
func Convert(in any, outPtr any) error {
	if outPtr == nil {
		return fmt.Errorf("conv.Convert: outPtr cannot be nil")
	}
	v := reflect.ValueOf(outPtr)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("conv.Convert: outPtr must be a non-nil pointer")
	}
	if in == nil {
		return nil
	}
	inVal := reflect.ValueOf(in)
	if inVal.Type().AssignableTo(v.Elem().Type()) {
		v.Elem().Set(inVal)
		return nil
	}
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, outPtr)
}

// ToMap converts an arbitrary input value (typically a struct generated from a
// tool schema) into a map[string]interface{}.
func ToMap(in any) (map[string]interface{}, error) {
	if m, ok := Mapping(in); ok {
		return m, nil
	}
	var m map[string]interface{}
	if err := Convert(in, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Mapping returns a shallow copy of in when it is a plain map with string
// keys. Values are kept as is, so int stays int (unlike ToMap's JSON path).
func Mapping(in any) (map[string]interface{}, bool) {
	switch actual := in.(type) {
	case nil:
		return nil, false
	case map[string]interface{}:
		return copyMap(actual), true
	}
	v := reflect.ValueOf(in)
	if v.Kind() != reflect.Map || v.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	if v.IsNil() {
		return map[string]interface{}{}, true
	}
	out := make(map[string]interface{}, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// Clone deep-copies nested map[string]interface{} and []interface{} values;
// anything else is returned unchanged.
func Clone(in any) any {
	switch actual := in.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(actual))
		for k, v := range actual {
			out[k] = Clone(v)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(actual))
		for i, v := range actual {
			out[i] = Clone(v)
		}
		return out
	default:
		return in
	}
}

func copyMap(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
