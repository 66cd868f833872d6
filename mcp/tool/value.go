package tool

import "reflect"

// Kind classifies a raw call argument.
type Kind int

const (
	// Scalar is any value that is neither a Mapping nor a Sequence, including
	// nil, structs and pointers.
	Scalar Kind = iota
	// Sequence is a slice or an array other than []byte.
	Sequence
	// Mapping is a plain map keyed by strings.
	Mapping
)

func (k Kind) String() string {
	switch k {
	case Sequence:
		return "sequence"
	case Mapping:
		return "mapping"
	default:
		return "scalar"
	}
}

var bytesType = reflect.TypeOf([]byte(nil))

// KindOf returns the Kind of v. It is total: every value has exactly one kind.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil, string, []byte:
		return Scalar
	case map[string]interface{}:
		return Mapping
	case []interface{}:
		return Sequence
	}
	t := reflect.TypeOf(v)
	switch t.Kind() {
	case reflect.Map:
		if t.Key().Kind() == reflect.String {
			return Mapping
		}
	case reflect.Slice, reflect.Array:
		if t != bytesType {
			return Sequence
		}
	}
	return Scalar
}
