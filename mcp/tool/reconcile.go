package tool

import (
	"fmt"

	"github.com/viant/toolproxy/internal/conv"
)

// ArgsKey is the reserved options key carrying an explicit canonical payload.
const ArgsKey = "args"

// Call is the outcome of reconciling raw call arguments.
type Call struct {
	// Args is the canonical payload; only meaningful when HasArgs is set.
	Args    interface{}
	HasArgs bool
	// Options is the side-channel options bag (ArgsKey removed).
	Options map[string]interface{}
	// Unbound counts positional values that could not be placed because the
	// schema is unknown and an explicit override took their place.
	Unbound int
}

// Payload returns Args as a mapping when it is one.
func (c *Call) Payload() (map[string]interface{}, bool) {
	if c == nil || !c.HasArgs {
		return nil, false
	}
	return conv.Mapping(c.Args)
}

// Reconcile turns heterogeneous call arguments into a canonical payload and
// an options bag. info may be nil when the tool schema is unknown.
//
// With a known schema the payload is built from, in increasing precedence:
// the "args" override, positional values bound to info.Keys, argument-bag
// mappings and finally defaults for keys still absent. Every required key
// must then be present.
func Reconcile(info *Info, args ...interface{}) (*Call, error) {
	var (
		positional []interface{}
		bag        map[string]interface{}
		options    = map[string]interface{}{}
	)
	for _, arg := range args {
		if KindOf(arg) != Mapping {
			positional = append(positional, arg)
			continue
		}
		m, _ := conv.Mapping(arg)
		if info != nil && len(m) > 0 && info.HasAll(m) {
			if bag == nil {
				bag = make(map[string]interface{}, len(m))
			}
			merge(bag, m)
			continue
		}
		merge(options, m)
	}

	override, hasOverride := options[ArgsKey]
	delete(options, ArgsKey)
	if info == nil {
		return fallback(positional, override, hasOverride, options), nil
	}

	payload := map[string]interface{}{}
	if hasOverride && override != nil {
		m, ok := conv.Mapping(override)
		if !ok {
			return nil, fmt.Errorf("tool %q: %w: expected mapping, got %T", info.Name, ErrInvalidOverride, override)
		}
		merge(payload, m)
	}
	if len(positional) > len(info.Keys) {
		return nil, &TooManyPositionalError{Tool: info.Name, Got: len(positional), Declared: len(info.Keys)}
	}
	for i, value := range positional {
		payload[info.Keys[i]] = value
	}
	merge(payload, bag)
	for _, key := range info.Keys {
		if _, ok := payload[key]; ok {
			continue
		}
		if value, ok := info.Default(key); ok {
			payload[key] = conv.Clone(value)
		}
	}

	var missing []string
	for _, key := range info.Required {
		if _, ok := payload[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingArgumentsError{Tool: info.Name, Missing: missing}
	}
	return &Call{Args: payload, HasArgs: true, Options: options}, nil
}

// fallback handles calls whose tool schema is unknown: nothing can be bound,
// defaulted or validated, so arguments are passed through uninterpreted.
func fallback(positional []interface{}, override interface{}, hasOverride bool, options map[string]interface{}) *Call {
	call := &Call{Options: options}
	switch {
	case hasOverride:
		call.Args, call.HasArgs = override, true
		if m, ok := conv.Mapping(override); ok {
			call.Args = m
		}
		call.Unbound = len(positional)
	case len(positional) == 1:
		call.Args, call.HasArgs = positional[0], true
	case len(positional) > 1:
		call.Args, call.HasArgs = append([]interface{}{}, positional...), true
	}
	return call
}

func merge(dest, src map[string]interface{}) {
	for k, v := range src {
		dest[k] = v
	}
}
