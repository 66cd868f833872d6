package tool

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// validatePayload checks a reconciled payload against the full tool input
// schema (types, enums, nested objects), beyond required-key presence.
func validatePayload(info *Info, call *Call) error {
	if len(info.Schema) == 0 || !call.HasArgs {
		return nil
	}
	doc, err := json.Marshal(call.Args)
	if err != nil {
		return fmt.Errorf("tool %q: %w: %v", info.Name, ErrInvalidArguments, err)
	}
	res, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(info.Schema), gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("tool %q: %w: %v", info.Name, ErrInvalidArguments, err)
	}
	if res.Valid() {
		return nil
	}
	var problems []string
	for _, e := range res.Errors() {
		problems = append(problems, e.String())
	}
	return fmt.Errorf("tool %q: %w: %s", info.Name, ErrInvalidArguments, strings.Join(problems, "; "))
}
