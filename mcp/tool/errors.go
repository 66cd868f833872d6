package tool

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTooManyPositionalArguments is returned when a call supplies more
	// positional values than the tool schema declares properties.
	ErrTooManyPositionalArguments = errors.New("too many positional arguments")
	// ErrMissingRequiredArguments is returned when required properties are
	// absent after reconciliation; see MissingArgumentsError.
	ErrMissingRequiredArguments = errors.New("missing required arguments")
	// ErrSchemaFetch marks a failed tool listing. Proxies recover from it.
	ErrSchemaFetch = errors.New("schema fetch failed")
	// ErrInvalidCallName is returned for names that cannot identify a tool.
	ErrInvalidCallName = errors.New("invalid call name")
	// ErrInvalidOverride is returned when the explicit "args" override is not
	// a mapping while the tool schema is known.
	ErrInvalidOverride = errors.New("invalid args override")
	// ErrInvalidArguments is returned by strict validation.
	ErrInvalidArguments = errors.New("invalid arguments")
)

// TooManyPositionalError reports a positional count above the declared keys.
type TooManyPositionalError struct {
	Tool     string
	Got      int
	Declared int
}

func (e *TooManyPositionalError) Error() string {
	return fmt.Sprintf("tool %q: %v: got %d, schema declares %d", e.Tool, ErrTooManyPositionalArguments, e.Got, e.Declared)
}

func (e *TooManyPositionalError) Unwrap() error { return ErrTooManyPositionalArguments }

// MissingArgumentsError lists exactly the required properties absent from a
// reconciled payload, in schema key order.
type MissingArgumentsError struct {
	Tool    string
	Missing []string
}

func (e *MissingArgumentsError) Error() string {
	return fmt.Sprintf("tool %q: %v: %s", e.Tool, ErrMissingRequiredArguments, strings.Join(e.Missing, ", "))
}

func (e *MissingArgumentsError) Unwrap() error { return ErrMissingRequiredArguments }

// FetchError wraps a transport failure while listing an endpoint's tools.
type FetchError struct {
	Endpoint string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("endpoint %q: %v: %v", e.Endpoint, ErrSchemaFetch, e.Err)
}

func (e *FetchError) Unwrap() []error { return []error{ErrSchemaFetch, e.Err} }
