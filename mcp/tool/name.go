package tool

import (
	"strings"
	"unicode"
)

// Mapper turns an idiomatic call name (e.g. "resolveLibraryId") into the
// remote tool identifier.
type Mapper func(name string) string

// Canonical is the default Mapper: underscores become hyphens, a hyphen is
// inserted at every lower→upper case boundary and the result is lower-cased.
//
//	resolveLibraryId  -> resolve-library-id
//	get_library_docs  -> get-library-docs
func Canonical(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	var prev rune
	for i, r := range name {
		if r == '_' {
			r = '-'
		}
		if i > 0 && unicode.IsLower(prev) && unicode.IsUpper(r) {
			b.WriteByte('-')
		}
		b.WriteRune(unicode.ToLower(r))
		prev = r
	}
	return b.String()
}

// WithAliases returns a Mapper resolving names from aliases first and
// delegating everything else to next (Canonical when nil).
func WithAliases(aliases map[string]string, next Mapper) Mapper {
	if next == nil {
		next = Canonical
	}
	if len(aliases) == 0 {
		return next
	}
	table := make(map[string]string, len(aliases))
	for k, v := range aliases {
		table[k] = v
	}
	return func(name string) string {
		if mapped, ok := table[name]; ok {
			return mapped
		}
		return next(name)
	}
}
