package matcher

import "strings"

// Match reports whether name satisfies pattern: "*" matches everything, an
// empty pattern matches nothing and any other pattern is a name prefix. A
// trailing "*" is accepted and ignored ("resolve*" equals "resolve").
func Match(pattern, name string) bool {
	pattern = strings.TrimSpace(pattern)
	if pattern == "*" {
		return true
	}
	pattern = strings.TrimSuffix(pattern, "*")
	if pattern == "" {
		return false
	}
	return strings.HasPrefix(name, pattern)
}

// MatchAny reports whether name satisfies any pattern of a comma separated
// list, e.g. "resolve,get-library*".
func MatchAny(patterns, name string) bool {
	for _, pattern := range strings.Split(patterns, ",") {
		if Match(pattern, name) {
			return true
		}
	}
	return false
}
