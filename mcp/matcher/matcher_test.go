package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	var testCases = []struct {
		pattern   string
		candidate string
		matched   bool
	}{
		{"*", "anything", true},
		{"", "anything", false},
		{"resolve-library-id", "resolve-library-id", true},
		{"resolve", "resolve-library-id", true},
		{"resolve*", "resolve-library-id", true},
		{"get_", "get_library_docs", true},
		{"get-", "get_library_docs", false},
		{" firecrawl ", "firecrawl_scrape", true},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.matched, Match(tc.pattern, tc.candidate), "Match(%q, %q)", tc.pattern, tc.candidate)
	}
}

func TestMatchAny(t *testing.T) {
	var testCases = []struct {
		patterns  string
		candidate string
		matched   bool
	}{
		{"resolve,get", "get_library_docs", true},
		{"resolve, firecrawl*", "firecrawl_map", true},
		{"resolve,get", "firecrawl_map", false},
		{"", "anything", false},
		{",,*", "anything", true},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.matched, MatchAny(tc.patterns, tc.candidate), "MatchAny(%q, %q)", tc.patterns, tc.candidate)
	}
}
