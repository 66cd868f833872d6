// Package docs looks library documentation up through an MCP documentation
// endpoint exposing "resolve-library-id" and "get-library-docs" tools.
package docs

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/viant/toolproxy/mcp/result"
)

// DefaultTokens is the documentation size requested when none is given.
const DefaultTokens = 10000

// Invoker dispatches dynamically named tool calls.
type Invoker interface {
	Invoke(ctx context.Context, name string, args ...interface{}) (*result.View, error)
}

// Doc is a documentation lookup outcome.
type Doc struct {
	LibraryID string `json:"libraryId"`
	Topic     string `json:"topic,omitempty"`
	Content   string `json:"content"`
}

// Service resolves libraries and fetches their documentation.
type Service struct {
	invoker Invoker
}

// New creates a documentation service over invoker.
func New(invoker Invoker) *Service {
	return &Service{invoker: invoker}
}

var libraryIDExpr = regexp.MustCompile(`(?i)library\s*ID:\s*(\S+)`)

// Resolve returns the library identifier matching a library name.
func (s *Service) Resolve(ctx context.Context, library string) (string, error) {
	view, err := s.invoker.Invoke(ctx, "resolveLibraryId", map[string]interface{}{"libraryName": library})
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", library, err)
	}
	if err := view.Err(); err != nil {
		return "", fmt.Errorf("resolve %q: %w", library, err)
	}
	id, ok := ParseLibraryID(view.Text())
	if !ok {
		return "", fmt.Errorf("resolve %q: no library id in response", library)
	}
	return id, nil
}

// Lookup fetches documentation of library for topic. A library starting
// with "/" is taken as an identifier and is not resolved.
func (s *Service) Lookup(ctx context.Context, library, topic string, tokens int) (*Doc, error) {
	library = strings.TrimSpace(library)
	if library == "" {
		return nil, fmt.Errorf("library is required")
	}
	id := library
	if !strings.HasPrefix(library, "/") {
		var err error
		if id, err = s.Resolve(ctx, library); err != nil {
			return nil, err
		}
	}
	if tokens <= 0 {
		tokens = DefaultTokens
	}
	options := map[string]interface{}{"tokens": tokens}
	if topic != "" {
		options["topic"] = topic
	}
	view, err := s.invoker.Invoke(ctx, "getLibraryDocs", id, options)
	if err != nil {
		return nil, fmt.Errorf("docs %q: %w", id, err)
	}
	if err := view.Err(); err != nil {
		return nil, fmt.Errorf("docs %q: %w", id, err)
	}
	content := view.Text()
	if md, ok := view.Markdown(); ok {
		content = md
	}
	return &Doc{LibraryID: id, Topic: topic, Content: content}, nil
}

// ParseLibraryID extracts a library identifier from a resolution response:
// either a "Library ID: <id>" line or the first line starting with "/".
func ParseLibraryID(text string) (string, bool) {
	if m := libraryIDExpr.FindStringSubmatch(text); len(m) == 2 {
		if id := cleanID(m[1]); id != "" {
			return id, true
		}
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "/") {
			continue
		}
		if id := cleanID(strings.Fields(line)[0]); id != "" {
			return id, true
		}
	}
	return "", false
}

func cleanID(id string) string {
	return strings.Trim(id, "`'\".,;")
}
