package mcp

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/toolproxy/mcp/config"
	"gopkg.in/yaml.v3"
)

// registerEndpoints creates a client and a dispatcher for every configured
// endpoint. Failures are fatal with FailFast and logged otherwise.
func (s *Service) registerEndpoints(ctx context.Context) error {
	endpoints, err := s.loadEndpoints(ctx)
	if err != nil {
		return err
	}
	for _, ep := range endpoints {
		if err := s.RegisterEndpoint(ctx, ep); err != nil {
			if s.config.Proxy.FailFast {
				return err
			}
			s.logger.Warn().Str("endpoint", ep.Key()).Err(err).Msg("skipping endpoint")
		}
	}
	return nil
}

// loadEndpoints resolves endpoint options either embedded directly in the
// config or referenced via URL.
func (s *Service) loadEndpoints(ctx context.Context) ([]*config.Endpoint, error) {
	if s.config.MCP == nil {
		return nil, nil
	}
	// Inline options take precedence.
	if len(s.config.MCP.Items) > 0 {
		return s.config.MCP.Items, nil
	}
	if s.config.MCP.URL == "" {
		return nil, nil
	}

	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, s.config.MCP.URL)
	if err != nil {
		return nil, fmt.Errorf("download endpoints config %q: %w", s.config.MCP.URL, err)
	}
	var out []*config.Endpoint
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse endpoints config %q: %w", s.config.MCP.URL, err)
	}
	if err := config.ValidateEndpoints(out); err != nil {
		return nil, fmt.Errorf("endpoints config %q: %w", s.config.MCP.URL, err)
	}
	return out, nil
}
