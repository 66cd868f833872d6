package mcp

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"
)

// Warmup lists the tools of every registered endpoint concurrently, bounded
// by the configured concurrency, and refreshes dispatcher signatures. All
// endpoints are attempted; the returned error joins every failure.
func (s *Service) Warmup(ctx context.Context) error {
	endpoints := s.Endpoints()
	if len(endpoints) == 0 {
		return nil
	}
	p := pool.New().WithErrors().WithContext(ctx)
	if s.config.Proxy.Concurrency > 0 {
		p = p.WithMaxGoroutines(s.config.Proxy.Concurrency)
	}
	for _, name := range endpoints {
		proxy, err := s.Proxy(name)
		if err != nil {
			continue
		}
		p.Go(func(ctx context.Context) error {
			if err := proxy.Load(ctx); err != nil {
				return fmt.Errorf("warm up %q: %w", proxy.Endpoint(), err)
			}
			s.logger.Debug().Str("endpoint", proxy.Endpoint()).Msg("endpoint warmed up")
			return nil
		})
	}
	return p.Wait()
}
