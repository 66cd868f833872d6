package tool

import (
	"context"

	"github.com/rs/zerolog"
	mcpschema "github.com/viant/mcp-protocol/schema"
	"github.com/viant/toolproxy/internal/syncmap"
	"golang.org/x/sync/singleflight"
)

// Lister lists every tool exposed by an endpoint in one call.
type Lister interface {
	ListTools(ctx context.Context, endpoint string) ([]*mcpschema.Tool, error)
}

// catalog is the populated, read-only schema set of one endpoint.
type catalog struct {
	byName map[string]*Info
	infos  []*Info
}

// Registry caches tool schema metadata per endpoint. The first lookup for an
// endpoint triggers a single bulk listing shared by all concurrent callers; a
// failed listing is forgotten so that later lookups retry.
type Registry struct {
	lister   Lister
	mapper   Mapper
	logger   zerolog.Logger
	group    singleflight.Group
	catalogs *syncmap.Map[*catalog]
}

// RegistryOption customises a Registry.
type RegistryOption func(*Registry)

// WithRegistryMapper sets the Mapper used to derive alias keys.
func WithRegistryMapper(mapper Mapper) RegistryOption {
	return func(r *Registry) {
		if mapper != nil {
			r.mapper = mapper
		}
	}
}

// WithRegistryLogger sets the registry logger.
func WithRegistryLogger(logger zerolog.Logger) RegistryOption {
	return func(r *Registry) { r.logger = logger }
}

// NewRegistry creates a Registry backed by lister.
func NewRegistry(lister Lister, opts ...RegistryOption) *Registry {
	r := &Registry{
		lister:   lister,
		mapper:   Canonical,
		logger:   zerolog.Nop(),
		catalogs: syncmap.New[*catalog](),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Ensure returns the schema of the named tool. A nil Info with a nil error
// means the endpoint was listed but does not describe the tool; a populated
// endpoint is never listed again implicitly.
func (r *Registry) Ensure(ctx context.Context, endpoint, name string) (*Info, error) {
	c, err := r.load(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	return c.byName[name], nil
}

// Load populates the endpoint catalog when needed and returns every tool
// schema, one entry per remote tool, in listing order.
func (r *Registry) Load(ctx context.Context, endpoint string) ([]*Info, error) {
	c, err := r.load(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	return append([]*Info{}, c.infos...), nil
}

// Cached reports whether the endpoint catalog is populated.
func (r *Registry) Cached(endpoint string) bool {
	_, ok := r.catalogs.Lookup(endpoint)
	return ok
}

// Invalidate drops the endpoint catalog; the next lookup lists tools again.
func (r *Registry) Invalidate(endpoint string) {
	r.catalogs.Delete(endpoint)
}

func (r *Registry) load(ctx context.Context, endpoint string) (*catalog, error) {
	if c, ok := r.catalogs.Lookup(endpoint); ok {
		return c, nil
	}
	// The listing outlives callers that give up: other waiters may need it.
	fetchCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan(endpoint, func() (interface{}, error) {
		if c, ok := r.catalogs.Lookup(endpoint); ok {
			return c, nil
		}
		return r.fetch(fetchCtx, endpoint)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*catalog), nil
	}
}

func (r *Registry) fetch(ctx context.Context, endpoint string) (*catalog, error) {
	tools, err := r.lister.ListTools(ctx, endpoint)
	if err != nil {
		r.logger.Warn().Str("endpoint", endpoint).Err(err).Msg("tool listing failed")
		return nil, &FetchError{Endpoint: endpoint, Err: err}
	}
	c := &catalog{byName: make(map[string]*Info, 2*len(tools))}
	for _, t := range tools {
		info, ok := NewInfo(t)
		if !ok {
			continue
		}
		c.infos = append(c.infos, info)
		c.byName[info.Name] = info
		if alias := r.mapper(info.Name); alias != info.Name {
			if _, taken := c.byName[alias]; !taken {
				c.byName[alias] = info
			}
		}
	}
	r.catalogs.Set(endpoint, c)
	r.logger.Debug().Str("endpoint", endpoint).Int("tools", len(tools)).Int("schemas", len(c.infos)).Msg("tool schemas cached")
	return c, nil
}
