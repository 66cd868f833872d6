package mcp

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/viant/fluxor/model/types"
	mcp "github.com/viant/mcp"
	protocolclient "github.com/viant/mcp-protocol/client"
	mcpclient "github.com/viant/mcp/client"
	"github.com/viant/toolproxy/internal/logging"
	"github.com/viant/toolproxy/internal/syncmap"
	"github.com/viant/toolproxy/mcp/config"
	"github.com/viant/toolproxy/mcp/matcher"
	"github.com/viant/toolproxy/mcp/result"
	"github.com/viant/toolproxy/mcp/tool"
)

// ErrUnknownEndpoint is returned for endpoint names that were never registered.
var ErrUnknownEndpoint = errors.New("unknown endpoint")

// Service bundles configuration, MCP clients and one call dispatcher per
// remote endpoint. It is the tool.Transport of every dispatcher and shares a
// single schema registry between them.
type Service struct {
	config        *config.Config
	logger        zerolog.Logger
	clientHandler protocolclient.Handler
	mapper        tool.Mapper
	loggerSet     bool
	registry      *tool.Registry

	clients *syncmap.Map[mcpclient.Interface]
	proxies *syncmap.Map[*tool.Proxy]

	// guards order
	mu    sync.RWMutex
	order []string
}

// Option modifies a service instance before it is initialised.
type Option func(*Service)

// WithConfig sets a custom configuration instance. When omitted a zero value
// config is assumed.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// WithLogger sets the base logger; a logger built from the config is used
// otherwise.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
		s.loggerSet = true
	}
}

// WithClientHandler overrides the handler of server-initiated requests on
// outgoing MCP connections.
func WithClientHandler(handler protocolclient.Handler) Option {
	return func(s *Service) {
		s.clientHandler = handler
	}
}

// WithMapper overrides the default call name mapper. Configured aliases are
// still consulted first.
func WithMapper(mapper tool.Mapper) Option {
	return func(s *Service) {
		s.mapper = mapper
	}
}

// New constructs a service, registers every configured endpoint and warms
// schema caches up when configured to.
func New(ctx context.Context, opts ...Option) (*Service, error) {
	svc := &Service{
		clients: syncmap.New[mcpclient.Interface](),
		proxies: syncmap.New[*tool.Proxy](),
	}
	for _, opt := range opts {
		opt(svc)
	}
	if err := svc.init(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

// NewWithConfig is a shorthand for New(ctx, WithConfig(cfg), opts...).
func NewWithConfig(ctx context.Context, cfg *config.Config, opts ...Option) (*Service, error) {
	return New(ctx, append([]Option{WithConfig(cfg)}, opts...)...)
}

func (s *Service) init(ctx context.Context) error {
	if s.config == nil {
		s.config = &config.Config{}
	}
	s.config.Init()
	if err := s.config.Validate(); err != nil {
		return err
	}
	if !s.loggerSet {
		logger, err := logging.New(s.config.Log.Level, s.config.Log.Format, nil)
		if err != nil {
			return err
		}
		s.logger = logger
	}
	if s.clientHandler == nil {
		s.clientHandler = newClientHandler(logging.Component(s.logger, "client"))
	}
	if s.mapper == nil {
		s.mapper = tool.Canonical
	}
	s.registry = tool.NewRegistry(s,
		tool.WithRegistryMapper(s.mapper),
		tool.WithRegistryLogger(logging.Component(s.logger, "registry")))

	if err := s.registerEndpoints(ctx); err != nil {
		return fmt.Errorf("register endpoints: %w", err)
	}
	if !s.config.Proxy.Warmup {
		return nil
	}
	if err := s.Warmup(ctx); err != nil {
		if s.config.Proxy.FailFast {
			return err
		}
		s.logger.Warn().Err(err).Msg("warm-up incomplete")
	}
	return nil
}

// Config returns the effective configuration. Callers must treat the
// returned object as read-only.
func (s *Service) Config() *config.Config { return s.config }

// Logger returns the service logger.
func (s *Service) Logger() zerolog.Logger { return s.logger }

// Registry returns the schema registry shared by every endpoint.
func (s *Service) Registry() *tool.Registry { return s.registry }

// RegisterEndpoint creates an MCP client for ep and registers it.
func (s *Service) RegisterEndpoint(ctx context.Context, ep *config.Endpoint) error {
	if ep == nil || ep.ClientOptions == nil {
		return fmt.Errorf("nil endpoint options")
	}
	ep.ClientOptions.Init()
	cli, err := mcp.NewClient(s.ClientHandler(), ep.ClientOptions)
	if err != nil {
		return fmt.Errorf("create mcp client %q: %w", ep.Key(), err)
	}
	return s.RegisterClient(ep, cli)
}

// RegisterClient registers an already connected client under ep's name and
// creates its dispatcher. Tools are listed lazily, on the first call.
func (s *Service) RegisterClient(ep *config.Endpoint, cli mcpclient.Interface) error {
	name := ep.Key()
	if name == "" {
		return fmt.Errorf("endpoint name is required")
	}
	if _, stored := s.clients.SetIfAbsent(name, cli); !stored {
		return fmt.Errorf("endpoint %q: already registered", name)
	}
	logger := logging.Component(s.logger, "proxy").With().Str("endpoint", name).Logger()
	proxy := tool.NewProxy(name, s.registry, s,
		tool.WithMapper(tool.WithAliases(s.config.AliasesFor(ep), s.mapper)),
		tool.WithValidation(s.config.StrictFor(ep)),
		tool.WithLogger(logger))
	s.proxies.Set(name, proxy)

	s.mu.Lock()
	s.order = append(s.order, name)
	s.mu.Unlock()
	logger.Debug().Msg("endpoint registered")
	return nil
}

// Endpoints returns endpoint names in registration order.
func (s *Service) Endpoints() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.order...)
}

// Proxy returns the dispatcher of the named endpoint.
func (s *Service) Proxy(endpoint string) (*tool.Proxy, error) {
	proxy, ok := s.proxies.Lookup(endpoint)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEndpoint, endpoint)
	}
	return proxy, nil
}

// Invoke dispatches a dynamically named call on endpoint; see tool.Proxy.
func (s *Service) Invoke(ctx context.Context, endpoint, name string, args ...interface{}) (*result.View, error) {
	proxy, err := s.Proxy(endpoint)
	if err != nil {
		return nil, err
	}
	return proxy.Invoke(ctx, name, args...)
}

// Extensions returns endpoint dispatchers as workflow action services.
// Their tool methods are listed once the endpoint schemas are loaded.
func (s *Service) Extensions() []types.Service {
	var ret []types.Service
	for _, name := range s.Endpoints() {
		if proxy, ok := s.proxies.Lookup(name); ok {
			ret = append(ret, proxy)
		}
	}
	return ret
}

// ToolMatch is a tool of a given endpoint.
type ToolMatch struct {
	Endpoint string
	Tool     *tool.Info
}

// MatchTools lists cached tool schemas whose names match a comma separated
// pattern list (see matcher.MatchAny). An empty endpoint searches all.
func (s *Service) MatchTools(ctx context.Context, endpoint, patterns string) ([]ToolMatch, error) {
	endpoints := s.Endpoints()
	if endpoint != "" {
		if _, err := s.Proxy(endpoint); err != nil {
			return nil, err
		}
		endpoints = []string{endpoint}
	}
	if strings.TrimSpace(patterns) == "" {
		patterns = "*"
	}
	var ret []ToolMatch
	for _, name := range endpoints {
		infos, err := s.registry.Load(ctx, name)
		if err != nil {
			return nil, err
		}
		sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
		for _, info := range infos {
			if matcher.MatchAny(patterns, info.Name) {
				ret = append(ret, ToolMatch{Endpoint: name, Tool: info})
			}
		}
	}
	return ret, nil
}
