package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	mcp "github.com/viant/mcp"
	"gopkg.in/yaml.v3"
)

const (
	defaultGatewayAddr = ":8080"
	defaultConcurrency = 4
)

// Group holds inline items or a URL of a YAML document listing them.
type Group[T any] struct {
	URL   string `yaml:"url,omitempty" json:"url,omitempty" short:"u" long:"url" description:"url"`
	Items []T    `yaml:"items,omitempty" json:"items,omitempty" short:"i" long:"items" description:"items"`
}

type Config struct {
	// Server configures the aggregating MCP server started by "serve --mcp".
	Server  *mcp.ServerOptions `yaml:"server,omitempty" json:"server,omitempty"`
	Log     *Log               `yaml:"log,omitempty" json:"log,omitempty"`
	Proxy   *Proxy             `yaml:"proxy,omitempty" json:"proxy,omitempty"`
	Gateway *Gateway           `yaml:"gateway,omitempty" json:"gateway,omitempty"`
	MCP     *Group[*Endpoint]  `yaml:"mcp,omitempty" json:"mcp,omitempty"`
}

// Log configures the process logger.
type Log struct {
	Level  string `yaml:"level,omitempty" json:"level,omitempty"`
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
}

// Proxy configures call dispatch shared by every endpoint.
type Proxy struct {
	// Strict validates reconciled payloads against tool input schemas.
	Strict bool `yaml:"strict,omitempty" json:"strict,omitempty"`
	// Warmup lists the tools of every endpoint at startup.
	Warmup bool `yaml:"warmup,omitempty" json:"warmup,omitempty"`
	// FailFast turns warm-up and endpoint registration failures into
	// startup errors instead of warnings.
	FailFast    bool `yaml:"failFast,omitempty" json:"failFast,omitempty"`
	Concurrency int  `yaml:"concurrency,omitempty" json:"concurrency,omitempty"`
	// Aliases maps call names to tool identifiers on every endpoint.
	Aliases map[string]string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
}

// Gateway configures the HTTP gateway.
type Gateway struct {
	Addr string `yaml:"addr,omitempty" json:"addr,omitempty"`
	// Token, when set, is required as a bearer token on every request.
	Token string `yaml:"token,omitempty" json:"token,omitempty"`
}

// Endpoint augments mcp.ClientOptions with call adaptation settings.
type Endpoint struct {
	*mcp.ClientOptions `yaml:",inline" json:",inline"`
	// Aliases maps call names to tool identifiers on this endpoint only and
	// takes precedence over Proxy.Aliases.
	Aliases map[string]string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	// Strict overrides Proxy.Strict for this endpoint.
	Strict *bool `yaml:"strict,omitempty" json:"strict,omitempty"`
}

// Key returns the endpoint name.
func (e *Endpoint) Key() string {
	if e == nil || e.ClientOptions == nil {
		return ""
	}
	return e.ClientOptions.Name
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}
	cfg.Init()
	return &cfg, nil
}

// Init applies defaults to unset sections.
func (c *Config) Init() {
	if c.Log == nil {
		c.Log = &Log{}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Proxy == nil {
		c.Proxy = &Proxy{}
	}
	if c.Proxy.Concurrency == 0 {
		c.Proxy.Concurrency = defaultConcurrency
	}
	if c.Gateway == nil {
		c.Gateway = &Gateway{}
	}
	if c.Gateway.Addr == "" {
		c.Gateway.Addr = defaultGatewayAddr
	}
}

func (c *Config) Validate() error {
	if c.Log != nil {
		switch strings.ToLower(c.Log.Format) {
		case "", "console", "json":
		default:
			return fmt.Errorf("unsupported log format %q", c.Log.Format)
		}
	}
	if c.Proxy != nil && c.Proxy.Concurrency < 0 {
		return fmt.Errorf("invalid proxy concurrency: %d", c.Proxy.Concurrency)
	}
	if c.MCP != nil {
		return ValidateEndpoints(c.MCP.Items)
	}
	return nil
}

// ValidateEndpoints rejects endpoints without options or name, and
// duplicated names.
func ValidateEndpoints(endpoints []*Endpoint) error {
	seen := make(map[string]bool, len(endpoints))
	for i, ep := range endpoints {
		name := ep.Key()
		if name == "" {
			return fmt.Errorf("mcp endpoint #%d: name is required", i)
		}
		if seen[name] {
			return fmt.Errorf("mcp endpoint %q: duplicate name", name)
		}
		seen[name] = true
	}
	return nil
}

// StrictFor reports whether payload validation applies to ep.
func (c *Config) StrictFor(ep *Endpoint) bool {
	if ep != nil && ep.Strict != nil {
		return *ep.Strict
	}
	return c.Proxy != nil && c.Proxy.Strict
}

// AliasesFor merges global and endpoint aliases; endpoint entries win.
func (c *Config) AliasesFor(ep *Endpoint) map[string]string {
	out := map[string]string{}
	if c.Proxy != nil {
		for k, v := range c.Proxy.Aliases {
			out[k] = v
		}
	}
	if ep != nil {
		for k, v := range ep.Aliases {
			out[k] = v
		}
	}
	return out
}

// MarshalZerologObject logs a summary of c. Credentials are reported only as
// being set.
func (c *Config) MarshalZerologObject(e *zerolog.Event) {
	if c.Log != nil {
		e.Str("logLevel", c.Log.Level).Str("logFormat", c.Log.Format)
	}
	if c.Proxy != nil {
		e.Bool("strict", c.Proxy.Strict).
			Bool("warmup", c.Proxy.Warmup).
			Bool("failFast", c.Proxy.FailFast).
			Int("concurrency", c.Proxy.Concurrency).
			Int("aliases", len(c.Proxy.Aliases))
	}
	if c.Gateway != nil {
		e.Str("gatewayAddr", c.Gateway.Addr).Bool("gatewayToken", c.Gateway.Token != "")
	}
	if c.MCP != nil {
		names := make([]string, 0, len(c.MCP.Items))
		for _, ep := range c.MCP.Items {
			names = append(names, ep.Key())
		}
		e.Strs("endpoints", names)
		if c.MCP.URL != "" {
			e.Str("endpointsURL", c.MCP.URL)
		}
	}
}
