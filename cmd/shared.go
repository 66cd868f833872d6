package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	mcpproto "github.com/viant/mcp"
	"github.com/viant/toolproxy/mcp"
	mcpconfig "github.com/viant/toolproxy/mcp/config"
	authctx "github.com/viant/toolproxy/mcp/context"
	"github.com/viant/toolproxy/mcp/tool"
)

var (
	cfgPath string
	options *Options

	svcOnce sync.Once
	svcInst *mcp.Service
	svcErr  error
)

// setConfigPath remembers the CLI-level -f/--config parameter so that the
// service singleton can be created lazily by whichever sub-command is executed
// first.
func setConfigPath(p string) { cfgPath = p }

// setOptions remembers parsed global options (--token, --url).
func setOptions(o *Options) { options = o }

// serviceSingleton initialises an mcp.Service only once and reuses the instance
// across sub-commands within the same CLI invocation.
func serviceSingleton() (*mcp.Service, error) {
	svcOnce.Do(func() {
		cfg := &mcpconfig.Config{}
		if cfgPath != "" {
			var err error
			if cfg, err = mcpconfig.Load(cfgPath); err != nil {
				svcErr = err
				return
			}
		}
		ctx := commandContext()
		if svcInst, svcErr = mcp.New(ctx, mcp.WithConfig(cfg)); svcErr != nil {
			return
		}
		logger := svcInst.Logger()
		logger.Debug().Str("path", cfgPath).Object("config", svcInst.Config()).Msg("configuration loaded")
		if options != nil && options.URL != "" {
			svcErr = svcInst.RegisterEndpoint(ctx, adhocEndpoint(adhocName(), options.URL))
		}
	})
	return svcInst, svcErr
}

// adhocEndpoint describes an SSE endpoint given on the command line.
func adhocEndpoint(name, address string) *mcpconfig.Endpoint {
	return &mcpconfig.Endpoint{ClientOptions: &mcpproto.ClientOptions{
		Name: name,
		Transport: mcpproto.ClientTransport{
			Type:                "sse",
			ClientTransportHTTP: mcpproto.ClientTransportHTTP{URL: address},
		},
	}}
}

func adhocName() string {
	if e := endpointOf(options); e != nil && e.Endpoint != "" {
		return e.Endpoint
	}
	return "default"
}

// endpointOf returns the endpoint option of the selected sub-command.
func endpointOf(o *Options) *EndpointOption {
	if o == nil {
		return nil
	}
	switch {
	case o.ListTools != nil:
		return &o.ListTools.EndpointOption
	case o.Tool != nil:
		return &o.Tool.EndpointOption
	case o.Exec != nil:
		return &o.Exec.EndpointOption
	case o.Call != nil:
		return &o.Call.EndpointOption
	case o.Docs != nil:
		return &o.Docs.EndpointOption
	}
	return nil
}

// commandContext carries the --token value to outgoing MCP connections.
func commandContext() context.Context {
	ctx := context.Background()
	if options != nil {
		ctx = authctx.WithAuthToken(ctx, options.Token)
	}
	return ctx
}

// resolveProxy returns the dispatcher of endpoint, defaulting to the only
// registered endpoint.
func resolveProxy(svc *mcp.Service, endpoint string) (*tool.Proxy, error) {
	if endpoint == "" {
		endpoints := svc.Endpoints()
		switch len(endpoints) {
		case 0:
			return nil, fmt.Errorf("no endpoints configured")
		case 1:
			endpoint = endpoints[0]
		default:
			return nil, fmt.Errorf("-e/--endpoint is required, one of: %s", strings.Join(endpoints, ", "))
		}
	}
	return svc.Proxy(endpoint)
}

// parseValue decodes a command line argument as JSON, falling back to the
// raw string ("react" and react are both the string react).
func parseValue(arg string) interface{} {
	var value interface{}
	if err := json.Unmarshal([]byte(arg), &value); err != nil {
		return arg
	}
	return value
}

func printJSON(v interface{}) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(data))
}
