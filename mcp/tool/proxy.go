package tool

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/viant/fluxor/model/types"
	mcpschema "github.com/viant/mcp-protocol/schema"
	"github.com/viant/toolproxy/internal/conv"
	"github.com/viant/toolproxy/mcp/result"
	"github.com/viant/toolproxy/mcp/tool/conversion"
)

// Fixed-contract method names. They are resolved directly and never go
// through name mapping or argument reconciliation.
const (
	MethodListTools = "listTools"
	MethodCallTool  = "callTool"
)

// Transport lists and calls the tools of named endpoints.
type Transport interface {
	Lister
	CallTool(ctx context.Context, endpoint, name string, call *Call) (*mcpschema.CallToolResult, error)
}

// CallRequest is the input of the callTool passthrough method.
type CallRequest struct {
	Name    string                 `json:"name"`
	Args    map[string]interface{} `json:"args,omitempty"`
	Options map[string]interface{} `json:"options,omitempty"`
}

// Proxy dispatches dynamically named calls to the tools of one remote
// endpoint. It also implements types.Service so that remote tools can be
// registered as workflow actions.
type Proxy struct {
	endpoint  string
	registry  *Registry
	transport Transport
	mapper    Mapper
	logger    zerolog.Logger
	validate  bool

	mux  sync.RWMutex
	sigs types.Signatures
}

// Option customises a Proxy.
type Option func(*Proxy)

// WithMapper overrides the call name Mapper.
func WithMapper(mapper Mapper) Option {
	return func(p *Proxy) {
		if mapper != nil {
			p.mapper = mapper
		}
	}
}

// WithLogger sets the proxy logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Proxy) { p.logger = logger }
}

// WithValidation enables JSON schema validation of reconciled payloads.
func WithValidation(enabled bool) Option {
	return func(p *Proxy) { p.validate = enabled }
}

// NewProxy creates a dispatcher for endpoint.
func NewProxy(endpoint string, registry *Registry, transport Transport, opts ...Option) *Proxy {
	p := &Proxy{
		endpoint:  endpoint,
		registry:  registry,
		transport: transport,
		mapper:    Canonical,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.sigs = fixedSignatures()
	return p
}

// Endpoint returns the endpoint name.
func (p *Proxy) Endpoint() string { return p.endpoint }

// Invoke calls the tool resolved from name with raw call arguments: mappings,
// positional values or a mix of both (see Reconcile). A missing or failing
// schema is not fatal; arguments are then passed through uninterpreted.
func (p *Proxy) Invoke(ctx context.Context, name string, args ...interface{}) (*result.View, error) {
	toolName := ""
	if strings.TrimSpace(name) != "" {
		toolName = p.mapper(name)
	}
	if strings.TrimSpace(toolName) == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCallName, name)
	}
	logger := p.logger.With().Str("call", uuid.NewString()).Str("endpoint", p.endpoint).Str("tool", toolName).Logger()

	info, err := p.registry.Ensure(ctx, p.endpoint, toolName)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logger.Debug().Err(err).Msg("schema unavailable, passing arguments through")
	}
	call, err := Reconcile(info, args...)
	if err != nil {
		return nil, err
	}
	if info != nil {
		toolName = info.Name
		if p.validate {
			if err := validatePayload(info, call); err != nil {
				return nil, err
			}
		}
	} else if call.Unbound > 0 {
		logger.Warn().Int("unbound", call.Unbound).Msg("positional arguments ignored in favour of explicit args")
	}
	return p.forward(ctx, logger, toolName, call)
}

// CallTool calls the tool with exactly the given name and call, bypassing
// name mapping and reconciliation.
func (p *Proxy) CallTool(ctx context.Context, name string, call *Call) (*result.View, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCallName, name)
	}
	if call == nil {
		call = &Call{}
	}
	logger := p.logger.With().Str("call", uuid.NewString()).Str("endpoint", p.endpoint).Str("tool", name).Logger()
	return p.forward(ctx, logger, name, call)
}

// ListTools returns the raw tool listing of the endpoint. It is not cached.
func (p *Proxy) ListTools(ctx context.Context) ([]*mcpschema.Tool, error) {
	return p.transport.ListTools(ctx, p.endpoint)
}

// Tools returns cached schemas of every tool, populating the cache if needed.
func (p *Proxy) Tools(ctx context.Context) ([]*Info, error) {
	return p.registry.Load(ctx, p.endpoint)
}

// Schema returns the cached schema resolved from a call name.
func (p *Proxy) Schema(ctx context.Context, name string) (*Info, error) {
	return p.registry.Ensure(ctx, p.endpoint, p.mapper(name))
}

// Load populates the schema cache and generates a signature per remote tool.
func (p *Proxy) Load(ctx context.Context) error {
	infos, err := p.registry.Load(ctx, p.endpoint)
	if err != nil {
		return err
	}
	sigs := fixedSignatures()
	for _, info := range infos {
		inType, err := conversion.TypeFromSchema(info.Keys, info.Required, info.Properties)
		if err != nil {
			p.logger.Debug().Str("tool", info.Name).Err(err).Msg("falling back to generic input type")
			inType = reflect.TypeOf(map[string]interface{}{})
		}
		conversion.Register(p.typeName(info.Name), inType)
		sigs = append(sigs, types.Signature{
			Name:        info.Name,
			Description: info.Description,
			Input:       inType,
			Output:      reflect.TypeOf(&mcpschema.CallToolResult{}),
		})
	}
	p.mux.Lock()
	p.sigs = sigs
	p.mux.Unlock()
	return nil
}

// InputType returns the input type generated for a tool by Load.
func (p *Proxy) InputType(name string) (reflect.Type, bool) {
	return conversion.Lookup(p.typeName(name))
}

func (p *Proxy) typeName(name string) string {
	return p.endpoint + "." + name
}

func (p *Proxy) forward(ctx context.Context, logger zerolog.Logger, name string, call *Call) (*result.View, error) {
	logger.Debug().Bool("hasArgs", call.HasArgs).Int("options", len(call.Options)).Msg("invoking tool")
	res, err := p.transport.CallTool(ctx, p.endpoint, name, call)
	if err != nil {
		logger.Debug().Err(err).Msg("tool call failed")
		return nil, fmt.Errorf("call tool %q on %q: %w", name, p.endpoint, err)
	}
	view := result.New(res)
	logger.Debug().Bool("isError", view.IsError()).Msg("tool call completed")
	return view, nil
}

// Name implements types.Service.
func (p *Proxy) Name() string { return p.endpoint }

// Methods implements types.Service. Remote tools appear after Load.
func (p *Proxy) Methods() types.Signatures {
	p.mux.RLock()
	defer p.mux.RUnlock()
	return append(types.Signatures{}, p.sigs...)
}

// Method implements types.Service.
func (p *Proxy) Method(name string) (types.Executable, error) {
	switch name {
	case MethodListTools:
		return func(ctx context.Context, _, output interface{}) error {
			tools, err := p.ListTools(ctx)
			if err != nil {
				return err
			}
			if output != nil {
				return conv.Convert(tools, output)
			}
			return nil
		}, nil
	case MethodCallTool:
		return func(ctx context.Context, input, output interface{}) error {
			req := &CallRequest{}
			if err := conv.Convert(input, req); err != nil {
				return err
			}
			call := &Call{Options: req.Options}
			if req.Args != nil {
				call.Args, call.HasArgs = req.Args, true
			}
			view, err := p.CallTool(ctx, req.Name, call)
			if err != nil {
				return err
			}
			return writeOutput(view, output)
		}, nil
	}
	if strings.TrimSpace(name) == "" {
		return nil, types.NewMethodNotFoundError(name)
	}
	return func(ctx context.Context, input, output interface{}) error {
		var args []interface{}
		if input != nil {
			arg, err := actionArgument(input)
			if err != nil {
				return err
			}
			args = append(args, arg)
		}
		view, err := p.Invoke(ctx, name, args...)
		if err != nil {
			return err
		}
		if err := view.Err(); err != nil {
			return fmt.Errorf("tool %q: %w", name, err)
		}
		return writeOutput(view, output)
	}, nil
}

// actionArgument turns structs generated from tool schemas back into
// mappings so that they are reconciled as an argument bag.
func actionArgument(input interface{}) (interface{}, error) {
	v := reflect.ValueOf(input)
	for v.Kind() == reflect.Pointer && !v.IsNil() {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return input, nil
	}
	return conv.ToMap(input)
}

func writeOutput(view *result.View, output interface{}) error {
	switch v := output.(type) {
	case nil:
		return nil
	case *string:
		*v = view.Text()
	case **result.View:
		*v = view
	case **mcpschema.CallToolResult:
		*v = view.Raw()
	case *mcpschema.CallToolResult:
		*v = *view.Raw()
	case *interface{}:
		if value, ok := view.Value(); ok {
			*v = value
		} else {
			*v = view.Text()
		}
	default:
		if err := view.JSON(v); err != nil {
			return conv.Convert(view.Raw(), v)
		}
	}
	return nil
}

func fixedSignatures() types.Signatures {
	return types.Signatures{
		{
			Name:        MethodListTools,
			Description: "List tools exposed by the endpoint",
			Input:       reflect.TypeOf(struct{}{}),
			Output:      reflect.TypeOf([]*mcpschema.Tool{}),
		},
		{
			Name:        MethodCallTool,
			Description: "Call a tool by its exact name with explicit arguments",
			Input:       reflect.TypeOf(&CallRequest{}),
			Output:      reflect.TypeOf(&mcpschema.CallToolResult{}),
		},
	}
}
