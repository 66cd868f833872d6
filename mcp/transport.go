package mcp

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	mcpschema "github.com/viant/mcp-protocol/schema"
	mcpclient "github.com/viant/mcp/client"
	"github.com/viant/toolproxy/internal/conv"
	"github.com/viant/toolproxy/mcp/tool"
)

// Options bag keys interpreted by the transport.
const (
	// OptionTimeout bounds a single call: seconds as a number or a duration
	// string such as "90s".
	OptionTimeout = "timeout"
	// OptionTailLog logs the call outcome at info level.
	OptionTailLog = "tailLog"
)

func (s *Service) client(endpoint string) (mcpclient.Interface, error) {
	cli, ok := s.clients.Lookup(endpoint)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEndpoint, endpoint)
	}
	return cli, nil
}

// ListTools implements tool.Lister. Every page is fetched.
func (s *Service) ListTools(ctx context.Context, endpoint string) ([]*mcpschema.Tool, error) {
	cli, err := s.client(endpoint)
	if err != nil {
		return nil, err
	}
	var tools []*mcpschema.Tool
	var cursor *string
	for {
		res, err := cli.ListTools(ctx, cursor)
		if err != nil {
			return nil, err
		}
		for i := range res.Tools {
			tools = append(tools, &res.Tools[i])
		}
		if res.NextCursor == nil || *res.NextCursor == "" {
			break
		}
		cursor = res.NextCursor
	}
	return tools, nil
}

// CallTool implements tool.Transport.
func (s *Service) CallTool(ctx context.Context, endpoint, name string, call *tool.Call) (*mcpschema.CallToolResult, error) {
	cli, err := s.client(endpoint)
	if err != nil {
		return nil, err
	}
	args, err := callArguments(name, call)
	if err != nil {
		return nil, err
	}
	timeout, err := callTimeout(call.Options)
	if err != nil {
		return nil, fmt.Errorf("tool %q: %w", name, err)
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	started := time.Now()
	res, err := cli.CallTool(ctx, &mcpschema.CallToolRequestParams{
		Name:      name,
		Arguments: mcpschema.CallToolRequestParamsArguments(args),
	})
	if tailLog, _ := call.Options[OptionTailLog].(bool); tailLog {
		var event *zerolog.Event
		if err != nil {
			event = s.logger.Warn().Err(err)
		} else {
			event = s.logger.Info().Bool("isError", conv.Dereference(res.IsError))
		}
		event.Str("endpoint", endpoint).Str("tool", name).Dur("elapsed", time.Since(started)).Msg("tool call finished")
	}
	return res, err
}

// callArguments builds the wire arguments object. Without a payload the
// options bag, minus transport keys, is sent as is.
func callArguments(name string, call *tool.Call) (map[string]interface{}, error) {
	if !call.HasArgs {
		var args map[string]interface{}
		for k, v := range call.Options {
			if k == OptionTimeout || k == OptionTailLog {
				continue
			}
			if args == nil {
				args = make(map[string]interface{}, len(call.Options))
			}
			args[k] = v
		}
		return args, nil
	}
	if call.Args == nil {
		return map[string]interface{}{}, nil
	}
	if args, ok := call.Payload(); ok {
		return args, nil
	}
	return nil, fmt.Errorf("tool %q: %w: expected an object, got %T", name, tool.ErrInvalidArguments, call.Args)
}

func callTimeout(options map[string]interface{}) (time.Duration, error) {
	value, ok := options[OptionTimeout]
	if !ok || value == nil {
		return 0, nil
	}
	switch actual := value.(type) {
	case int:
		return time.Duration(actual) * time.Second, nil
	case int64:
		return time.Duration(actual) * time.Second, nil
	case float64:
		return time.Duration(actual * float64(time.Second)), nil
	case time.Duration:
		return actual, nil
	case string:
		actual = strings.TrimSpace(actual)
		if seconds, err := strconv.ParseFloat(actual, 64); err == nil {
			return time.Duration(seconds * float64(time.Second)), nil
		}
		d, err := time.ParseDuration(actual)
		if err != nil {
			return 0, fmt.Errorf("invalid %s option %q: %w", OptionTimeout, actual, err)
		}
		return d, nil
	}
	return 0, fmt.Errorf("invalid %s option type %T", OptionTimeout, value)
}
