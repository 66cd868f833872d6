package mcp

import (
	"context"

	"github.com/viant/jsonrpc"
	"github.com/viant/jsonrpc/transport"
	protocolclient "github.com/viant/mcp-protocol/client"
	"github.com/viant/mcp-protocol/logger"
	mcpschema "github.com/viant/mcp-protocol/schema"
	serverproto "github.com/viant/mcp-protocol/server"
	"github.com/viant/toolproxy/internal/conv"
	"github.com/viant/toolproxy/mcp/tool"
)

// ServerToolName is the name under which a remote tool is re-exposed by the
// aggregating server.
func ServerToolName(endpoint, name string) string {
	return endpoint + "_" + name
}

// NewHandler returns an MCP server handler re-exposing the tools of every
// registered endpoint as ServerToolName(endpoint, tool). Calls are passed
// through unchanged. Endpoints whose tools cannot be listed are skipped.
func (s *Service) NewHandler(ctx context.Context, notifier transport.Notifier, l logger.Logger, cli protocolclient.Operations) (serverproto.Handler, error) {
	impl := serverproto.NewDefaultHandler(notifier, l, cli)
	for _, endpoint := range s.Endpoints() {
		proxy, err := s.Proxy(endpoint)
		if err != nil {
			continue
		}
		infos, err := proxy.Tools(ctx)
		if err != nil {
			s.logger.Warn().Str("endpoint", endpoint).Err(err).Msg("endpoint tools not exposed")
			continue
		}
		for _, info := range infos {
			entry := s.serverToolEntry(proxy, info)
			impl.Registry.ToolRegistry.Put(entry.Metadata.Name, entry)
		}
	}
	return impl, nil
}

func (s *Service) serverToolEntry(proxy *tool.Proxy, info *tool.Info) *serverproto.ToolEntry {
	description := info.Description
	entry := &serverproto.ToolEntry{
		Metadata: mcpschema.Tool{
			Name:        ServerToolName(proxy.Endpoint(), info.Name),
			Description: &description,
			InputSchema: mcpschema.ToolInputSchema{
				Type:       "object",
				Properties: info.Properties,
				Required:   info.Required,
			},
		},
	}
	toolName := info.Name
	entry.Handler = func(ctx context.Context, request *mcpschema.CallToolRequest) (*mcpschema.CallToolResult, *jsonrpc.Error) {
		args := map[string]interface{}(request.Params.Arguments)
		if args == nil {
			args = map[string]interface{}{}
		}
		view, err := proxy.CallTool(ctx, toolName, &tool.Call{Args: args, HasArgs: true})
		if err != nil {
			res := &mcpschema.CallToolResult{IsError: conv.Pointer(true)}
			res.Content = append(res.Content, mcpschema.CallToolResultContentElem{Type: "text", Text: err.Error()})
			return res, nil
		}
		return view.Raw(), nil
	}
	return entry
}
