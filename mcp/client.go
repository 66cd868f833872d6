package mcp

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/viant/jsonrpc"
	protoclient "github.com/viant/mcp-protocol/client"
	mcpschema "github.com/viant/mcp-protocol/schema"
)

// clientHandler answers server-initiated requests on outgoing connections.
// The proxy offers no client capabilities, so requests are rejected and
// notifications (progress, logging) are only logged.
type clientHandler struct {
	logger     zerolog.Logger
	implements map[string]bool
}

func (d *clientHandler) Init(ctx context.Context, capabilities *mcpschema.ClientCapabilities) {
	if d.implements == nil {
		d.implements = make(map[string]bool)
	}
	if capabilities.Elicitation != nil {
		d.implements[mcpschema.MethodElicitationCreate] = true
	}
	if capabilities.Roots != nil {
		d.implements[mcpschema.MethodRootsList] = true
	}
	if capabilities.UserInteraction != nil {
		d.implements[mcpschema.MethodInteractionCreate] = true
	}
	if capabilities.Sampling != nil {
		d.implements[mcpschema.MethodSamplingCreateMessage] = true
	}
}

func (d *clientHandler) OnNotification(_ context.Context, notification *jsonrpc.Notification) {
	if notification == nil {
		return
	}
	d.logger.Debug().Str("method", notification.Method).Msg("server notification")
}

func (d *clientHandler) Implements(method string) bool {
	return d.implements[method]
}

func (*clientHandler) ListRoots(context.Context, *mcpschema.ListRootsRequestParams) (*mcpschema.ListRootsResult, *jsonrpc.Error) {
	return nil, jsonrpc.NewError(jsonrpc.MethodNotFound, "not implemented", nil)
}
func (*clientHandler) CreateMessage(context.Context, *mcpschema.CreateMessageRequestParams) (*mcpschema.CreateMessageResult, *jsonrpc.Error) {
	return nil, jsonrpc.NewError(jsonrpc.MethodNotFound, "not implemented", nil)
}
func (*clientHandler) Elicit(context.Context, *mcpschema.ElicitRequestParams) (*mcpschema.ElicitResult, *jsonrpc.Error) {
	return nil, jsonrpc.NewError(jsonrpc.MethodNotFound, "not implemented", nil)
}
func (*clientHandler) CreateUserInteraction(context.Context, *mcpschema.CreateUserInteractionRequestParams) (*mcpschema.CreateUserInteractionResult, *jsonrpc.Error) {
	return nil, jsonrpc.NewError(jsonrpc.MethodNotFound, "not implemented", nil)
}

func newClientHandler(logger zerolog.Logger) protoclient.Handler {
	return &clientHandler{logger: logger}
}

// ClientHandler returns the handler used for outgoing MCP connections.
func (s *Service) ClientHandler() protoclient.Handler {
	return s.clientHandler
}
