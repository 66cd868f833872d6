package tool

import (
	"context"
	"sync"
	"sync/atomic"

	mcpschema "github.com/viant/mcp-protocol/schema"
)

type recordedCall struct {
	endpoint string
	name     string
	call     *Call
}

// fakeTransport serves a fixed tool listing and records tool calls.
type fakeTransport struct {
	tools   []*mcpschema.Tool
	listErr error
	// gate, when set, blocks listings until closed.
	gate      chan struct{}
	listCalls atomic.Int32

	mux    sync.Mutex
	calls  []recordedCall
	result *mcpschema.CallToolResult
	err    error
}

func (f *fakeTransport) ListTools(ctx context.Context, endpoint string) ([]*mcpschema.Tool, error) {
	f.listCalls.Add(1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mux.Lock()
	defer f.mux.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.tools, nil
}

func (f *fakeTransport) CallTool(ctx context.Context, endpoint, name string, call *Call) (*mcpschema.CallToolResult, error) {
	f.mux.Lock()
	defer f.mux.Unlock()
	f.calls = append(f.calls, recordedCall{endpoint: endpoint, name: name, call: call})
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &mcpschema.CallToolResult{Content: []mcpschema.CallToolResultContentElem{{Type: "text", Text: "ok"}}}, nil
}

func (f *fakeTransport) setListErr(err error) {
	f.mux.Lock()
	defer f.mux.Unlock()
	f.listErr = err
}

func (f *fakeTransport) recorded() []recordedCall {
	f.mux.Lock()
	defer f.mux.Unlock()
	return append([]recordedCall{}, f.calls...)
}
