package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	mcpschema "github.com/viant/mcp-protocol/schema"
	"github.com/viant/toolproxy/internal/conv"
	"github.com/viant/toolproxy/mcp/result"
)

func newTestProxy(transport *fakeTransport, opts ...Option) *Proxy {
	return NewProxy("docs", NewRegistry(transport), transport, opts...)
}

func TestProxy_Invoke(t *testing.T) {
	transport := &fakeTransport{tools: docsTools()}
	proxy := newTestProxy(transport)

	view, err := proxy.Invoke(context.Background(), "resolveLibraryId", map[string]interface{}{"libraryName": "react"})
	require.NoError(t, err)
	assert.Equal(t, "ok", view.Text())

	calls := transport.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, "docs", calls[0].endpoint)
	assert.Equal(t, "resolve-library-id", calls[0].name)
	payload, ok := calls[0].call.Payload()
	require.True(t, ok)
	assert.EqualValues(t, map[string]interface{}{"libraryName": "react"}, payload)
}

func TestProxy_InvokeForwardsRawToolID(t *testing.T) {
	transport := &fakeTransport{tools: docsTools()}
	proxy := newTestProxy(transport)

	_, err := proxy.Invoke(context.Background(), "getLibraryDocs", "/facebook/react", map[string]interface{}{"topic": "hooks"})
	require.NoError(t, err)

	calls := transport.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, "get_library_docs", calls[0].name)
	payload, _ := calls[0].call.Payload()
	assert.EqualValues(t, map[string]interface{}{
		"context7CompatibleLibraryID": "/facebook/react",
		"topic":                       "hooks",
		"tokens":                      10000,
	}, payload)
}

func TestProxy_MissingRequiredNeverInvokes(t *testing.T) {
	transport := &fakeTransport{tools: []*mcpschema.Tool{newTool("echo", []string{"value"}, nil)}}
	proxy := newTestProxy(transport)

	_, err := proxy.Invoke(context.Background(), "echo")
	require.Error(t, err)
	var missing *MissingArgumentsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"value"}, missing.Missing)
	assert.Empty(t, transport.recorded())
}

func TestProxy_SchemaFetchFailurePassesThrough(t *testing.T) {
	transport := &fakeTransport{listErr: errors.New("boom")}
	proxy := newTestProxy(transport)

	_, err := proxy.Invoke(context.Background(), "anything", map[string]interface{}{"foo": "bar"})
	require.NoError(t, err)

	calls := transport.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, "anything", calls[0].name)
	assert.False(t, calls[0].call.HasArgs)
	assert.EqualValues(t, map[string]interface{}{"foo": "bar"}, calls[0].call.Options)
}

func TestProxy_UnknownToolUsesMappedName(t *testing.T) {
	transport := &fakeTransport{tools: docsTools()}
	proxy := newTestProxy(transport)

	_, err := proxy.Invoke(context.Background(), "searchWeb", "golang")
	require.NoError(t, err)
	calls := transport.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, "search-web", calls[0].name)
	assert.Equal(t, "golang", calls[0].call.Args)
}

func TestProxy_InvalidName(t *testing.T) {
	transport := &fakeTransport{tools: docsTools()}
	proxy := newTestProxy(transport, WithMapper(func(string) string { return "" }))

	for _, name := range []string{"", "   ", "resolveLibraryId"} {
		_, err := proxy.Invoke(context.Background(), name)
		assert.ErrorIs(t, err, ErrInvalidCallName, name)
	}
	assert.Zero(t, transport.listCalls.Load())
}

func TestProxy_Aliases(t *testing.T) {
	transport := &fakeTransport{tools: docsTools()}
	proxy := newTestProxy(transport, WithMapper(WithAliases(map[string]string{"docs": "get_library_docs"}, nil)))

	_, err := proxy.Invoke(context.Background(), "docs", "/vercel/next.js")
	require.NoError(t, err)
	calls := transport.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, "get_library_docs", calls[0].name)
}

func TestProxy_Validation(t *testing.T) {
	tools := []*mcpschema.Tool{newTool("scrape", []string{"url"}, map[string]map[string]interface{}{
		"url":     {"type": "string"},
		"waitFor": {"type": "integer"},
	})}

	t.Run("rejects wrong type", func(t *testing.T) {
		transport := &fakeTransport{tools: tools}
		proxy := newTestProxy(transport, WithValidation(true))
		_, err := proxy.Invoke(context.Background(), "scrape", "https://x", map[string]interface{}{"waitFor": "soon"})
		assert.ErrorIs(t, err, ErrInvalidArguments)
		assert.Empty(t, transport.recorded())
	})

	t.Run("accepts valid payload", func(t *testing.T) {
		transport := &fakeTransport{tools: tools}
		proxy := newTestProxy(transport, WithValidation(true))
		_, err := proxy.Invoke(context.Background(), "scrape", "https://x", map[string]interface{}{"waitFor": 5000})
		require.NoError(t, err)
		assert.Len(t, transport.recorded(), 1)
	})

	t.Run("disabled by default", func(t *testing.T) {
		transport := &fakeTransport{tools: tools}
		proxy := newTestProxy(transport)
		_, err := proxy.Invoke(context.Background(), "scrape", "https://x", map[string]interface{}{"waitFor": "soon"})
		require.NoError(t, err)
	})
}

func TestProxy_TransportError(t *testing.T) {
	transport := &fakeTransport{tools: docsTools(), err: errors.New("reset by peer")}
	proxy := newTestProxy(transport)
	_, err := proxy.Invoke(context.Background(), "resolveLibraryId", "react")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reset by peer")
}

func TestProxy_Service(t *testing.T) {
	transport := &fakeTransport{tools: docsTools(), result: &mcpschema.CallToolResult{
		Content: []mcpschema.CallToolResultContentElem{{Type: "text", Text: `{"id":"/facebook/react"}`}},
	}}
	proxy := newTestProxy(transport)
	ctx := context.Background()

	assert.Equal(t, "docs", proxy.Name())
	assert.Len(t, proxy.Methods(), 2)
	require.NoError(t, proxy.Load(ctx))
	methods := proxy.Methods()
	require.Len(t, methods, 4)
	sig := methods.Lookup("get_library_docs")
	require.NotNil(t, sig)
	_, ok := sig.Input.FieldByName("Context7CompatibleLibraryID")
	assert.True(t, ok)
	inType, ok := proxy.InputType("get_library_docs")
	require.True(t, ok)
	assert.Equal(t, sig.Input, inType)
	_, ok = proxy.InputType("getLibraryDocs")
	assert.False(t, ok)

	t.Run("dynamic method with struct input", func(t *testing.T) {
		exec, err := proxy.Method("resolveLibraryId")
		require.NoError(t, err)
		input := &struct {
			LibraryName string `json:"libraryName"`
		}{LibraryName: "react"}
		var output interface{}
		require.NoError(t, exec(ctx, input, &output))
		assert.Equal(t, map[string]interface{}{"id": "/facebook/react"}, output)
	})

	t.Run("callTool passthrough", func(t *testing.T) {
		exec, err := proxy.Method(MethodCallTool)
		require.NoError(t, err)
		var view *result.View
		require.NoError(t, exec(ctx, &CallRequest{Name: "raw-name", Args: map[string]interface{}{"q": 1}}, &view))
		require.NotNil(t, view)
		calls := transport.recorded()
		last := calls[len(calls)-1]
		assert.Equal(t, "raw-name", last.name)
		assert.True(t, last.call.HasArgs)
	})

	t.Run("listTools", func(t *testing.T) {
		exec, err := proxy.Method(MethodListTools)
		require.NoError(t, err)
		var tools []*mcpschema.Tool
		require.NoError(t, exec(ctx, nil, &tools))
		assert.Len(t, tools, 3)
	})

	t.Run("tool error", func(t *testing.T) {
		failing := &fakeTransport{tools: docsTools(), result: &mcpschema.CallToolResult{
			IsError: conv.Pointer(true),
			Content: []mcpschema.CallToolResultContentElem{{Type: "text", Text: "rate limited"}},
		}}
		exec, err := newTestProxy(failing).Method("resolveLibraryId")
		require.NoError(t, err)
		err = exec(ctx, map[string]interface{}{"libraryName": "react"}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate limited")
	})

	t.Run("blank method", func(t *testing.T) {
		_, err := proxy.Method("")
		assert.Error(t, err)
	})
}
