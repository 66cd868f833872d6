package result

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	mcpschema "github.com/viant/mcp-protocol/schema"
	"github.com/viant/toolproxy/internal/conv"
)

func textResult(texts ...string) *mcpschema.CallToolResult {
	res := &mcpschema.CallToolResult{}
	for _, text := range texts {
		res.Content = append(res.Content, mcpschema.CallToolResultContentElem{Type: "text", Text: text})
	}
	return res
}

func TestView_Text(t *testing.T) {
	view := New(textResult("a", "b"))
	assert.Equal(t, "a\nb", view.Text())
	assert.False(t, view.IsError())
	assert.NoError(t, view.Err())
}

func TestView_JSON(t *testing.T) {
	view := New(textResult(`{"id":"/facebook/react","score":9}`))
	var out struct {
		ID    string `json:"id"`
		Score int    `json:"score"`
	}
	require.NoError(t, view.JSON(&out))
	assert.Equal(t, "/facebook/react", out.ID)
	assert.Equal(t, 9, out.Score)

	value, ok := view.Value()
	require.True(t, ok)
	assert.Equal(t, "/facebook/react", value.(map[string]interface{})["id"])
}

func TestView_Markdown(t *testing.T) {
	testCases := []struct {
		name   string
		text   string
		expect string
		ok     bool
	}{
		{name: "top level", text: `{"markdown":"# Title"}`, expect: "# Title", ok: true},
		{name: "nested data", text: `{"data":{"markdown":"body"}}`, expect: "body", ok: true},
		{name: "no markdown", text: `{"html":"<p/>"}`},
		{name: "plain text", text: `hello`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			md, ok := New(textResult(tc.text)).Markdown()
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expect, md)
		})
	}
}

func TestView_Error(t *testing.T) {
	res := textResult("boom")
	res.IsError = conv.Pointer(true)
	view := New(res)
	assert.True(t, view.IsError())
	assert.EqualError(t, view.Err(), "boom")
}

func TestView_Nil(t *testing.T) {
	view := New(nil)
	assert.Equal(t, "", view.Text())
	assert.Error(t, view.JSON(&map[string]interface{}{}))
}
