package tool

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustInfo(t *testing.T, required []string, props map[string]map[string]interface{}) *Info {
	t.Helper()
	info, ok := NewInfo(newTool("tool", required, props))
	require.True(t, ok)
	return info
}

func scrapeInfo(t *testing.T) *Info {
	return mustInfo(t, []string{"url"}, map[string]map[string]interface{}{
		"url":     {"type": "string"},
		"formats": {"type": "array", "default": "markdown"},
		"waitFor": {"type": "integer"},
		"mobile":  {"type": "boolean", "default": false},
	})
}

func TestReconcile_KnownSchema(t *testing.T) {
	testCases := []struct {
		name          string
		info          func(t *testing.T) *Info
		args          []interface{}
		expectArgs    map[string]interface{}
		expectOptions map[string]interface{}
	}{
		{
			name: "single bag",
			info: func(t *testing.T) *Info {
				return mustInfo(t, []string{"libraryName"}, map[string]map[string]interface{}{"libraryName": {"type": "string"}})
			},
			args:          []interface{}{map[string]interface{}{"libraryName": "react"}},
			expectArgs:    map[string]interface{}{"libraryName": "react"},
			expectOptions: map[string]interface{}{},
		},
		{
			name: "default fills required key",
			info: func(t *testing.T) *Info {
				return mustInfo(t, []string{"foo"}, map[string]map[string]interface{}{"foo": {"default": 42}, "bar": {}})
			},
			args:          []interface{}{map[string]interface{}{"bar": "baz"}},
			expectArgs:    map[string]interface{}{"foo": 42, "bar": "baz"},
			expectOptions: map[string]interface{}{},
		},
		{
			name: "positional bag and options",
			info: scrapeInfo,
			args: []interface{}{
				"https://x",
				[]interface{}{"markdown", "html"},
				map[string]interface{}{"waitFor": 5000},
				map[string]interface{}{"tailLog": true},
			},
			expectArgs: map[string]interface{}{
				"url":     "https://x",
				"formats": []interface{}{"markdown", "html"},
				"waitFor": 5000,
				"mobile":  false,
			},
			expectOptions: map[string]interface{}{"tailLog": true},
		},
		{
			name: "positional values follow lexical optional order",
			info: scrapeInfo,
			args: []interface{}{"https://x", []interface{}{"markdown"}, true},
			expectArgs: map[string]interface{}{
				"url":     "https://x",
				"formats": []interface{}{"markdown"},
				"mobile":  true,
			},
			expectOptions: map[string]interface{}{},
		},
		{
			name: "bag overrides positional",
			info: scrapeInfo,
			args: []interface{}{
				"https://positional",
				map[string]interface{}{"url": "https://bag"},
			},
			expectArgs:    map[string]interface{}{"url": "https://bag", "formats": "markdown", "mobile": false},
			expectOptions: map[string]interface{}{},
		},
		{
			name: "positional overrides explicit args",
			info: scrapeInfo,
			args: []interface{}{
				"https://positional",
				map[string]interface{}{ArgsKey: map[string]interface{}{"url": "https://override", "mobile": true}, "timeout": 30},
			},
			expectArgs:    map[string]interface{}{"url": "https://positional", "formats": "markdown", "mobile": true},
			expectOptions: map[string]interface{}{"timeout": 30},
		},
		{
			name: "bag wins over positional and explicit args",
			info: scrapeInfo,
			args: []interface{}{
				map[string]interface{}{ArgsKey: map[string]interface{}{"url": "https://override", "waitFor": 7}},
				"https://positional",
				map[string]interface{}{"url": "https://bag"},
			},
			expectArgs:    map[string]interface{}{"url": "https://bag", "waitFor": 7, "formats": "markdown", "mobile": false},
			expectOptions: map[string]interface{}{},
		},
		{
			name: "later bags win",
			info: scrapeInfo,
			args: []interface{}{
				map[string]interface{}{"url": "https://first", "waitFor": 1},
				map[string]interface{}{"url": "https://second"},
			},
			expectArgs:    map[string]interface{}{"url": "https://second", "waitFor": 1, "formats": "markdown", "mobile": false},
			expectOptions: map[string]interface{}{},
		},
		{
			name: "mixed mapping goes to options",
			info: scrapeInfo,
			args: []interface{}{
				"https://x",
				map[string]interface{}{"waitFor": 10, "tailLog": true},
			},
			expectArgs:    map[string]interface{}{"url": "https://x", "formats": "markdown", "mobile": false},
			expectOptions: map[string]interface{}{"waitFor": 10, "tailLog": true},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			call, err := Reconcile(tc.info(t), tc.args...)
			require.NoError(t, err)
			require.True(t, call.HasArgs)
			payload, ok := call.Payload()
			require.True(t, ok)
			assert.EqualValues(t, tc.expectArgs, payload)
			assert.EqualValues(t, tc.expectOptions, call.Options)
			assert.Zero(t, call.Unbound)
		})
	}
}

func TestReconcile_Errors(t *testing.T) {
	t.Run("missing required", func(t *testing.T) {
		info := mustInfo(t, []string{"value"}, nil)
		_, err := Reconcile(info)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingRequiredArguments))
		var missing *MissingArgumentsError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, []string{"value"}, missing.Missing)
	})

	t.Run("missing lists only absent keys in order", func(t *testing.T) {
		info := mustInfo(t, []string{"b", "a", "c"}, nil)
		_, err := Reconcile(info, map[string]interface{}{"a": 1})
		var missing *MissingArgumentsError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, []string{"b", "c"}, missing.Missing)
	})

	t.Run("too many positional", func(t *testing.T) {
		info := mustInfo(t, []string{"value"}, nil)
		_, err := Reconcile(info, "a", "b")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrTooManyPositionalArguments))
		var tooMany *TooManyPositionalError
		require.True(t, errors.As(err, &tooMany))
		assert.Equal(t, 2, tooMany.Got)
		assert.Equal(t, 1, tooMany.Declared)
	})

	t.Run("scalar override with schema", func(t *testing.T) {
		info := mustInfo(t, []string{"value"}, nil)
		_, err := Reconcile(info, map[string]interface{}{ArgsKey: "raw"})
		assert.True(t, errors.Is(err, ErrInvalidOverride))
	})
}

func TestReconcile_UnknownSchema(t *testing.T) {
	testCases := []struct {
		name          string
		args          []interface{}
		expectHasArgs bool
		expectArgs    interface{}
		expectOptions map[string]interface{}
		expectUnbound int
	}{
		{
			name:          "mapping passes through as options",
			args:          []interface{}{map[string]interface{}{"foo": "bar"}},
			expectOptions: map[string]interface{}{"foo": "bar"},
		},
		{
			name:          "single positional verbatim",
			args:          []interface{}{"react"},
			expectHasArgs: true,
			expectArgs:    "react",
			expectOptions: map[string]interface{}{},
		},
		{
			name:          "several positional as sequence",
			args:          []interface{}{"react", 2},
			expectHasArgs: true,
			expectArgs:    []interface{}{"react", 2},
			expectOptions: map[string]interface{}{},
		},
		{
			name:          "explicit args win over positional",
			args:          []interface{}{"ignored", map[string]interface{}{ArgsKey: map[string]interface{}{"q": 1}, "tailLog": true}},
			expectHasArgs: true,
			expectArgs:    map[string]interface{}{"q": 1},
			expectOptions: map[string]interface{}{"tailLog": true},
			expectUnbound: 1,
		},
		{
			name:          "scalar override allowed",
			args:          []interface{}{map[string]interface{}{ArgsKey: "raw"}},
			expectHasArgs: true,
			expectArgs:    "raw",
			expectOptions: map[string]interface{}{},
		},
		{
			name:          "no arguments",
			expectOptions: map[string]interface{}{},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			call, err := Reconcile(nil, tc.args...)
			require.NoError(t, err)
			assert.Equal(t, tc.expectHasArgs, call.HasArgs)
			assert.EqualValues(t, tc.expectArgs, call.Args)
			assert.EqualValues(t, tc.expectOptions, call.Options)
			assert.Equal(t, tc.expectUnbound, call.Unbound)
		})
	}
}

func TestReconcile_DoesNotAliasInputs(t *testing.T) {
	info := mustInfo(t, []string{"url"}, map[string]map[string]interface{}{
		"url":  {},
		"tags": {"default": []interface{}{"a"}},
	})
	bag := map[string]interface{}{"url": "https://x"}
	override := map[string]interface{}{"url": "https://override"}
	options := map[string]interface{}{ArgsKey: override, "tailLog": true}

	first, err := Reconcile(info, bag, options)
	require.NoError(t, err)
	payload, _ := first.Payload()
	payload["url"] = "mutated"
	payload["tags"].([]interface{})[0] = "mutated"
	first.Options["tailLog"] = false

	assert.Equal(t, "https://x", bag["url"])
	assert.Equal(t, "https://override", override["url"])
	assert.Equal(t, true, options["tailLog"])
	assert.Contains(t, options, ArgsKey)
	def, _ := info.Default("tags")
	assert.Equal(t, []interface{}{"a"}, def)

	second, err := Reconcile(info, bag, options)
	require.NoError(t, err)
	payload, _ = second.Payload()
	assert.EqualValues(t, map[string]interface{}{"url": "https://x", "tags": []interface{}{"a"}}, payload)
}

func TestReconcile_Idempotent(t *testing.T) {
	info := scrapeInfo(t)
	args := []interface{}{"https://x", map[string]interface{}{"waitFor": 5}, map[string]interface{}{"tailLog": true}}
	first, err := Reconcile(info, args...)
	require.NoError(t, err)
	second, err := Reconcile(info, args...)
	require.NoError(t, err)
	assert.EqualValues(t, first, second)
}
