package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	mcp "github.com/viant/mcp"
)

func TestLoad(t *testing.T) {
	content := `
log:
  level: debug
  format: json
proxy:
  strict: true
  warmup: true
  aliases:
    docs: get-library-docs
gateway:
  addr: ":9090"
mcp:
  items:
    - name: context7
      version: "1.0"
      aliases:
        docs: get_library_docs
      strict: false
      transport:
        type: sse
        url: http://localhost:5000/sse
    - name: firecrawl
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, ":9090", cfg.Gateway.Addr)
	assert.Equal(t, defaultConcurrency, cfg.Proxy.Concurrency)
	require.Len(t, cfg.MCP.Items, 2)

	context7 := cfg.MCP.Items[0]
	assert.Equal(t, "context7", context7.Key())
	assert.False(t, cfg.StrictFor(context7))
	assert.True(t, cfg.StrictFor(cfg.MCP.Items[1]))
	assert.Equal(t, map[string]string{"docs": "get_library_docs"}, cfg.AliasesFor(context7))
	assert.Equal(t, map[string]string{"docs": "get-library-docs"}, cfg.AliasesFor(cfg.MCP.Items[1]))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	endpoint := func(name string) *Endpoint {
		return &Endpoint{ClientOptions: &mcp.ClientOptions{Name: name}}
	}
	testCases := []struct {
		name      string
		config    *Config
		expectErr bool
	}{
		{name: "empty", config: &Config{}},
		{name: "valid endpoints", config: &Config{MCP: &Group[*Endpoint]{Items: []*Endpoint{endpoint("a"), endpoint("b")}}}},
		{name: "duplicate endpoint", config: &Config{MCP: &Group[*Endpoint]{Items: []*Endpoint{endpoint("a"), endpoint("a")}}}, expectErr: true},
		{name: "unnamed endpoint", config: &Config{MCP: &Group[*Endpoint]{Items: []*Endpoint{endpoint("")}}}, expectErr: true},
		{name: "endpoint without options", config: &Config{MCP: &Group[*Endpoint]{Items: []*Endpoint{{}}}}, expectErr: true},
		{name: "bad log format", config: &Config{Log: &Log{Format: "xml"}}, expectErr: true},
		{name: "negative concurrency", config: &Config{Proxy: &Proxy{Concurrency: -1}}, expectErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.config.Validate()
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestConfig_LogSummaryRedactsToken(t *testing.T) {
	cfg := &Config{
		Gateway: &Gateway{Addr: ":9090", Token: "s3cret"},
		MCP: &Group[*Endpoint]{Items: []*Endpoint{
			{ClientOptions: &mcp.ClientOptions{Name: "context7"}},
		}},
	}
	cfg.Init()

	buf := &bytes.Buffer{}
	logger := zerolog.New(buf)
	logger.Info().Object("config", cfg).Msg("configuration loaded")

	assert.NotContains(t, buf.String(), "s3cret")
	var record struct {
		Config map[string]interface{} `json:"config"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, true, record.Config["gatewayToken"])
	assert.Equal(t, ":9090", record.Config["gatewayAddr"])
	assert.Equal(t, []interface{}{"context7"}, record.Config["endpoints"])
	assert.Equal(t, "info", record.Config["logLevel"])
}
