package cmd

// Options is the root for the CLI. Struct tags are interpreted by
// github.com/jessevdk/go-flags.
type Options struct {
	Config string `short:"f" long:"config" description:"service configuration YAML/JSON path"`
	Token  string `long:"token" description:"bearer token forwarded to remote endpoints"`
	URL    string `long:"url" description:"ad hoc SSE endpoint address, registered under the -e/--endpoint name"`

	ListTools *ListToolsCmd `command:"list-tools" description:"List tools of the configured endpoints"`
	Tool      *ToolCmd      `command:"tool"       description:"Show detailed info about one remote tool"`
	Exec      *ExecCmd      `command:"exec"       description:"Invoke a tool by call name with positional and mapping arguments"`
	Call      *CallCmd      `command:"call"       description:"Call a tool by exact name with a raw arguments object"`
	Docs      *DocsCmd      `command:"docs"       description:"Look library documentation up"`
	Serve     *ServeCmd     `command:"serve"      description:"Start the HTTP gateway (and optionally an aggregating MCP server)"`
}

// Init instantiates the sub-command referenced by the first positional argument
// so that go-flags can populate its fields.
func (o *Options) Init(firstArg string) {
	switch firstArg {
	case "list-tools":
		o.ListTools = &ListToolsCmd{}
	case "tool":
		o.Tool = &ToolCmd{}
	case "exec":
		o.Exec = &ExecCmd{}
	case "call":
		o.Call = &CallCmd{}
	case "docs":
		o.Docs = &DocsCmd{}
	case "serve":
		o.Serve = &ServeCmd{}
	}
}

// EndpointOption selects the endpoint a command talks to. It may be omitted
// when exactly one endpoint is configured.
type EndpointOption struct {
	Endpoint string `short:"e" long:"endpoint" description:"endpoint name"`
}
