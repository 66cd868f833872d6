package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/viant/toolproxy/mcp/tool"
)

// CallCmd calls a tool by its exact name. Arguments can be supplied either
// inline via -i/--input or loaded from a JSON file via --file, and are sent
// unchanged.
type CallCmd struct {
	EndpointOption
	Inline string `short:"i" long:"input" description:"inline JSON arguments (object)"`
	File   string `long:"file" description:"path to JSON file with arguments (use - for stdin)"`
	JSON   bool   `long:"json" description:"print the raw call result as JSON"`
	Args   struct {
		Name string `positional-arg-name:"tool" description:"exact tool name"`
	} `positional-args:"yes" required:"yes"`
}

func (c *CallCmd) Execute(_ []string) error {
	if c.Inline != "" && c.File != "" {
		return fmt.Errorf("-i/--input and --file are mutually exclusive")
	}
	svc, err := serviceSingleton()
	if err != nil {
		return err
	}
	proxy, err := resolveProxy(svc, c.Endpoint)
	if err != nil {
		return err
	}

	args := map[string]interface{}{}
	switch {
	case c.Inline != "":
		if err := json.Unmarshal([]byte(c.Inline), &args); err != nil {
			return fmt.Errorf("invalid inline JSON: %w", err)
		}
	case c.File != "":
		var rdr io.Reader
		if c.File == "-" {
			rdr = os.Stdin
		} else {
			f, err := os.Open(c.File)
			if err != nil {
				return fmt.Errorf("open input file: %w", err)
			}
			defer f.Close()
			rdr = f
		}
		data, err := io.ReadAll(rdr)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		if err := json.Unmarshal(data, &args); err != nil {
			return fmt.Errorf("decode JSON: %w", err)
		}
	}

	view, err := proxy.CallTool(commandContext(), c.Args.Name, &tool.Call{Args: args, HasArgs: true})
	if err != nil {
		return err
	}
	if c.JSON {
		printJSON(view.Raw())
	} else {
		fmt.Println(view.Text())
	}
	return view.Err()
}
