package cmd

import (
	"fmt"

	"github.com/viant/toolproxy/mcp/docs"
)

// DocsCmd resolves a library and prints its documentation.
type DocsCmd struct {
	EndpointOption
	Topic  string `short:"t" long:"topic" description:"focus topic, e.g. hooks"`
	Tokens int    `long:"tokens" description:"maximum documentation size in tokens" default:"10000"`
	JSON   bool   `long:"json" description:"print result as JSON"`
	Args   struct {
		Library string `positional-arg-name:"library" description:"library name or id (e.g. react, /facebook/react)"`
	} `positional-args:"yes" required:"yes"`
}

func (c *DocsCmd) Execute(_ []string) error {
	svc, err := serviceSingleton()
	if err != nil {
		return err
	}
	proxy, err := resolveProxy(svc, c.Endpoint)
	if err != nil {
		return err
	}
	doc, err := docs.New(proxy).Lookup(commandContext(), c.Args.Library, c.Topic, c.Tokens)
	if err != nil {
		return err
	}
	if c.JSON {
		printJSON(doc)
		return nil
	}
	fmt.Printf("# %s\n\n%s\n", doc.LibraryID, doc.Content)
	return nil
}
