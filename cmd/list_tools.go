package cmd

import (
	"fmt"
)

// ListToolsCmd prints the tools of every (or one) endpoint in
// `endpoint<TAB>tool<TAB>description` form.
type ListToolsCmd struct {
	EndpointOption
	Match string `short:"m" long:"match" description:"comma separated tool name patterns (prefix, * suffix)"`
	JSON  bool   `long:"json" description:"print result as JSON"`
}

func (c *ListToolsCmd) Execute(_ []string) error {
	svc, err := serviceSingleton()
	if err != nil {
		return err
	}
	matches, err := svc.MatchTools(commandContext(), c.Endpoint, c.Match)
	if err != nil {
		return err
	}
	if c.JSON {
		type entry struct {
			Endpoint    string   `json:"endpoint"`
			Name        string   `json:"name"`
			Description string   `json:"description,omitempty"`
			Keys        []string `json:"keys"`
		}
		out := make([]entry, 0, len(matches))
		for _, m := range matches {
			out = append(out, entry{Endpoint: m.Endpoint, Name: m.Tool.Name, Description: m.Tool.Description, Keys: m.Tool.Keys})
		}
		printJSON(out)
		return nil
	}
	for _, m := range matches {
		fmt.Printf("%s\t%s\t%s\n", m.Endpoint, m.Tool.Name, m.Tool.Description)
	}
	return nil
}
