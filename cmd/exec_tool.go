package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// ExecCmd invokes a tool by call name. Every positional value is decoded as
// JSON (falling back to a plain string) and passed as one call argument, so
// that `exec getLibraryDocs /facebook/react '{"topic":"hooks"}'` binds the
// first value positionally and merges the object by name.
type ExecCmd struct {
	EndpointOption
	Options    string `short:"o" long:"options" description:"JSON object appended as an options argument (e.g. {\"tailLog\":true})"`
	TimeoutSec int    `long:"timeout" description:"seconds to wait for the call (0: no limit)"`
	JSON       bool   `long:"json" description:"print the raw call result as JSON"`
	Args       struct {
		Name   string   `positional-arg-name:"name" description:"call name, e.g. resolveLibraryId"`
		Values []string `positional-arg-name:"args" description:"call arguments (JSON values)"`
	} `positional-args:"yes" required:"1"`
}

func (c *ExecCmd) Execute(_ []string) error {
	svc, err := serviceSingleton()
	if err != nil {
		return err
	}
	proxy, err := resolveProxy(svc, c.Endpoint)
	if err != nil {
		return err
	}

	args, err := c.arguments()
	if err != nil {
		return err
	}
	ctx, cancel := c.callContext()
	defer cancel()
	view, err := proxy.Invoke(ctx, c.Args.Name, args...)
	if err != nil {
		return err
	}
	if c.JSON {
		printJSON(view.Raw())
	} else {
		fmt.Println(view.Text())
	}
	if err := view.Err(); err != nil {
		fmt.Fprintln(os.Stderr, "tool reported an error")
		return err
	}
	return nil
}

// arguments decodes positional values and the --options object.
func (c *ExecCmd) arguments() ([]interface{}, error) {
	args := make([]interface{}, 0, len(c.Args.Values)+1)
	for _, value := range c.Args.Values {
		args = append(args, parseValue(value))
	}
	if c.Options != "" {
		var options map[string]interface{}
		if err := json.Unmarshal([]byte(c.Options), &options); err != nil {
			return nil, fmt.Errorf("invalid --options JSON: %w", err)
		}
		args = append(args, options)
	}
	return args, nil
}

// callContext bounds the call with --timeout. The limit travels on the
// context so that a tool property named timeout is never shadowed.
func (c *ExecCmd) callContext() (context.Context, context.CancelFunc) {
	ctx := commandContext()
	if c.TimeoutSec <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, time.Duration(c.TimeoutSec)*time.Second)
}
