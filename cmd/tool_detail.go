package cmd

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// ToolCmd prints metadata, input schema and the generated Go input type of a
// single tool. The name may be a call name ("getLibraryDocs") or a tool id.
type ToolCmd struct {
	EndpointOption
	JSON bool `long:"json" description:"print result as JSON"`
	Args struct {
		Name string `positional-arg-name:"name" description:"call name or tool id"`
	} `positional-args:"yes" required:"yes"`
}

func (c *ToolCmd) Execute(_ []string) error {
	svc, err := serviceSingleton()
	if err != nil {
		return err
	}
	proxy, err := resolveProxy(svc, c.Endpoint)
	if err != nil {
		return err
	}
	info, err := proxy.Schema(commandContext(), c.Args.Name)
	if err != nil {
		return err
	}
	if info == nil {
		return fmt.Errorf("tool %q not found on %q", c.Args.Name, proxy.Endpoint())
	}

	found := struct {
		Endpoint    string          `json:"endpoint"`
		Name        string          `json:"name"`
		Description string          `json:"description"`
		Keys        []string        `json:"keys"`
		Required    []string        `json:"required,omitempty"`
		InputSchema json.RawMessage `json:"inputSchema,omitempty"`
		InputDef    string          `json:"inputDefinition,omitempty"`
	}{
		Endpoint:    proxy.Endpoint(),
		Name:        info.Name,
		Description: info.Description,
		Keys:        info.Keys,
		Required:    info.Required,
		InputSchema: info.Schema,
	}
	if err := proxy.Load(commandContext()); err == nil {
		if t, ok := proxy.InputType(info.Name); ok {
			found.InputDef = typeDefinition(t, "")
		}
	}

	if c.JSON {
		printJSON(found)
		return nil
	}
	fmt.Printf("Endpoint : %s\n", found.Endpoint)
	fmt.Printf("Name     : %s\n", found.Name)
	fmt.Printf("Desc     : %s\n", found.Description)
	fmt.Printf("Keys     : %s\n", strings.Join(found.Keys, ", "))
	fmt.Printf("Required : %s\n", strings.Join(found.Required, ", "))
	if len(found.InputSchema) > 0 {
		js, _ := json.MarshalIndent(found.InputSchema, "", "  ")
		fmt.Printf("InputSchema:\n%s\n", string(js))
	}
	if found.InputDef != "" {
		fmt.Printf("\nInput Definition:\n%s\n", found.InputDef)
	}
	return nil
}

// typeDefinition returns a Go-like struct definition for anonymous types or
// an empty string for named/builtin ones.
func typeDefinition(t reflect.Type, indent string) string {
	if t == nil {
		return ""
	}
	if t.Kind() == reflect.Pointer {
		return typeDefinition(t.Elem(), indent)
	}
	if t.Name() != "" || t.Kind() != reflect.Struct {
		return ""
	}
	var b strings.Builder
	b.WriteString("struct {\n")
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		b.WriteString(indent)
		b.WriteString("    ")
		b.WriteString(f.Name)
		b.WriteString(" ")
		if f.Type.Kind() == reflect.Struct && f.Type.Name() == "" {
			b.WriteString(typeDefinition(f.Type, indent+"    "))
		} else {
			b.WriteString(simpleTypeExpr(f.Type))
		}
		if tag := strings.TrimSpace(string(f.Tag)); tag != "" {
			b.WriteString(" `")
			b.WriteString(tag)
			b.WriteString("`")
		}
		b.WriteString("\n")
	}
	b.WriteString(indent)
	b.WriteString("}")
	return b.String()
}

func simpleTypeExpr(t reflect.Type) string {
	if t.Kind() == reflect.Pointer {
		return "*" + simpleTypeExpr(t.Elem())
	}
	if t.Name() != "" {
		return t.String()
	}
	switch t.Kind() {
	case reflect.Slice:
		return "[]" + simpleTypeExpr(t.Elem())
	case reflect.Array:
		return fmt.Sprintf("[%d]%s", t.Len(), simpleTypeExpr(t.Elem()))
	case reflect.Map:
		return fmt.Sprintf("map[%s]%s", simpleTypeExpr(t.Key()), simpleTypeExpr(t.Elem()))
	case reflect.Interface:
		return "interface{}"
	case reflect.Struct:
		return "struct{...}"
	default:
		return t.String()
	}
}
