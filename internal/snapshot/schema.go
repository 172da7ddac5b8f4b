package snapshot

import (
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "https://github.com/nibzard/kanban-go/list.schema.json"

//go:embed list.schema.json
var schemaText string

// Schema returns the JSON Schema every stored list must satisfy.
func Schema() string {
	return schemaText
}

var listSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schemaURL, strings.NewReader(schemaText)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
})

// validateSchema checks a decoded JSON document against the list schema.
// The first violation is returned as a *MalformedError.
func validateSchema(doc any) error {
	schema, err := listSchema()
	if err != nil {
		return err
	}
	err = schema.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &MalformedError{Path: "$", Err: err}
	}
	leaf := firstLeaf(ve)
	return &MalformedError{Path: pointerToPath(leaf.InstanceLocation), Err: errors.New(leaf.Message)}
}

func firstLeaf(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}

// pointerToPath turns a JSON pointer such as "/2/color" into "$[2].color".
func pointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	path := "$"
	if ptr == "" {
		return path
	}
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if idx, err := strconv.Atoi(part); err == nil {
			path += "[" + strconv.Itoa(idx) + "]"
			continue
		}
		path += "." + part
	}
	return path
}

func indexPath(i int, field string) string {
	if field == "" {
		return fmt.Sprintf("$[%d]", i)
	}
	return fmt.Sprintf("$[%d].%s", i, field)
}
