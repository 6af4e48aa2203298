package notegen

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// FuncTool describes one structured invocation target: a named operation
// whose argument is constrained by a JSON schema derived from a Go type.
type FuncTool struct {
	Name        string
	Description string
	Argument    *jsonschema.Schema
}

// FuncCall is the model's response to an Invoke: the raw argument JSON.
// Model-emitted JSON is frequently slightly malformed; Decode repairs it
// before unmarshaling.
type FuncCall struct {
	Name      string
	Arguments string
}

func (c *FuncCall) Decode(v any) error {
	if err := unmarshalJSON([]byte(c.Arguments), v); err != nil {
		return fmt.Errorf("notegen: decode %s call %q: %w", c.Name, c.Arguments, err)
	}
	return nil
}

// NewFuncTool derives the argument schema from ArgType.
func NewFuncTool[ArgType any](name, description string) (*FuncTool, error) {
	arg, err := jsonschema.For[ArgType](&jsonschema.ForOptions{})
	if err != nil {
		return nil, err
	}
	return &FuncTool{
		Name:        name,
		Description: description,
		Argument:    arg,
	}, nil
}

func MustNewFuncTool[ArgType any](name, description string) *FuncTool {
	tool, err := NewFuncTool[ArgType](name, description)
	if err != nil {
		panic(err)
	}
	return tool
}
