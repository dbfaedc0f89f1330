package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Registration failures. The closed built-in set and the duplicate-name rule
// are enforced locally so a bad toolset is rejected before any network call.
var (
	ErrDuplicateTool  = errors.New("duplicate tool name")
	ErrUnknownBuiltin = errors.New("unknown built-in tool")
	ErrInvalidSchema  = errors.New("invalid tool schema")
)

// Param describes a single schema parameter in JSON-Schema style.
type Param struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// Schema describes a custom function tool. Immutable once registered.
type Schema struct {
	Name        string
	Description string
	Parameters  map[string]Param
	Required    []string
}

// Validate checks the schema's internal consistency: a name must be set and
// every required parameter must be declared.
func (s Schema) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidSchema)
	}
	for _, req := range s.Required {
		if _, ok := s.Parameters[req]; !ok {
			return fmt.Errorf("%w: %s requires undeclared parameter %q", ErrInvalidSchema, s.Name, req)
		}
	}
	return nil
}

// Func is a locally executable tool: its schema plus the callable the
// dispatcher routes to.
type Func interface {
	Schema() Schema
	Execute(ctx context.Context, args json.RawMessage) (string, error)
}

// Builtin references a capability implemented entirely inside the remote
// service; only the tag travels over the wire.
type Builtin string

const (
	BuiltinCodeInterpreter Builtin = "code_interpreter"
	BuiltinFileSearch      Builtin = "file_search"
)
