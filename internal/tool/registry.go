package tool

import (
	"fmt"
	"sync"

	"github.com/openai/openai-go"
)

// entry is one registry slot: either a built-in tag or a function tool.
type entry struct {
	builtin Builtin
	fn      Func
}

// Registry holds the ordered toolset advertised to the remote service.
// Read-mostly: populated at startup, then only consulted.
type Registry struct {
	mu      sync.RWMutex
	entries []entry
	byName  map[string]Func
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Func),
	}
}

// RegisterFunction adds a custom function tool. The schema is validated and
// the name must be unique; on failure the registry is left unchanged.
func (r *Registry) RegisterFunction(fn Func) error {
	s := fn.Schema()
	if err := s.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[s.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateTool, s.Name)
	}
	r.byName[s.Name] = fn
	r.entries = append(r.entries, entry{fn: fn})
	return nil
}

// RegisterBuiltin adds a reference to a service-side tool. Tags outside the
// closed set are rejected here, before any network call.
func (r *Registry) RegisterBuiltin(tag Builtin) error {
	switch tag {
	case BuiltinCodeInterpreter, BuiltinFileSearch:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBuiltin, tag)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry{builtin: tag})
	return nil
}

// Get returns the function tool registered under name.
func (r *Registry) Get(name string) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.byName[name]
	return fn, ok
}

// Funcs returns a snapshot of the name→function mapping for the dispatcher.
func (r *Registry) Funcs() map[string]Func {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m := make(map[string]Func, len(r.byName))
	for name, fn := range r.byName {
		m[name] = fn
	}
	return m
}

// Len reports the number of registered entries, built-ins included.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// AssistantTools encodes the toolset for assistant creation, in registration
// order: built-ins as bare tag objects, functions as full descriptors.
func (r *Registry) AssistantTools() []openai.AssistantToolUnionParam {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]openai.AssistantToolUnionParam, 0, len(r.entries))
	for _, e := range r.entries {
		switch e.builtin {
		case BuiltinCodeInterpreter:
			tools = append(tools, openai.AssistantToolUnionParam{
				OfCodeInterpreter: &openai.CodeInterpreterToolParam{},
			})
		case BuiltinFileSearch:
			tools = append(tools, openai.AssistantToolUnionParam{
				OfFileSearch: &openai.FileSearchToolParam{},
			})
		default:
			tools = append(tools, functionTool(e.fn.Schema()))
		}
	}
	return tools
}

func functionTool(s Schema) openai.AssistantToolUnionParam {
	props := make(map[string]any, len(s.Parameters))
	for name, p := range s.Parameters {
		prop := map[string]any{"type": p.Type}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		props[name] = prop
	}

	required := s.Required
	if required == nil {
		required = []string{}
	}

	return openai.AssistantToolUnionParam{
		OfFunction: &openai.FunctionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        s.Name,
				Description: openai.String(s.Description),
				Parameters: openai.FunctionParameters{
					"type":       "object",
					"properties": props,
					"required":   required,
				},
			},
		},
	}
}
