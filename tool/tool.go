package tool

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Sentinel errors for consistent error handling.
var (
	ErrUnknownTool       = errors.New("unknown tool")
	ErrInvalidDefinition = errors.New("invalid tool definition")
	ErrMissingParam      = errors.New("missing required parameter")
)

// ParamType is the closed set of parameter types, mirroring JSON schema.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeInteger ParamType = "integer"
	TypeNumber  ParamType = "number"
	TypeBoolean ParamType = "boolean"
	TypeArray   ParamType = "array"
	TypeObject  ParamType = "object"
)

func (t ParamType) valid() bool {
	switch t {
	case TypeString, TypeInteger, TypeNumber, TypeBoolean, TypeArray, TypeObject:
		return true
	}
	return false
}

// Param is one typed tool parameter.
type Param struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	Default     any
}

// Definition describes a tool as data: name, description, and parameter
// list. The MCP input schema is derived from it.
type Definition struct {
	Name        string
	Description string
	Tags        []string
	Params      []Param
}

// Validate checks the definition's internal consistency.
func (d Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDefinition)
	}
	seen := make(map[string]struct{}, len(d.Params))
	for _, p := range d.Params {
		if p.Name == "" {
			return fmt.Errorf("%w: %s has an unnamed parameter", ErrInvalidDefinition, d.Name)
		}
		if !p.Type.valid() {
			return fmt.Errorf("%w: %s.%s has unknown type %q", ErrInvalidDefinition, d.Name, p.Name, p.Type)
		}
		if p.Required && p.Default != nil {
			return fmt.Errorf("%w: %s.%s is required but has a default", ErrInvalidDefinition, d.Name, p.Name)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("%w: %s declares %s twice", ErrInvalidDefinition, d.Name, p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}

// InputSchema renders the definition as a JSON schema object for the MCP
// tools/list response.
func (d Definition) InputSchema() map[string]any {
	properties := make(map[string]any, len(d.Params))
	required := make([]string, 0)
	for _, p := range d.Params {
		prop := map[string]any{
			"type":        string(p.Type),
			"description": p.Description,
		}
		if p.Default != nil {
			prop["default"] = p.Default
		}
		if p.Type == TypeArray {
			prop["items"] = map[string]any{"type": "string"}
		}
		if p.Type == TypeObject {
			prop["additionalProperties"] = true
		}
		properties[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

// Handler executes a tool call with validated arguments.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Dispatcher maps tool names to definitions and handlers. Safe for
// concurrent use.
type Dispatcher struct {
	mu       sync.RWMutex
	defs     map[string]Definition
	handlers map[string]Handler
	order    []string
}

// NewDispatcher creates an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		defs:     make(map[string]Definition),
		handlers: make(map[string]Handler),
	}
}

// Register validates the definition and binds it to a handler.
func (d *Dispatcher) Register(def Definition, h Handler) error {
	if err := def.Validate(); err != nil {
		return err
	}
	if h == nil {
		return fmt.Errorf("%w: %s has no handler", ErrInvalidDefinition, def.Name)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.defs[def.Name]; exists {
		return fmt.Errorf("%w: %s already registered", ErrInvalidDefinition, def.Name)
	}
	d.defs[def.Name] = def
	d.handlers[def.Name] = h
	d.order = append(d.order, def.Name)
	return nil
}

// Definitions returns all registered definitions in registration order.
func (d *Dispatcher) Definitions() []Definition {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]Definition, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.defs[name])
	}
	return out
}

// Dispatch validates arguments against the definition, fills defaults,
// and invokes the handler.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args map[string]any) (any, error) {
	d.mu.RLock()
	def, ok := d.defs[name]
	handler := d.handlers[name]
	d.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	merged := make(map[string]any, len(args)+len(def.Params))
	for k, v := range args {
		merged[k] = v
	}
	for _, p := range def.Params {
		if _, supplied := merged[p.Name]; supplied {
			continue
		}
		if p.Required {
			return nil, fmt.Errorf("%w: %s.%s", ErrMissingParam, name, p.Name)
		}
		if p.Default != nil {
			merged[p.Name] = p.Default
		}
	}

	return handler(ctx, merged)
}
