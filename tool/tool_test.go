package tool

import (
	"context"
	"errors"
	"testing"
)

func echoHandler(ctx context.Context, args map[string]any) (any, error) {
	return args, nil
}

func TestDefinitionValidate(t *testing.T) {
	tests := []struct {
		name string
		def  Definition
		ok   bool
	}{
		{"valid", Definition{Name: "t", Params: []Param{{Name: "p", Type: TypeString}}}, true},
		{"missing name", Definition{}, false},
		{"unnamed param", Definition{Name: "t", Params: []Param{{Type: TypeString}}}, false},
		{"unknown type", Definition{Name: "t", Params: []Param{{Name: "p", Type: "blob"}}}, false},
		{"required with default", Definition{Name: "t", Params: []Param{{Name: "p", Type: TypeString, Required: true, Default: "x"}}}, false},
		{"duplicate param", Definition{Name: "t", Params: []Param{
			{Name: "p", Type: TypeString}, {Name: "p", Type: TypeInteger},
		}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.Validate()
			if tt.ok && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidDefinition) {
				t.Errorf("expected ErrInvalidDefinition, got %v", err)
			}
		})
	}
}

func TestInputSchema(t *testing.T) {
	def := Definition{
		Name: "search",
		Params: []Param{
			{Name: "query", Type: TypeString, Required: true, Description: "text"},
			{Name: "tags", Type: TypeArray},
			{Name: "limit", Type: TypeInteger, Default: 50},
		},
	}

	schema := def.InputSchema()
	if schema["type"] != "object" {
		t.Errorf("expected object schema, got %v", schema["type"])
	}

	props := schema["properties"].(map[string]any)
	if len(props) != 3 {
		t.Fatalf("expected 3 properties, got %d", len(props))
	}
	limit := props["limit"].(map[string]any)
	if limit["default"] != 50 {
		t.Errorf("default lost: %v", limit)
	}
	tags := props["tags"].(map[string]any)
	if _, ok := tags["items"]; !ok {
		t.Error("array params need an items schema")
	}

	required := schema["required"].([]string)
	if len(required) != 1 || required[0] != "query" {
		t.Errorf("unexpected required list: %v", required)
	}
}

func TestDispatcherRegisterAndOrder(t *testing.T) {
	d := NewDispatcher()

	if err := d.Register(Definition{Name: "b"}, echoHandler); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := d.Register(Definition{Name: "a"}, echoHandler); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := d.Register(Definition{Name: "a"}, echoHandler); !errors.Is(err, ErrInvalidDefinition) {
		t.Errorf("expected duplicate registration to fail, got %v", err)
	}
	if err := d.Register(Definition{Name: "c"}, nil); !errors.Is(err, ErrInvalidDefinition) {
		t.Errorf("expected nil handler to fail, got %v", err)
	}

	defs := d.Definitions()
	if len(defs) != 2 || defs[0].Name != "b" || defs[1].Name != "a" {
		t.Errorf("expected registration order [b a], got %v", defs)
	}
}

func TestDispatchFillsDefaultsAndChecksRequired(t *testing.T) {
	d := NewDispatcher()
	def := Definition{
		Name: "exec",
		Params: []Param{
			{Name: "query", Type: TypeString, Required: true},
			{Name: "store", Type: TypeBoolean, Default: true},
		},
	}
	if err := d.Register(def, echoHandler); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	out, err := d.Dispatch(context.Background(), "exec", map[string]any{"query": "SELECT 1"})
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	args := out.(map[string]any)
	if args["store"] != true {
		t.Errorf("default not filled: %v", args)
	}

	// Explicit values beat defaults.
	out, err = d.Dispatch(context.Background(), "exec", map[string]any{"query": "SELECT 1", "store": false})
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if out.(map[string]any)["store"] != false {
		t.Error("caller value overridden by default")
	}

	_, err = d.Dispatch(context.Background(), "exec", map[string]any{})
	if !errors.Is(err, ErrMissingParam) {
		t.Errorf("expected ErrMissingParam, got %v", err)
	}

	_, err = d.Dispatch(context.Background(), "nope", nil)
	if !errors.Is(err, ErrUnknownTool) {
		t.Errorf("expected ErrUnknownTool, got %v", err)
	}
}

func TestArgAccessors(t *testing.T) {
	args := map[string]any{
		"s":    "text",
		"b":    true,
		"i":    float64(7), // JSON numbers decode as float64
		"f":    2.5,
		"list": []any{"a", "b", 3},
		"obj":  map[string]any{"k": "v"},
	}

	if String(args, "s") != "text" || String(args, "missing") != "" {
		t.Error("String accessor wrong")
	}
	if !Bool(args, "b") || Bool(args, "s") {
		t.Error("Bool accessor wrong")
	}
	if Int(args, "i") != 7 || Int(args, "missing") != 0 {
		t.Error("Int accessor wrong")
	}
	if Float(args, "f") != 2.5 {
		t.Error("Float accessor wrong")
	}
	list := Strings(args, "list")
	if len(list) != 2 || list[0] != "a" || list[1] != "b" {
		t.Errorf("Strings accessor wrong: %v", list)
	}
	if Object(args, "obj")["k"] != "v" || Object(args, "s") != nil {
		t.Error("Object accessor wrong")
	}
}
