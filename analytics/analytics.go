package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/jonwraymond/sqlanalytics/prompt"
	"github.com/jonwraymond/sqlanalytics/registry"
	"github.com/jonwraymond/sqlanalytics/resource"
	"github.com/jonwraymond/sqlanalytics/search"
	"github.com/jonwraymond/sqlanalytics/sqlexec"
	"github.com/jonwraymond/sqlanalytics/sqlgen"
	"github.com/jonwraymond/sqlanalytics/tool"
)

// Options configures an Analytics instance.
type Options struct {
	// Store is the resource registry. If nil, a new Store is created.
	Store *registry.Store

	// Executor runs SQL. execute_sql and discover_schema fail without it.
	Executor *sqlexec.Executor

	// Generator drafts SQL. generate_sql fails without it; validate_sql
	// falls back to the local destructive-statement screen.
	Generator sqlgen.Generator

	// Prompts overrides the built-in prompt set.
	Prompts *prompt.Manager

	// DefaultTTL overrides the store default when Store is nil.
	DefaultTTL time.Duration

	// Logger defaults to a nop logger.
	Logger *zap.Logger
}

// Analytics is the unified facade.
type Analytics struct {
	store   *registry.Store
	engine  *search.Engine
	tools   *tool.Dispatcher
	prompts *prompt.Manager
	exec    *sqlexec.Executor
	gen     sqlgen.Generator
	logger  *zap.Logger
}

// New creates an Analytics instance and registers the built-in tools.
func New(opts Options) (*Analytics, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	store := opts.Store
	if store == nil {
		storeOpts := []registry.Option{registry.WithLogger(logger)}
		if opts.DefaultTTL > 0 {
			storeOpts = append(storeOpts, registry.WithDefaultTTL(opts.DefaultTTL))
		}
		store = registry.NewStore(storeOpts...)
	}

	prompts := opts.Prompts
	if prompts == nil {
		prompts = prompt.NewManager()
	}

	a := &Analytics{
		store:   store,
		engine:  search.NewEngine(store),
		tools:   tool.NewDispatcher(),
		prompts: prompts,
		exec:    opts.Executor,
		gen:     opts.Generator,
		logger:  logger,
	}

	if err := a.registerBuiltins(); err != nil {
		return nil, fmt.Errorf("register tools: %w", err)
	}
	return a, nil
}

// Close releases the search engine's text index.
func (a *Analytics) Close() error {
	return a.engine.Close()
}

// Store returns the resource registry.
func (a *Analytics) Store() *registry.Store { return a.store }

// Engine returns the search engine.
func (a *Analytics) Engine() *search.Engine { return a.engine }

// Tools returns the registered tool definitions in registration order.
func (a *Analytics) Tools() []tool.Definition {
	return a.tools.Definitions()
}

// CallTool dispatches a tool call by name.
func (a *Analytics) CallTool(ctx context.Context, name string, args map[string]any) (any, error) {
	a.logger.Debug("tool call", zap.String("tool", name))
	return a.tools.Dispatch(ctx, name, args)
}

// Resources lists all live resources, newest first.
func (a *Analytics) Resources() []resource.Resource {
	out := a.store.Resources()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].URI < out[j].URI
	})
	return out
}

// ReadResource returns a resource's content for display, counting the
// read in its access statistics. Raw mode returns the JSON document
// instead of markdown.
func (a *Analytics) ReadResource(uri string, raw bool) (string, error) {
	rec, err := a.store.Get(uri)
	if err != nil {
		return "", err
	}
	if raw {
		data, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return resource.Render(rec), nil
}

// Prompts lists the workflow templates.
func (a *Analytics) Prompts() []prompt.Prompt {
	return a.prompts.List()
}

// Prompt returns one workflow template by name.
func (a *Analytics) Prompt(name string) (prompt.Prompt, error) {
	return a.prompts.Get(name)
}

// schemaPayload resolves a stored schema resource for prompt context.
// The lookup is a Peek: consulting a schema to draft SQL should not skew
// its popularity.
func (a *Analytics) schemaPayload(uri string) (*resource.SchemaPayload, error) {
	rec, err := a.store.Peek(uri)
	if err != nil {
		return nil, err
	}
	schema, ok := rec.Payload.(*resource.SchemaPayload)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a schema resource", registry.ErrInvalidInput, uri)
	}
	return schema, nil
}

// tablePayload resolves a stored table resource, counting the access.
func (a *Analytics) tablePayload(uri string) (*resource.TablePayload, error) {
	rec, err := a.store.Get(uri)
	if err != nil {
		return nil, err
	}
	table, ok := rec.Payload.(*resource.TablePayload)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a table resource", registry.ErrInvalidInput, uri)
	}
	return table, nil
}
