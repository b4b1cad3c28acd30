package analytics

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jonwraymond/sqlanalytics/predict"
	"github.com/jonwraymond/sqlanalytics/registry"
	"github.com/jonwraymond/sqlanalytics/resource"
	"github.com/jonwraymond/sqlanalytics/search"
	"github.com/jonwraymond/sqlanalytics/sqlexec"
	"github.com/jonwraymond/sqlanalytics/sqlgen"
	"github.com/jonwraymond/sqlanalytics/tool"
	"github.com/jonwraymond/sqlanalytics/viz"
)

// Adapter-availability errors. Registry errors never wrap these.
var (
	ErrNoExecutor  = errors.New("sql executor not configured")
	ErrNoGenerator = errors.New("sql generator not configured")
)

func (a *Analytics) registerBuiltins() error {
	handlers := map[string]tool.Handler{
		"generate_sql":     a.handleGenerateSQL,
		"validate_sql":     a.handleValidateSQL,
		"execute_sql":      a.handleExecuteSQL,
		"discover_schema":  a.handleDiscoverSchema,
		"create_viz":       a.handleCreateViz,
		"predictive_model": a.handlePredictiveModel,
		"search_resources": a.handleSearchResources,
	}
	for _, def := range catalog {
		if err := a.tools.Register(def, handlers[def.Name]); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analytics) handleGenerateSQL(ctx context.Context, args map[string]any) (any, error) {
	if a.gen == nil {
		return nil, ErrNoGenerator
	}

	req := sqlgen.GenerateRequest{
		NLQuery: tool.String(args, "nl_query"),
		DBType:  tool.String(args, "db_type"),
	}
	schemaURI := tool.String(args, "schema_uri")
	if schemaURI != "" {
		schema, err := a.schemaPayload(schemaURI)
		if err != nil {
			return nil, err
		}
		req.Schema = schema
	}

	result, err := a.gen.GenerateSQL(ctx, req)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"sql_query":   result.SQLQuery,
		"explanation": result.Explanation,
		"db_type":     result.DBType,
		"nl_query":    result.NLQuery,
		"schema_uri":  schemaURI,
		"status":      "generated",
	}, nil
}

func (a *Analytics) handleValidateSQL(ctx context.Context, args map[string]any) (any, error) {
	sqlText := tool.String(args, "sql_query")

	var validation *sqlgen.ValidationResult
	if a.gen != nil {
		v, err := a.gen.ValidateSQL(ctx, sqlText)
		if err != nil {
			return nil, err
		}
		validation = v
	} else {
		// No model available: the local screen still runs.
		validation = &sqlgen.ValidationResult{Valid: true, RiskLevel: "low"}
		if sqlgen.HasDangerousOperations(sqlText) {
			validation.RiskLevel = "high"
			validation.Issues = append(validation.Issues, "contains potentially dangerous operations")
		}
	}

	return map[string]any{
		"sql_query":  sqlText,
		"validation": validation,
		"status":     "validated",
	}, nil
}

func (a *Analytics) handleExecuteSQL(ctx context.Context, args map[string]any) (any, error) {
	if a.exec == nil {
		return nil, ErrNoExecutor
	}

	sqlText := tool.String(args, "sql_query")
	table, err := a.exec.Execute(ctx, sqlText)
	if err != nil {
		return nil, err
	}

	out := map[string]any{
		"sql_query": sqlText,
		"columns":   table.Columns,
		"row_count": table.RowCount,
		"data":      table.Rows,
		"status":    "executed",
	}

	if tool.Bool(args, "store_as_resource") {
		name := tool.String(args, "name")
		if name == "" {
			name = summarizeQuery(sqlText)
		}
		rec, err := a.store.Put(registry.PutRequest{
			Type:        resource.TypeTable,
			Name:        name,
			Description: tool.String(args, "description"),
			Tags:        tool.Strings(args, "tags"),
			Category:    resource.CategoryData,
			Payload:     table,
		})
		if err != nil {
			return nil, err
		}
		out["resource_uri"] = rec.URI
	}

	return out, nil
}

func (a *Analytics) handleDiscoverSchema(ctx context.Context, args map[string]any) (any, error) {
	if a.exec == nil {
		return nil, ErrNoExecutor
	}

	schema, err := a.exec.DiscoverSchema(ctx, sqlexec.DiscoverOptions{
		IncludeSampleData: tool.Bool(args, "include_sample_data"),
		MaxSampleRows:     tool.Int(args, "max_sample_rows"),
	})
	if err != nil {
		return nil, err
	}

	rec, err := a.store.Put(registry.PutRequest{
		Type:        resource.TypeSchema,
		Name:        fmt.Sprintf("%s schema", schema.DatabaseType),
		Description: fmt.Sprintf("Discovered schema with %d tables", len(schema.Tables)),
		Tags:        []string{"schema", "database", schema.DatabaseType},
		Category:    resource.CategoryInfrastructure,
		Payload:     schema,
	})
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"schema_uri":    rec.URI,
		"database_type": schema.DatabaseType,
		"table_count":   len(schema.Tables),
		"status":        "discovered",
	}, nil
}

func (a *Analytics) handleCreateViz(ctx context.Context, args map[string]any) (any, error) {
	tableURI := tool.String(args, "table_uri")
	table, err := a.tablePayload(tableURI)
	if err != nil {
		return nil, err
	}

	chart, err := viz.BuildChart(table, viz.Request{
		ChartType: tool.String(args, "chart_type"),
		Title:     tool.String(args, "title"),
		XColumn:   tool.String(args, "x_column"),
		YColumn:   tool.String(args, "y_column"),
		Bins:      tool.Int(args, "bins"),
	})
	if err != nil {
		return nil, err
	}

	name := chart.Title
	if name == "" {
		name = fmt.Sprintf("%s chart of %s", chart.ChartType, tableURI)
	}
	rec, err := a.store.Put(registry.PutRequest{
		Type:        resource.TypeChart,
		Name:        name,
		Description: fmt.Sprintf("%s chart built from %s", chart.ChartType, tableURI),
		Tags:        []string{"chart", chart.ChartType},
		Category:    resource.CategoryVisualization,
		Payload:     chart,
	})
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"resource_uri": rec.URI,
		"chart_type":   chart.ChartType,
		"chart":        chart,
		"source_table": tableURI,
		"status":       "created",
	}, nil
}

func (a *Analytics) handlePredictiveModel(ctx context.Context, args map[string]any) (any, error) {
	tableURI := tool.String(args, "table_uri")
	table, err := a.tablePayload(tableURI)
	if err != nil {
		return nil, err
	}

	result, err := predict.Fit(table, predict.Request{
		Target:    tool.String(args, "target_column"),
		Features:  tool.Strings(args, "features"),
		ModelType: tool.String(args, "model_type"),
	})
	if err != nil {
		return nil, err
	}

	rec, err := a.store.Put(registry.PutRequest{
		Type:        resource.TypeML,
		Name:        fmt.Sprintf("%s of %s", result.ModelType, result.Target),
		Description: fmt.Sprintf("%s predicting %s from %s", result.ModelType, result.Target, strings.Join(result.Features, ", ")),
		Tags:        []string{"ml", result.ModelType, result.Target},
		Category:    resource.CategoryAnalytics,
		Payload:     result,
	})
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"resource_uri": rec.URI,
		"ml_type":      result.ModelType,
		"r_squared":    result.RSquared,
		"coefficients": result.Coefficients,
		"intercept":    result.Intercept,
		"sample_size":  result.SampleSize,
		"source_table": tableURI,
		"status":       "completed",
	}, nil
}

func (a *Analytics) handleSearchResources(ctx context.Context, args map[string]any) (any, error) {
	result, err := a.engine.Search(ctx, search.Query{
		Text:           tool.String(args, "query"),
		Tags:           tool.Strings(args, "tags"),
		AnyTags:        tool.Strings(args, "any_tags"),
		Category:       tool.String(args, "category"),
		ResourceType:   tool.String(args, "resource_type"),
		CreatedAfter:   tool.String(args, "created_after"),
		CreatedBefore:  tool.String(args, "created_before"),
		MinAccessCount: tool.Int(args, "min_access_count"),
		Limit:          tool.Int(args, "limit"),
		SortBy:         tool.String(args, "sort_by"),
		SortOrder:      tool.String(args, "sort_order"),
	})
	if err != nil {
		return nil, err
	}

	results := make([]map[string]any, 0, len(result.Resources))
	for i := range result.Resources {
		results = append(results, summarizeResource(&result.Resources[i]))
	}
	return map[string]any{
		"results":     results,
		"total_count": result.TotalCount,
		"status":      "completed",
	}, nil
}

// summarizeResource flattens a record for search output: metadata only,
// no payload.
func summarizeResource(r *resource.Resource) map[string]any {
	out := map[string]any{
		"uri":          r.URI,
		"type":         string(r.Type),
		"name":         r.Name,
		"description":  r.Description,
		"tags":         r.Tags,
		"category":     string(r.Category),
		"created_at":   r.CreatedAt,
		"access_count": r.AccessCount,
	}
	if r.LastAccessed != nil {
		out["last_accessed"] = *r.LastAccessed
	}
	return out
}

// summarizeQuery derives a display name from the first words of a query.
func summarizeQuery(sqlText string) string {
	fields := strings.Fields(sqlText)
	if len(fields) > 8 {
		fields = fields[:8]
	}
	name := strings.Join(fields, " ")
	if len(name) > 80 {
		name = name[:80]
	}
	return name
}
