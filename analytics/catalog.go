package analytics

import "github.com/jonwraymond/sqlanalytics/tool"

// The tool catalog: every tool is data interpreted by the dispatcher, so
// the tools/list surface and call validation derive from one table.
var catalog = []tool.Definition{
	{
		Name:        "generate_sql",
		Description: "Generate a SQL query from a natural language description",
		Tags:        []string{"sql", "generation"},
		Params: []tool.Param{
			{Name: "nl_query", Type: tool.TypeString, Description: "Natural language description of the query", Required: true},
			{Name: "db_type", Type: tool.TypeString, Description: "Target SQL dialect", Default: "sqlite"},
			{Name: "schema_uri", Type: tool.TypeString, Description: "URI of a stored schema resource for context"},
		},
	},
	{
		Name:        "validate_sql",
		Description: "Validate a SQL query for syntax and safety",
		Tags:        []string{"sql", "validation"},
		Params: []tool.Param{
			{Name: "sql_query", Type: tool.TypeString, Description: "SQL query to validate", Required: true},
		},
	},
	{
		Name:        "execute_sql",
		Description: "Execute a SQL query and optionally store the result as a table resource",
		Tags:        []string{"sql", "execution"},
		Params: []tool.Param{
			{Name: "sql_query", Type: tool.TypeString, Description: "SQL query to execute", Required: true},
			{Name: "store_as_resource", Type: tool.TypeBoolean, Description: "Store the result set as a table resource", Default: true},
			{Name: "name", Type: tool.TypeString, Description: "Display name for the stored resource"},
			{Name: "description", Type: tool.TypeString, Description: "Description for the stored resource"},
			{Name: "tags", Type: tool.TypeArray, Description: "Tags for the stored resource"},
		},
	},
	{
		Name:        "discover_schema",
		Description: "Discover the database schema and store it as a schema resource",
		Tags:        []string{"sql", "schema"},
		Params: []tool.Param{
			{Name: "include_sample_data", Type: tool.TypeBoolean, Description: "Include a few sample rows per table", Default: true},
			{Name: "max_sample_rows", Type: tool.TypeInteger, Description: "Sample rows per table", Default: 5},
		},
	},
	{
		Name:        "create_viz",
		Description: "Build a chart from a stored table resource and store it as a chart resource",
		Tags:        []string{"visualization"},
		Params: []tool.Param{
			{Name: "table_uri", Type: tool.TypeString, Description: "URI of the table resource to visualize", Required: true},
			{Name: "chart_type", Type: tool.TypeString, Description: "bar, line, pie, scatter, or histogram", Required: true},
			{Name: "x_column", Type: tool.TypeString, Description: "Label or x-axis column"},
			{Name: "y_column", Type: tool.TypeString, Description: "Numeric value column"},
			{Name: "title", Type: tool.TypeString, Description: "Chart title"},
			{Name: "bins", Type: tool.TypeInteger, Description: "Bucket count for histograms", Default: 10},
		},
	},
	{
		Name:        "predictive_model",
		Description: "Fit a predictive model on a stored table resource and store the result",
		Tags:        []string{"ml"},
		Params: []tool.Param{
			{Name: "table_uri", Type: tool.TypeString, Description: "URI of the table resource to model", Required: true},
			{Name: "target_column", Type: tool.TypeString, Description: "Column to predict", Required: true},
			{Name: "features", Type: tool.TypeArray, Description: "Feature columns; defaults to all numeric columns"},
			{Name: "model_type", Type: tool.TypeString, Description: "Model type", Default: "linear_regression"},
		},
	},
	{
		Name:        "search_resources",
		Description: "Search stored resources by text, tags, category, type, date range, and popularity",
		Tags:        []string{"resources", "search"},
		Params: []tool.Param{
			{Name: "query", Type: tool.TypeString, Description: "Free-text query over name, description, and tags"},
			{Name: "tags", Type: tool.TypeArray, Description: "Tags that must all be present"},
			{Name: "any_tags", Type: tool.TypeArray, Description: "Tags of which at least one must be present"},
			{Name: "category", Type: tool.TypeString, Description: "Exact category match"},
			{Name: "resource_type", Type: tool.TypeString, Description: "Exact type match: schema, table, chart, or ml"},
			{Name: "created_after", Type: tool.TypeString, Description: "Inclusive RFC 3339 lower bound on creation time"},
			{Name: "created_before", Type: tool.TypeString, Description: "Exclusive RFC 3339 upper bound on creation time"},
			{Name: "min_access_count", Type: tool.TypeInteger, Description: "Inclusive lower bound on access count"},
			{Name: "limit", Type: tool.TypeInteger, Description: "Maximum results to return", Default: 50},
			{Name: "sort_by", Type: tool.TypeString, Description: "created_at, name, access_count, or last_accessed", Default: "created_at"},
			{Name: "sort_order", Type: tool.TypeString, Description: "asc or desc", Default: "desc"},
		},
	},
}
