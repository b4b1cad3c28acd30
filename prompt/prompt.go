// Package prompt serves interactive workflow templates for the analytics
// server's prompts surface.
//
// Each prompt is a named markdown template describing a multi-step
// workflow (which tools to call and in what order). Prompts are static
// data; the Manager only lists and retrieves them.
package prompt

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNotFound marks an unknown prompt name.
var ErrNotFound = errors.New("prompt not found")

// Prompt is a named workflow template.
type Prompt struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Template    string `json:"template"`
}

// Manager serves the built-in prompt set. Immutable after construction,
// so it is safe for concurrent use.
type Manager struct {
	prompts map[string]Prompt
	order   []string
}

// NewManager creates a Manager with the built-in prompts.
func NewManager() *Manager {
	m := &Manager{prompts: make(map[string]Prompt, len(builtins))}
	for _, p := range builtins {
		m.prompts[p.Name] = p
		m.order = append(m.order, p.Name)
	}
	sort.Strings(m.order)
	return m
}

// List returns all prompts in name order.
func (m *Manager) List() []Prompt {
	out := make([]Prompt, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.prompts[name])
	}
	return out
}

// Get returns the prompt with the given name.
func (m *Manager) Get(name string) (Prompt, error) {
	p, ok := m.prompts[name]
	if !ok {
		return Prompt{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return p, nil
}

var builtins = []Prompt{
	{
		Name:        "explore_table",
		Description: "Explore and analyze table data",
		Template: `# Explore Table Data

Use this prompt to explore and analyze table data.

**Parameters:**
- ` + "`table_uri`" + `: URI of the table resource to explore
- ` + "`limit`" + `: Number of rows to preview (default: 5)

**Workflow:**
1. Read the table resource
2. Show preview of data
3. Provide basic statistics
4. Suggest potential analysis directions

**Tools to use:**
- resources/read to get table data
- generate_sql for additional queries if needed
`,
	},
	{
		Name:        "visualize_growth",
		Description: "Create visualizations for growth and trend analysis",
		Template: `# Visualize Growth Trends

Use this prompt to create visualizations for growth and trend analysis.

**Parameters:**
- ` + "`table_uri`" + `: URI of the table resource to visualize
- ` + "`trend_type`" + `: Type of trend to analyze (growth, decline, seasonal)

**Workflow:**
1. Analyze the table data for time-based columns
2. Identify growth patterns
3. Generate appropriate visualization
4. Store chart as resource
5. Provide insights about the trends

**Tools to use:**
- resources/read to get table data
- create_viz to generate charts
`,
	},
	{
		Name:        "predict",
		Description: "Perform predictive analysis on table data",
		Template: `# Predictive Analysis

Use this prompt to perform predictive analysis on table data.

**Parameters:**
- ` + "`table_uri`" + `: URI of the table resource to analyze
- ` + "`target_column`" + `: Column to predict
- ` + "`prediction_type`" + `: Type of prediction (regression)

**Workflow:**
1. Analyze the table structure and data
2. Identify features for prediction
3. Run predictive model
4. Store results as ML resource
5. Provide prediction insights and accuracy metrics

**Tools to use:**
- resources/read to get table data
- predictive_model to run ML analysis
`,
	},
	{
		Name:        "auto_insights",
		Description: "Automatically generate comprehensive insights from table data",
		Template: `# Automatic Insights Generation

Use this prompt to automatically generate comprehensive insights from table data.

**Parameters:**
- ` + "`table_uri`" + `: URI of the table resource to analyze

**Workflow:**
1. Perform comprehensive data analysis
2. Generate summary statistics
3. Identify top correlations
4. Create relevant visualizations
5. Provide actionable insights
6. Store all results as resources

**Tools to use:**
- resources/read to get table data
- generate_sql for additional analysis queries
- create_viz for multiple chart types
- predictive_model for basic predictions
`,
	},
	{
		Name:        "explain_chart",
		Description: "Get detailed explanations of charts and visualizations",
		Template: `# Chart Explanation

Use this prompt to get detailed explanations of charts and visualizations.

**Parameters:**
- ` + "`chart_uri`" + `: URI of the chart resource to explain

**Workflow:**
1. Read the chart resource
2. Describe what the chart shows
3. Call out notable values and trends
4. Relate the chart back to the underlying table

**Tools to use:**
- resources/read to get chart data
`,
	},
}
