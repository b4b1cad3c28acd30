package sqlgen

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jonwraymond/sqlanalytics/resource"
)

// ErrGeneration marks a language-model failure.
var ErrGeneration = errors.New("sql generation failed")

// GenerateRequest asks for a SQL draft from natural language.
type GenerateRequest struct {
	NLQuery string
	DBType  string // dialect hint, e.g. "sqlite", "postgresql"
	Schema  *resource.SchemaPayload
}

// GenerateResult is a drafted query with a business-level explanation.
type GenerateResult struct {
	SQLQuery    string `json:"sql_query"`
	Explanation string `json:"explanation"`
	DBType      string `json:"db_type"`
	NLQuery     string `json:"nl_query"`
}

// ValidationResult is the outcome of reviewing a query.
type ValidationResult struct {
	Valid       bool     `json:"valid"`
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
	RiskLevel   string   `json:"risk_level"`
}

// Generator drafts and reviews SQL. Implemented by Client; tests provide
// fakes.
type Generator interface {
	GenerateSQL(ctx context.Context, req GenerateRequest) (*GenerateResult, error)
	ValidateSQL(ctx context.Context, sqlText string) (*ValidationResult, error)
}

// Config configures a Client.
type Config struct {
	APIKey      string
	Model       string  // default gpt-4o
	BaseURL     string  // default https://api.openai.com
	Temperature float64 // default 0.3
	Timeout     time.Duration
}

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	http        *resty.Client
	model       string
	temperature float64
}

// NewClient creates a Client with the given config.
func NewClient(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = "gpt-4o"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.3
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.APIKey).
		SetTimeout(cfg.Timeout).
		SetRetryCount(2)

	return &Client{
		http:        httpClient,
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}
}

// GenerateSQL drafts a query for the request and a plain-language
// explanation of what it does.
func (c *Client) GenerateSQL(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	if strings.TrimSpace(req.NLQuery) == "" {
		return nil, fmt.Errorf("%w: empty natural-language query", ErrGeneration)
	}
	dbType := req.DBType
	if dbType == "" {
		dbType = "sqlite"
	}

	sqlText, err := c.complete(ctx, generatePrompt(dbType, req.Schema), req.NLQuery, c.temperature)
	if err != nil {
		return nil, err
	}
	sqlText = stripCodeFence(sqlText)

	explanation, err := c.complete(ctx,
		"Explain the following SQL query in simple terms for a business user.",
		fmt.Sprintf("SQL Query: %s\nPlease explain what this query does.", sqlText),
		c.temperature)
	if err != nil {
		return nil, err
	}

	return &GenerateResult{
		SQLQuery:    sqlText,
		Explanation: explanation,
		DBType:      dbType,
		NLQuery:     req.NLQuery,
	}, nil
}

// ValidateSQL reviews a query with the model and overlays the local
// destructive-statement screen.
func (c *Client) ValidateSQL(ctx context.Context, sqlText string) (*ValidationResult, error) {
	raw, err := c.complete(ctx, validatePrompt, sqlText, 0.1)
	if err != nil {
		return nil, err
	}

	result := parseValidation(raw)
	applyLocalScreen(result, sqlText)
	return result, nil
}

// generatePrompt builds the system prompt, embedding the schema document
// when available so the model uses real table and column names.
func generatePrompt(dbType string, schema *resource.SchemaPayload) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are a SQL expert. Generate a valid %s SQL query based on the natural language description.

Key guidelines:
- Use proper %s syntax
- Include appropriate JOINs when needed
- Use meaningful table and column aliases
- Ensure the query is safe and follows best practices
- Use the exact table and column names from the database schema

Return only the SQL query, no explanations.`, dbType, dbType)

	if schema == nil {
		return b.String()
	}

	b.WriteString("\n\nDatabase Schema Information:\n")
	fmt.Fprintf(&b, "Database Type: %s\nTables and their columns:\n", schema.DatabaseType)

	names := make([]string, 0, len(schema.Tables))
	for name := range schema.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "\nTable: %s\n", name)
		for _, col := range schema.Tables[name].Columns {
			marker := ""
			if col.PrimaryKey {
				marker = " (PRIMARY KEY)"
			}
			fmt.Fprintf(&b, "  - %s: %s%s\n", col.Name, col.Type, marker)
		}
	}
	if len(schema.Relationships) > 0 {
		b.WriteString("\nTable Relationships:\n")
		for _, rel := range schema.Relationships {
			fmt.Fprintf(&b, "  - %s.%s -> %s\n", rel.Table, rel.Column, rel.References)
		}
	}
	b.WriteString("\n\nIMPORTANT: Use ONLY the exact table and column names listed above.")
	return b.String()
}

const validatePrompt = `Analyze this SQL query for:
1. Syntax correctness
2. Potential security issues
3. Performance considerations
4. Best practices

Return a JSON response with:
- valid: boolean
- issues: array of strings
- suggestions: array of strings
- risk_level: "low", "medium", "high"`

// stripCodeFence removes a surrounding markdown fence the model sometimes
// wraps around the query.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```sql")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
