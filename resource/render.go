package resource

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

const sampleRowLimit = 5

// Render formats a resource as markdown for human display. Raw payload
// access goes through the JSON serialization instead.
func Render(r Resource) string {
	switch p := r.Payload.(type) {
	case *TablePayload:
		return renderTable(r, p)
	case *ChartPayload:
		return renderChart(r, p)
	case *MLPayload:
		return renderML(r, p)
	case *SchemaPayload:
		return renderSchema(r, p)
	default:
		return fmt.Sprintf("# Resource: %s\n\nNo payload available.\n", r.URI)
	}
}

func renderTable(r Resource, p *TablePayload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Table Resource: %s\n\n", r.URI)
	if p.SQLQuery != "" {
		fmt.Fprintf(&b, "**SQL Query:** `%s`\n\n", p.SQLQuery)
	}
	fmt.Fprintf(&b, "**Columns:** %s\n\n", strings.Join(p.Columns, ", "))
	fmt.Fprintf(&b, "**Row Count:** %d\n\n", p.RowCount)

	if len(p.Rows) > 0 {
		b.WriteString("**Sample Data:**\n")
		fmt.Fprintf(&b, "| %s |\n", strings.Join(p.Columns, " | "))
		fmt.Fprintf(&b, "|%s\n", strings.Repeat(" --- |", len(p.Columns)))
		for i, row := range p.Rows {
			if i == sampleRowLimit {
				break
			}
			cells := make([]string, len(p.Columns))
			for j, col := range p.Columns {
				cells[j] = fmt.Sprint(row[col])
			}
			fmt.Fprintf(&b, "| %s |\n", strings.Join(cells, " | "))
		}
		if extra := len(p.Rows) - sampleRowLimit; extra > 0 {
			fmt.Fprintf(&b, "\n*... and %d more rows*\n", extra)
		}
	}
	return b.String()
}

func renderChart(r Resource, p *ChartPayload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Chart Resource: %s\n\n", r.URI)
	fmt.Fprintf(&b, "**Chart Type:** %s\n\n", p.ChartType)
	fmt.Fprintf(&b, "**Chart Data:**\n```json\n%s\n```\n", mustJSON(p))
	return b.String()
}

func renderML(r Resource, p *MLPayload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# ML Resource: %s\n\n", r.URI)
	fmt.Fprintf(&b, "**ML Type:** %s\n\n", p.ModelType)
	fmt.Fprintf(&b, "**Results:**\n```json\n%s\n```\n", mustJSON(p))
	return b.String()
}

func renderSchema(r Resource, p *SchemaPayload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Database Schema Resource: %s\n\n", r.URI)
	fmt.Fprintf(&b, "**Database Type:** %s\n\n", p.DatabaseType)
	fmt.Fprintf(&b, "**Tables:** %d\n\n", len(p.Tables))

	// Stable table order for deterministic output.
	names := make([]string, 0, len(p.Tables))
	for name := range p.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		table := p.Tables[name]
		fmt.Fprintf(&b, "## Table: %s\n\n", name)
		b.WriteString("**Columns:**\n")
		for _, col := range table.Columns {
			marker := ""
			if col.PrimaryKey {
				marker = " (PRIMARY KEY)"
			}
			fmt.Fprintf(&b, "- %s: %s%s\n", col.Name, col.Type, marker)
		}
		if len(table.ForeignKeys) > 0 {
			b.WriteString("\n**Foreign Keys:**\n")
			for _, fk := range table.ForeignKeys {
				fmt.Fprintf(&b, "- %s -> %s.%s\n", fk.Column, fk.ReferencesTable, fk.ReferencesColumn)
			}
		}
		b.WriteString("\n")
	}

	if len(p.Relationships) > 0 {
		b.WriteString("## Table Relationships\n\n")
		for _, rel := range p.Relationships {
			fmt.Fprintf(&b, "- %s.%s -> %s\n", rel.Table, rel.Column, rel.References)
		}
	}
	return b.String()
}

func mustJSON(v any) string {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(raw)
}
