package resource

import "time"

// Payload is the closed tagged union of type-specific resource content.
// The registry treats payloads as opaque; only the producing and
// rendering adapters look inside.
type Payload interface {
	payloadType() Type
}

// TablePayload is a SQL result-set snapshot.
type TablePayload struct {
	SQLQuery string           `json:"sql_query,omitempty"`
	Columns  []string         `json:"columns"`
	Rows     []map[string]any `json:"data,omitempty"`
	RowCount int              `json:"row_count"`
}

func (*TablePayload) payloadType() Type { return TypeTable }

// Series is a single named data series within a chart.
type Series struct {
	Name   string    `json:"name,omitempty"`
	Labels []string  `json:"labels,omitempty"`
	Values []float64 `json:"values"`
}

// SeriesStats summarizes a chart's primary series.
type SeriesStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"std_dev"`
}

// ChartPayload is a renderable chart specification.
type ChartPayload struct {
	ChartType string       `json:"chart_type"`
	Title     string       `json:"title,omitempty"`
	XLabel    string       `json:"x_label,omitempty"`
	YLabel    string       `json:"y_label,omitempty"`
	Series    []Series     `json:"series"`
	Stats     *SeriesStats `json:"stats,omitempty"`
}

func (*ChartPayload) payloadType() Type { return TypeChart }

// MLPayload is the result of a predictive-model run.
type MLPayload struct {
	ModelType    string             `json:"ml_type"`
	Target       string             `json:"target"`
	Features     []string           `json:"features"`
	Coefficients map[string]float64 `json:"coefficients,omitempty"`
	Intercept    float64            `json:"intercept"`
	RSquared     float64            `json:"r_squared"`
	SampleSize   int                `json:"sample_size"`
	Fitted       []float64          `json:"fitted,omitempty"`
}

func (*MLPayload) payloadType() Type { return TypeML }

// ColumnSchema describes one column of a discovered table.
type ColumnSchema struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Nullable   bool   `json:"nullable"`
	PrimaryKey bool   `json:"primary_key"`
	Default    string `json:"default,omitempty"`
}

// ForeignKey describes a column-level reference to another table.
type ForeignKey struct {
	Column           string `json:"column"`
	ReferencesTable  string `json:"references_table"`
	ReferencesColumn string `json:"references_column"`
}

// TableSchema describes one table of a discovered database.
type TableSchema struct {
	Columns     []ColumnSchema   `json:"columns"`
	PrimaryKeys []string         `json:"primary_keys,omitempty"`
	ForeignKeys []ForeignKey     `json:"foreign_keys,omitempty"`
	SampleRows  []map[string]any `json:"sample_data,omitempty"`
}

// Relationship is a database-wide edge derived from foreign keys, in
// "table.column -> referenced_table.referenced_column" form.
type Relationship struct {
	Table      string `json:"table"`
	Column     string `json:"column"`
	References string `json:"references"`
}

// SchemaPayload is a discovered database schema document.
type SchemaPayload struct {
	DatabaseType     string                 `json:"database_type"`
	ConnectionString string                 `json:"connection_string,omitempty"`
	Tables           map[string]TableSchema `json:"tables"`
	Relationships    []Relationship         `json:"relationships,omitempty"`
	DiscoveredAt     time.Time              `json:"discovered_at,omitzero"`
}

func (*SchemaPayload) payloadType() Type { return TypeSchema }
