package viz

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/jonwraymond/sqlanalytics/resource"
)

func salesTable() *resource.TablePayload {
	return &resource.TablePayload{
		Columns: []string{"region", "revenue"},
		Rows: []map[string]any{
			{"region": "North", "revenue": float64(100)},
			{"region": "South", "revenue": float64(200)},
			{"region": "East", "revenue": float64(300)},
			{"region": "West", "revenue": float64(400)},
		},
		RowCount: 4,
	}
}

func TestBuildBarChart(t *testing.T) {
	chart, err := BuildChart(salesTable(), Request{
		ChartType: ChartBar,
		Title:     "Revenue by region",
		XColumn:   "region",
		YColumn:   "revenue",
	})
	if err != nil {
		t.Fatalf("BuildChart failed: %v", err)
	}

	if chart.ChartType != ChartBar || chart.Title != "Revenue by region" {
		t.Errorf("unexpected chart header: %+v", chart)
	}
	if len(chart.Series) != 1 {
		t.Fatalf("expected 1 series, got %d", len(chart.Series))
	}
	s := chart.Series[0]
	if len(s.Labels) != 4 || s.Labels[0] != "North" {
		t.Errorf("unexpected labels: %v", s.Labels)
	}
	if s.Values[3] != 400 {
		t.Errorf("unexpected values: %v", s.Values)
	}

	if chart.Stats == nil {
		t.Fatal("expected stats")
	}
	if chart.Stats.Mean != 250 || chart.Stats.Min != 100 || chart.Stats.Max != 400 {
		t.Errorf("unexpected stats: %+v", chart.Stats)
	}
	if chart.Stats.Count != 4 {
		t.Errorf("expected count 4, got %d", chart.Stats.Count)
	}
}

func TestBuildChartPositionalFallback(t *testing.T) {
	// With no columns named, the first column labels and the second holds
	// values.
	chart, err := BuildChart(salesTable(), Request{ChartType: ChartLine})
	if err != nil {
		t.Fatalf("BuildChart failed: %v", err)
	}
	if chart.Series[0].Name != "revenue" {
		t.Errorf("expected fallback to second column, got %q", chart.Series[0].Name)
	}
}

func TestBuildScatter(t *testing.T) {
	table := &resource.TablePayload{
		Columns: []string{"x", "y", "label"},
		Rows: []map[string]any{
			{"x": float64(1), "y": float64(2), "label": "a"},
			{"x": float64(2), "y": float64(4), "label": "b"},
			{"x": "bad", "y": float64(9), "label": "c"},
		},
	}

	chart, err := BuildChart(table, Request{ChartType: ChartScatter, XColumn: "x", YColumn: "y"})
	if err != nil {
		t.Fatalf("BuildChart failed: %v", err)
	}
	if len(chart.Series) != 2 {
		t.Fatalf("expected x and y series, got %d", len(chart.Series))
	}
	// Non-numeric rows are skipped pairwise.
	if len(chart.Series[0].Values) != 2 || len(chart.Series[1].Values) != 2 {
		t.Errorf("expected 2 point pairs, got %v / %v", chart.Series[0].Values, chart.Series[1].Values)
	}
}

func TestBuildHistogram(t *testing.T) {
	rows := make([]map[string]any, 0, 20)
	for i := 0; i < 20; i++ {
		rows = append(rows, map[string]any{"v": float64(i)})
	}
	table := &resource.TablePayload{Columns: []string{"v"}, Rows: rows}

	chart, err := BuildChart(table, Request{ChartType: ChartHistogram, YColumn: "v", Bins: 4})
	if err != nil {
		t.Fatalf("BuildChart failed: %v", err)
	}
	s := chart.Series[0]
	if len(s.Values) != 4 {
		t.Fatalf("expected 4 bins, got %d", len(s.Values))
	}
	var total float64
	for _, c := range s.Values {
		total += c
	}
	if total != 20 {
		t.Errorf("expected all 20 values binned, got %v", s.Values)
	}
}

func TestBuildHistogramConstantColumn(t *testing.T) {
	table := &resource.TablePayload{
		Columns: []string{"v"},
		Rows: []map[string]any{
			{"v": float64(7)}, {"v": float64(7)}, {"v": float64(7)},
		},
	}

	chart, err := BuildChart(table, Request{ChartType: ChartHistogram})
	if err != nil {
		t.Fatalf("BuildChart failed on constant column: %v", err)
	}
	var total float64
	for _, c := range chart.Series[0].Values {
		total += c
	}
	if total != 3 {
		t.Errorf("expected 3 values binned, got %v", chart.Series[0].Values)
	}
}

func TestBuildChartSingleRowStats(t *testing.T) {
	table := &resource.TablePayload{
		Columns:  []string{"region", "revenue"},
		Rows:     []map[string]any{{"region": "North", "revenue": float64(100)}},
		RowCount: 1,
	}

	chart, err := BuildChart(table, Request{ChartType: ChartBar, XColumn: "region", YColumn: "revenue"})
	if err != nil {
		t.Fatalf("BuildChart failed: %v", err)
	}
	if chart.Stats == nil {
		t.Fatal("expected stats")
	}
	if chart.Stats.Count != 1 || chart.Stats.StdDev != 0 {
		t.Errorf("expected count 1 with zero stddev, got %+v", chart.Stats)
	}
	// The payload must stay marshalable for storage and export.
	if _, err := json.Marshal(chart); err != nil {
		t.Errorf("marshal failed: %v", err)
	}
}

func TestBuildChartErrors(t *testing.T) {
	tests := []struct {
		name  string
		table *resource.TablePayload
		req   Request
	}{
		{"nil table", nil, Request{ChartType: ChartBar}},
		{"empty table", &resource.TablePayload{Columns: []string{"a"}}, Request{ChartType: ChartBar}},
		{"unknown chart type", salesTable(), Request{ChartType: "sparkline"}},
		{"unknown column", salesTable(), Request{ChartType: ChartBar, YColumn: "profit"}},
		{"non-numeric values", &resource.TablePayload{
			Columns: []string{"a", "b"},
			Rows:    []map[string]any{{"a": "x", "b": "y"}},
		}, Request{ChartType: ChartBar}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildChart(tt.table, tt.req)
			if !errors.Is(err, ErrInvalidChart) {
				t.Errorf("expected ErrInvalidChart, got %v", err)
			}
		})
	}
}

func TestToFloat(t *testing.T) {
	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{float64(1.5), 1.5, true},
		{int(2), 2, true},
		{int64(3), 3, true},
		{"4.5", 4.5, true},
		{"abc", 0, false},
		{nil, 0, false},
		{true, 0, false},
	}
	for _, tt := range tests {
		got, ok := toFloat(tt.in)
		if ok != tt.ok || (ok && math.Abs(got-tt.want) > 1e-12) {
			t.Errorf("toFloat(%v) = %v,%v want %v,%v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
