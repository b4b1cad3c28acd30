package viz

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/jonwraymond/sqlanalytics/resource"
)

// ErrInvalidChart marks a chart request the builder cannot satisfy.
var ErrInvalidChart = errors.New("invalid chart request")

// Supported chart types.
const (
	ChartBar       = "bar"
	ChartLine      = "line"
	ChartPie       = "pie"
	ChartScatter   = "scatter"
	ChartHistogram = "histogram"
)

const defaultHistogramBins = 10

// Request describes the chart to build from a table.
type Request struct {
	ChartType string
	Title     string
	XColumn   string // label column (bar/line/pie) or x-axis values (scatter)
	YColumn   string // numeric value column
	Bins      int    // histogram bucket count; default 10
}

// BuildChart extracts the requested series from the table and returns a
// chart payload with summary statistics over the primary numeric series.
func BuildChart(table *resource.TablePayload, req Request) (*resource.ChartPayload, error) {
	if table == nil || len(table.Rows) == 0 {
		return nil, fmt.Errorf("%w: table has no rows", ErrInvalidChart)
	}

	var (
		payload *resource.ChartPayload
		err     error
	)
	switch req.ChartType {
	case ChartBar, ChartLine, ChartPie:
		payload, err = buildLabeled(table, req)
	case ChartScatter:
		payload, err = buildScatter(table, req)
	case ChartHistogram:
		payload, err = buildHistogram(table, req)
	default:
		return nil, fmt.Errorf("%w: unknown chart type %q", ErrInvalidChart, req.ChartType)
	}
	if err != nil {
		return nil, err
	}

	payload.Title = req.Title
	payload.XLabel = req.XColumn
	payload.YLabel = req.YColumn
	if len(payload.Series) > 0 {
		payload.Stats = summarize(payload.Series[len(payload.Series)-1].Values)
	}
	return payload, nil
}

func buildLabeled(table *resource.TablePayload, req Request) (*resource.ChartPayload, error) {
	xCol, err := pickColumn(table, req.XColumn, 0)
	if err != nil {
		return nil, err
	}
	yCol, err := pickColumn(table, req.YColumn, 1)
	if err != nil {
		return nil, err
	}

	labels := make([]string, 0, len(table.Rows))
	values := make([]float64, 0, len(table.Rows))
	for _, row := range table.Rows {
		v, ok := toFloat(row[yCol])
		if !ok {
			continue
		}
		labels = append(labels, fmt.Sprint(row[xCol]))
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: column %q has no numeric values", ErrInvalidChart, yCol)
	}

	return &resource.ChartPayload{
		ChartType: req.ChartType,
		Series:    []resource.Series{{Name: yCol, Labels: labels, Values: values}},
	}, nil
}

func buildScatter(table *resource.TablePayload, req Request) (*resource.ChartPayload, error) {
	xCol, err := pickColumn(table, req.XColumn, 0)
	if err != nil {
		return nil, err
	}
	yCol, err := pickColumn(table, req.YColumn, 1)
	if err != nil {
		return nil, err
	}

	xs := make([]float64, 0, len(table.Rows))
	ys := make([]float64, 0, len(table.Rows))
	for _, row := range table.Rows {
		x, okX := toFloat(row[xCol])
		y, okY := toFloat(row[yCol])
		if !okX || !okY {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	if len(xs) == 0 {
		return nil, fmt.Errorf("%w: no numeric point pairs in %q/%q", ErrInvalidChart, xCol, yCol)
	}

	return &resource.ChartPayload{
		ChartType: ChartScatter,
		Series: []resource.Series{
			{Name: xCol, Values: xs},
			{Name: yCol, Values: ys},
		},
	}, nil
}

func buildHistogram(table *resource.TablePayload, req Request) (*resource.ChartPayload, error) {
	col, err := pickColumn(table, req.YColumn, 0)
	if err != nil {
		return nil, err
	}
	values := numericColumn(table, col)
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: column %q has no numeric values", ErrInvalidChart, col)
	}

	bins := req.Bins
	if bins <= 0 {
		bins = defaultHistogramBins
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	width := (hi - lo) / float64(bins)
	if width == 0 {
		width = 1
	}

	labels := make([]string, bins)
	counts := make([]float64, bins)
	for i := range labels {
		labels[i] = fmt.Sprintf("%.4g-%.4g", lo+float64(i)*width, lo+float64(i+1)*width)
	}
	for _, v := range values {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		counts[i]++
	}

	return &resource.ChartPayload{
		ChartType: ChartHistogram,
		Series:    []resource.Series{{Name: col, Labels: labels, Values: counts}},
	}, nil
}

// pickColumn resolves a requested column or falls back to the table's
// column at fallback position.
func pickColumn(table *resource.TablePayload, requested string, fallback int) (string, error) {
	if requested != "" {
		for _, col := range table.Columns {
			if col == requested {
				return col, nil
			}
		}
		return "", fmt.Errorf("%w: column %q not in table", ErrInvalidChart, requested)
	}
	if fallback >= len(table.Columns) {
		return "", fmt.Errorf("%w: table has only %d columns", ErrInvalidChart, len(table.Columns))
	}
	return table.Columns[fallback], nil
}

func numericColumn(table *resource.TablePayload, col string) []float64 {
	out := make([]float64, 0, len(table.Rows))
	for _, row := range table.Rows {
		if v, ok := toFloat(row[col]); ok {
			out = append(out, v)
		}
	}
	return out
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

// summarize computes summary statistics over the plotted values.
func summarize(values []float64) *resource.SeriesStats {
	if len(values) == 0 {
		return nil
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	// Sample standard deviation is undefined for a single value; NaN
	// would make the stored payload unmarshalable.
	stdDev := 0.0
	if len(values) > 1 {
		stdDev = stat.StdDev(values, nil)
	}

	return &resource.SeriesStats{
		Count:  len(values),
		Mean:   stat.Mean(values, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		StdDev: stdDev,
	}
}
