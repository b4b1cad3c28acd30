// Package viz builds chart specifications from table snapshots.
//
// It is a tool adapter: given a resource.TablePayload and a chart
// request, it extracts the plotted series, computes summary statistics
// with gonum, and returns a resource.ChartPayload ready to store. It
// never renders pixels; the payload is a renderer-agnostic spec.
//
// Supported chart types: bar, line, pie, scatter, and histogram.
package viz
