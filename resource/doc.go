// Package resource defines the data model for cached analytics artifacts.
//
// A Resource is a URI-addressable record wrapping an opaque, type-specific
// payload (table snapshot, chart spec, ML result, or database schema)
// together with the metadata the registry tracks: tags, category,
// creation and expiry timestamps, and access statistics.
//
// # Types and Categories
//
// Resource types form a closed set:
//
//   - TypeSchema: a discovered database schema document
//   - TypeTable: a SQL result set snapshot
//   - TypeChart: a chart specification
//   - TypeML: a predictive-model result
//
// Categories classify resources for discovery: infrastructure, data,
// visualization, analytics, and general.
//
// # Payloads
//
// Payloads are a closed tagged union. The registry never inspects payload
// internals; it only carries them. Each payload type implements the
// Payload interface and serializes as the record's "metadata" object:
//
//	res := resource.Resource{
//	    Type:    resource.TypeTable,
//	    Payload: &resource.TablePayload{Columns: []string{"id"}, RowCount: 3},
//	}
//
// # Serialization
//
// Resource marshals to a flat JSON document with ISO-8601 timestamps.
// Null expires_at and last_accessed survive a round-trip as null, not as
// sentinel dates.
package resource
