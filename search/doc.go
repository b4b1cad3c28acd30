// Package search evaluates structured queries against the resource
// registry and returns sorted result pages.
//
// It exists to:
//   - Keep registry small and dependency-light
//   - Isolate the bleve-backed free-text matcher and its cache from the
//     store's critical sections
//
// # Query model
//
// All query fields are optional and combine with logical AND:
//
//   - Text: case-insensitive token/substring match over name,
//     description, tags, and (for tables) the SQL text and column names
//   - Tags: every tag must be present (index intersection)
//   - AnyTags: at least one tag must be present (index union)
//   - Category, ResourceType: exact match
//   - CreatedAfter (inclusive), CreatedBefore (exclusive): RFC 3339 or
//     date-only bounds on creation time
//   - MinAccessCount: inclusive lower bound
//
// Results sort by created_at, name, access_count, or last_accessed, in
// either order (default created_at descending), with ties broken by URI
// ascending so repeated searches over unchanged data are deterministic.
//
// # Text matching
//
// Free-text queries run against an in-memory bleve index rebuilt only
// when the candidate document set's fingerprint changes, plus a substring
// scan for partial-word matches bleve's analyzer would miss.
//
// # Errors
//
// An unrecognized sort field, a negative limit, or an unparseable date
// fails with registry.ErrInvalidQuery. A query that matches nothing is an
// empty result, not an error.
package search
