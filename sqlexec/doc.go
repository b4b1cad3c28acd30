// Package sqlexec executes SQL against a SQLite database and discovers
// its schema.
//
// It is a tool adapter at the registry boundary: Execute produces a
// resource.TablePayload and DiscoverSchema a resource.SchemaPayload, both
// ready to be stored as resources. Database failures surface as this
// package's own errors and never pass through the registry's taxonomy.
//
// The driver is modernc.org/sqlite (pure Go, no cgo). Use ":memory:" for
// an in-memory database, which tests rely on.
package sqlexec
