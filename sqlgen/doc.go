// Package sqlgen drafts and reviews SQL with an OpenAI-compatible
// chat-completions endpoint.
//
// It is a tool adapter: the registry never calls it, and its failures are
// its own (ErrGeneration) rather than registry errors. The Generator
// interface lets tests substitute a canned implementation.
//
// GenerateSQL builds the system prompt from a stored schema resource when
// one is supplied, so generated queries use the database's real table and
// column names. ValidateSQL combines a local screen for destructive
// statements with a model-side analysis.
package sqlgen
