// Package server exposes an analytics instance over the MCP JSON-RPC
// protocol.
//
// A Server handles initialize, tools/list, tools/call, resources/list,
// resources/read, prompts/list, and prompts/get. Three transports are
// provided: ServeStdio for line-delimited JSON-RPC over stdin/stdout,
// ServeHTTP for request/response POST bodies, and ServeSSE for
// Server-Sent Events.
//
// Error translation is centralized: sentinel errors from the registry
// and the tool dispatcher map to JSON-RPC error codes, so transports
// never inspect errors themselves.
package server
