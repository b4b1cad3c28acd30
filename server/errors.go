package server

import (
	"errors"

	"github.com/jonwraymond/sqlanalytics/prompt"
	"github.com/jonwraymond/sqlanalytics/registry"
	"github.com/jonwraymond/sqlanalytics/tool"
)

// MCP JSON-RPC 2.0 error codes as per the spec.
const (
	ErrCodeParseError     = -32700
	ErrCodeInvalidRequest = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternal       = -32603
	ErrCodeNotFound       = -32001
	ErrCodeExecFailed     = -32002
)

// errorCode maps domain errors onto JSON-RPC codes. Unknown errors are
// execution failures rather than protocol errors.
func errorCode(err error) int {
	switch {
	case errors.Is(err, registry.ErrNotFound),
		errors.Is(err, tool.ErrUnknownTool),
		errors.Is(err, prompt.ErrNotFound):
		return ErrCodeNotFound
	case errors.Is(err, registry.ErrInvalidInput),
		errors.Is(err, registry.ErrInvalidQuery),
		errors.Is(err, tool.ErrMissingParam):
		return ErrCodeInvalidParams
	default:
		return ErrCodeExecFailed
	}
}
