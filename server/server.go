package server

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonwraymond/sqlanalytics/analytics"
)

// MCPVersion is the protocol revision advertised during initialize.
const MCPVersion = "2024-11-05"

// MCPRequest represents an incoming MCP JSON-RPC request.
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an MCP JSON-RPC response.
type MCPResponse struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id"`
	Result  any       `json:"result,omitempty"`
	Error   *MCPError `json:"error,omitempty"`
}

// MCPError is a JSON-RPC error object.
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Info identifies the server during initialize.
type Info struct {
	Name    string
	Version string
}

// Server routes MCP requests to an analytics instance.
type Server struct {
	analytics *analytics.Analytics
	info      Info
	logger    *zap.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithInfo overrides the advertised server identity.
func WithInfo(info Info) Option {
	return func(s *Server) { s.info = info }
}

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// New creates a Server over an analytics instance.
func New(a *analytics.Analytics, opts ...Option) *Server {
	s := &Server{
		analytics: a,
		info:      Info{Name: "sqlanalytics", Version: "1.0.0"},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HandleRequest processes an MCP request and returns a response.
func (s *Server) HandleRequest(ctx context.Context, req MCPRequest) MCPResponse {
	s.logger.Debug("mcp request", zap.String("method", req.Method))

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req.ID)
	case "tools/list":
		return s.handleToolsList(req.ID)
	case "tools/call":
		return s.handleToolsCall(ctx, req.ID, req.Params)
	case "resources/list":
		return s.handleResourcesList(req.ID)
	case "resources/read":
		return s.handleResourcesRead(req.ID, req.Params)
	case "prompts/list":
		return s.handlePromptsList(req.ID)
	case "prompts/get":
		return s.handlePromptsGet(req.ID, req.Params)
	default:
		return errResponse(req.ID, ErrCodeMethodNotFound, fmt.Sprintf("method %s not found", req.Method))
	}
}

func (s *Server) handleInitialize(id any) MCPResponse {
	return okResponse(id, map[string]any{
		"protocolVersion": MCPVersion,
		"capabilities": map[string]any{
			"tools":     map[string]any{},
			"resources": map[string]any{},
			"prompts":   map[string]any{},
		},
		"serverInfo": map[string]any{
			"name":    s.info.Name,
			"version": s.info.Version,
		},
	})
}

func (s *Server) handleToolsList(id any) MCPResponse {
	defs := s.analytics.Tools()
	tools := make([]map[string]any, 0, len(defs))
	for _, def := range defs {
		tools = append(tools, map[string]any{
			"name":        def.Name,
			"description": def.Description,
			"inputSchema": def.InputSchema(),
		})
	}
	return okResponse(id, map[string]any{"tools": tools})
}

type toolsCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

func (s *Server) handleToolsCall(ctx context.Context, id any, params json.RawMessage) MCPResponse {
	var call toolsCallParams
	if err := json.Unmarshal(params, &call); err != nil {
		return errResponse(id, ErrCodeInvalidParams, err.Error())
	}

	result, err := s.analytics.CallTool(ctx, call.Name, call.Arguments)
	if err != nil {
		return errResponse(id, errorCode(err), err.Error())
	}

	data, err := json.Marshal(result)
	if err != nil {
		return errResponse(id, ErrCodeInternal, err.Error())
	}
	return okResponse(id, map[string]any{
		"content": []map[string]any{
			{"type": "text", "text": string(data)},
		},
	})
}

func (s *Server) handleResourcesList(id any) MCPResponse {
	records := s.analytics.Resources()
	resources := make([]map[string]any, 0, len(records))
	for _, r := range records {
		resources = append(resources, map[string]any{
			"uri":         r.URI,
			"name":        r.Name,
			"description": r.Description,
			"mimeType":    "text/markdown",
		})
	}
	return okResponse(id, map[string]any{"resources": resources})
}

type resourcesReadParams struct {
	URI string `json:"uri"`
	Raw bool   `json:"raw,omitempty"`
}

func (s *Server) handleResourcesRead(id any, params json.RawMessage) MCPResponse {
	var read resourcesReadParams
	if err := json.Unmarshal(params, &read); err != nil {
		return errResponse(id, ErrCodeInvalidParams, err.Error())
	}

	text, err := s.analytics.ReadResource(read.URI, read.Raw)
	if err != nil {
		return errResponse(id, errorCode(err), err.Error())
	}

	mimeType := "text/markdown"
	if read.Raw {
		mimeType = "application/json"
	}
	return okResponse(id, map[string]any{
		"contents": []map[string]any{
			{"uri": read.URI, "mimeType": mimeType, "text": text},
		},
	})
}

func (s *Server) handlePromptsList(id any) MCPResponse {
	all := s.analytics.Prompts()
	prompts := make([]map[string]any, 0, len(all))
	for _, p := range all {
		prompts = append(prompts, map[string]any{
			"name":        p.Name,
			"description": p.Description,
		})
	}
	return okResponse(id, map[string]any{"prompts": prompts})
}

type promptsGetParams struct {
	Name string `json:"name"`
}

func (s *Server) handlePromptsGet(id any, params json.RawMessage) MCPResponse {
	var get promptsGetParams
	if err := json.Unmarshal(params, &get); err != nil {
		return errResponse(id, ErrCodeInvalidParams, err.Error())
	}

	p, err := s.analytics.Prompt(get.Name)
	if err != nil {
		return errResponse(id, errorCode(err), err.Error())
	}

	return okResponse(id, map[string]any{
		"description": p.Description,
		"messages": []map[string]any{
			{
				"role": "user",
				"content": map[string]any{
					"type": "text",
					"text": p.Template,
				},
			},
		},
	})
}

func okResponse(id any, result any) MCPResponse {
	return MCPResponse{JSONRPC: "2.0", ID: id, Result: result}
}

func errResponse(id any, code int, message string) MCPResponse {
	return MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &MCPError{Code: code, Message: message},
	}
}
