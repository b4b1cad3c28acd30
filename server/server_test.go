package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jonwraymond/sqlanalytics/analytics"
	"github.com/jonwraymond/sqlanalytics/sqlexec"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	exec, err := sqlexec.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { _ = exec.Close() })

	ctx := context.Background()
	if err := exec.Exec(ctx, `CREATE TABLE sales (region TEXT, revenue REAL)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if err := exec.Exec(ctx, `INSERT INTO sales VALUES ('North', 100), ('South', 200)`); err != nil {
		t.Fatalf("insert: %v", err)
	}

	a, err := analytics.New(analytics.Options{Executor: exec})
	if err != nil {
		t.Fatalf("analytics.New failed: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })

	return New(a, WithInfo(Info{Name: "test-server", Version: "0.0.1"}))
}

func request(method string, params any) MCPRequest {
	var raw json.RawMessage
	if params != nil {
		raw, _ = json.Marshal(params)
	}
	return MCPRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: raw}
}

func resultMap(t *testing.T, resp MCPResponse) map[string]any {
	t.Helper()
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	m, ok := resp.Result.(map[string]any)
	if !ok {
		t.Fatalf("expected map result, got %T", resp.Result)
	}
	return m
}

func TestHandleInitialize(t *testing.T) {
	s := newTestServer(t)

	resp := s.HandleRequest(context.Background(), request("initialize", nil))
	result := resultMap(t, resp)

	if result["protocolVersion"] != MCPVersion {
		t.Errorf("unexpected protocol version: %v", result["protocolVersion"])
	}
	info := result["serverInfo"].(map[string]any)
	if info["name"] != "test-server" {
		t.Errorf("unexpected server info: %v", info)
	}
	caps := result["capabilities"].(map[string]any)
	for _, cap := range []string{"tools", "resources", "prompts"} {
		if _, ok := caps[cap]; !ok {
			t.Errorf("missing capability %s", cap)
		}
	}
}

func TestHandleToolsList(t *testing.T) {
	s := newTestServer(t)

	resp := s.HandleRequest(context.Background(), request("tools/list", nil))
	result := resultMap(t, resp)

	tools := result["tools"].([]map[string]any)
	if len(tools) != 7 {
		t.Fatalf("expected 7 tools, got %d", len(tools))
	}
	for _, tool := range tools {
		if tool["name"] == "" || tool["inputSchema"] == nil {
			t.Errorf("incomplete tool entry: %v", tool)
		}
	}
}

func TestHandleToolsCall(t *testing.T) {
	s := newTestServer(t)

	resp := s.HandleRequest(context.Background(), request("tools/call", map[string]any{
		"name": "execute_sql",
		"arguments": map[string]any{
			"sql_query": "SELECT region, revenue FROM sales ORDER BY region",
		},
	}))
	result := resultMap(t, resp)

	content := result["content"].([]map[string]any)
	if len(content) != 1 || content[0]["type"] != "text" {
		t.Fatalf("unexpected content shape: %v", content)
	}

	var body map[string]any
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), &body); err != nil {
		t.Fatalf("content is not JSON: %v", err)
	}
	if body["row_count"] != float64(2) {
		t.Errorf("expected 2 rows, got %v", body["row_count"])
	}
	if _, ok := body["resource_uri"]; !ok {
		t.Error("expected stored resource URI in tool result")
	}
}

func TestHandleToolsCallErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		params map[string]any
		code   int
	}{
		{"unknown tool", map[string]any{"name": "nope"}, ErrCodeNotFound},
		{"missing param", map[string]any{"name": "execute_sql"}, ErrCodeInvalidParams},
		{"exec failure", map[string]any{
			"name":      "execute_sql",
			"arguments": map[string]any{"sql_query": "SELECT x FROM missing"},
		}, ErrCodeExecFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := s.HandleRequest(context.Background(), request("tools/call", tt.params))
			if resp.Error == nil || resp.Error.Code != tt.code {
				t.Errorf("expected error code %d, got %+v", tt.code, resp.Error)
			}
		})
	}
}

func TestHandleResourcesListAndRead(t *testing.T) {
	s := newTestServer(t)

	// Store one resource through a tool call.
	s.HandleRequest(context.Background(), request("tools/call", map[string]any{
		"name":      "execute_sql",
		"arguments": map[string]any{"sql_query": "SELECT region FROM sales"},
	}))

	resp := s.HandleRequest(context.Background(), request("resources/list", nil))
	result := resultMap(t, resp)
	resources := result["resources"].([]map[string]any)
	if len(resources) != 1 {
		t.Fatalf("expected 1 resource, got %d", len(resources))
	}
	uri := resources[0]["uri"].(string)

	resp = s.HandleRequest(context.Background(), request("resources/read", map[string]any{"uri": uri}))
	result = resultMap(t, resp)
	contents := result["contents"].([]map[string]any)
	if contents[0]["mimeType"] != "text/markdown" {
		t.Errorf("expected markdown, got %v", contents[0]["mimeType"])
	}
	if !strings.Contains(contents[0]["text"].(string), "# Table Resource:") {
		t.Error("expected rendered markdown body")
	}

	resp = s.HandleRequest(context.Background(), request("resources/read", map[string]any{"uri": uri, "raw": true}))
	result = resultMap(t, resp)
	contents = result["contents"].([]map[string]any)
	if contents[0]["mimeType"] != "application/json" {
		t.Errorf("expected JSON mime for raw read, got %v", contents[0]["mimeType"])
	}

	resp = s.HandleRequest(context.Background(), request("resources/read", map[string]any{"uri": "resource://tables/missing"}))
	if resp.Error == nil || resp.Error.Code != ErrCodeNotFound {
		t.Errorf("expected not-found code, got %+v", resp.Error)
	}
}

func TestHandlePrompts(t *testing.T) {
	s := newTestServer(t)

	resp := s.HandleRequest(context.Background(), request("prompts/list", nil))
	result := resultMap(t, resp)
	prompts := result["prompts"].([]map[string]any)
	if len(prompts) != 5 {
		t.Fatalf("expected 5 prompts, got %d", len(prompts))
	}

	resp = s.HandleRequest(context.Background(), request("prompts/get", map[string]any{"name": "predict"}))
	result = resultMap(t, resp)
	messages := result["messages"].([]map[string]any)
	if len(messages) != 1 || messages[0]["role"] != "user" {
		t.Errorf("unexpected prompt messages: %v", messages)
	}

	resp = s.HandleRequest(context.Background(), request("prompts/get", map[string]any{"name": "nope"}))
	if resp.Error == nil || resp.Error.Code != ErrCodeNotFound {
		t.Errorf("expected not-found code, got %+v", resp.Error)
	}
}

func TestHandleUnknownMethod(t *testing.T) {
	s := newTestServer(t)

	resp := s.HandleRequest(context.Background(), request("shutdown", nil))
	if resp.Error == nil || resp.Error.Code != ErrCodeMethodNotFound {
		t.Errorf("expected method-not-found, got %+v", resp.Error)
	}
}

func TestServeHTTP(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(ServeHTTP(s))
	t.Cleanup(ts.Close)

	body, _ := json.Marshal(request("tools/list", nil))
	resp, err := http.Post(ts.URL, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()

	var mcpResp MCPResponse
	if err := json.NewDecoder(resp.Body).Decode(&mcpResp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if mcpResp.Error != nil {
		t.Fatalf("unexpected error: %+v", mcpResp.Error)
	}

	// Non-POST methods are rejected.
	getResp, err := http.Get(ts.URL)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer getResp.Body.Close()
	if getResp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", getResp.StatusCode)
	}

	// Malformed bodies produce a parse error response.
	badResp, err := http.Post(ts.URL, "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer badResp.Body.Close()
	var parseErr MCPResponse
	if err := json.NewDecoder(badResp.Body).Decode(&parseErr); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if parseErr.Error == nil || parseErr.Error.Code != ErrCodeParseError {
		t.Errorf("expected parse error, got %+v", parseErr.Error)
	}
}

func TestServeStdio(t *testing.T) {
	s := newTestServer(t)

	var in bytes.Buffer
	var out bytes.Buffer
	lines := []MCPRequest{
		request("initialize", nil),
		request("tools/list", nil),
	}
	enc := json.NewEncoder(&in)
	for _, line := range lines {
		if err := enc.Encode(line); err != nil {
			t.Fatalf("encode failed: %v", err)
		}
	}
	in.WriteString("not json\n")

	if err := ServeStdio(context.Background(), s, &in, &out); err != nil {
		t.Fatalf("ServeStdio failed: %v", err)
	}

	dec := json.NewDecoder(&out)
	var responses []MCPResponse
	for dec.More() {
		var resp MCPResponse
		if err := dec.Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		responses = append(responses, resp)
	}
	if len(responses) != 3 {
		t.Fatalf("expected 3 responses, got %d", len(responses))
	}
	if responses[0].Error != nil || responses[1].Error != nil {
		t.Error("expected first two requests to succeed")
	}
	if responses[2].Error == nil || responses[2].Error.Code != ErrCodeParseError {
		t.Errorf("expected parse error for malformed line, got %+v", responses[2].Error)
	}
}

func TestServeSSE(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(ServeSSE(s))
	t.Cleanup(ts.Close)

	body, _ := json.Marshal(request("initialize", nil))
	resp, err := http.Post(ts.URL, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("expected event stream, got %q", ct)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "event: message\n") {
		t.Errorf("unexpected SSE frame:\n%s", buf.String())
	}
}
