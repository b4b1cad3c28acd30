package sqlgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Wire types for the chat-completions endpoint.

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// complete sends one system+user exchange and returns the assistant text.
func (c *Client) complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	var (
		out    chatResponse
		apiErr apiError
	)

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model: c.model,
			Messages: []chatMessage{
				{Role: "system", Content: system},
				{Role: "user", Content: user},
			},
			Temperature: temperature,
		}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/v1/chat/completions")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	if resp.IsError() {
		msg := apiErr.Error.Message
		if msg == "" {
			msg = resp.Status()
		}
		return "", fmt.Errorf("%w: %s", ErrGeneration, msg)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", ErrGeneration)
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

// parseValidation decodes the model's JSON analysis, tolerating a
// markdown fence and falling back to a permissive default when the body
// is not JSON at all.
func parseValidation(raw string) *ValidationResult {
	body := stripCodeFence(raw)
	result := &ValidationResult{}
	if err := json.Unmarshal([]byte(body), result); err != nil {
		return &ValidationResult{Valid: true, RiskLevel: "low"}
	}
	if result.RiskLevel == "" {
		result.RiskLevel = "low"
	}
	return result
}

// dangerousKeywords are statement kinds the analytics surface refuses to
// bless regardless of what the model says.
var dangerousKeywords = []string{
	"DROP", "DELETE", "TRUNCATE", "ALTER", "CREATE", "INSERT", "UPDATE",
}

// HasDangerousOperations reports whether the query contains a mutating or
// destructive statement keyword.
func HasDangerousOperations(sqlText string) bool {
	upper := strings.ToUpper(sqlText)
	for _, kw := range dangerousKeywords {
		if containsWord(upper, kw) {
			return true
		}
	}
	return false
}

// containsWord matches kw at word boundaries so column names like
// "created_at" do not trip the CREATE screen.
func containsWord(s, kw string) bool {
	idx := 0
	for {
		i := strings.Index(s[idx:], kw)
		if i < 0 {
			return false
		}
		i += idx
		before := i == 0 || !isWordByte(s[i-1])
		afterIdx := i + len(kw)
		after := afterIdx >= len(s) || !isWordByte(s[afterIdx])
		if before && after {
			return true
		}
		idx = i + len(kw)
	}
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}

// applyLocalScreen escalates the result when the local keyword screen
// finds destructive statements.
func applyLocalScreen(result *ValidationResult, sqlText string) {
	if HasDangerousOperations(sqlText) {
		result.RiskLevel = "high"
		result.Issues = append(result.Issues, "contains potentially dangerous operations")
	}
}
