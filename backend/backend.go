// Package backend implements strand.ChatProvider and strand.TableProvider
// for the strand generation API.
//
// The API streams over chunked HTTP in two framings: chat mode is SSE-style
// lines ("data: " + JSON with a content field), tabular mode is
// newline-delimited JSON objects with a type discriminator
// (header/row/done/error).
package backend

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	chatPath  = "/v1/chat/stream"
	tablePath = "/v1/personalize/stream"
)

// UpstreamError is an explicit error event sent by the backend mid-stream.
// Error() returns the detail verbatim so the UI can show it unaltered.
type UpstreamError struct {
	Detail string
}

func (e *UpstreamError) Error() string { return e.Detail }

// apiChatRequest is the wire format for a chat-mode request.
type apiChatRequest struct {
	Model        string       `json:"model,omitempty"`
	SystemPrompt string       `json:"system_prompt,omitempty"`
	Messages     []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// apiTableRequest is the wire format for a tabular-mode request.
type apiTableRequest struct {
	Model   string     `json:"model,omitempty"`
	Prompt  string     `json:"prompt"`
	Columns []string   `json:"columns"`
	Records [][]string `json:"records"`
	Preview bool       `json:"preview,omitempty"`
}

type apiErrorResponse struct {
	Detail string `json:"detail"`
}

func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("backend: HTTP %d (failed to read body: %w)", resp.StatusCode, err)
	}
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Detail == "" {
		return fmt.Errorf("backend: HTTP %d: %s", resp.StatusCode, string(body))
	}
	return fmt.Errorf("backend: HTTP %d: %s", resp.StatusCode, apiErr.Detail)
}
