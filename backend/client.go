package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/strandkit/strand"
)

// Interface compliance checks.
var (
	_ strand.ChatProvider  = (*Client)(nil)
	_ strand.TableProvider = (*Client)(nil)
)

// Client talks to the strand generation API.
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	logger      *log.Logger
	idleTimeout time.Duration
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithAPIKey sets the bearer token sent with each request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithLogger sets the logger used for skipped-fragment warnings.
// By default warnings are discarded.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithIdleTimeout sets the maximum time to wait between chunks. The
// transport has no stream-level timeout of its own; exceeding the idle
// timeout fails the stream. Zero disables the limit.
func WithIdleTimeout(d time.Duration) Option {
	return func(c *Client) { c.idleTimeout = d }
}

// New creates a new [Client] for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		logger:     log.New(io.Discard),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// StreamChat sends a chat-mode request and returns a pull-based stream of
// text deltas.
func (c *Client) StreamChat(ctx context.Context, req strand.ChatRequest) (strand.TextStream, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}
	body, err := c.open(ctx, chatPath, apiChatRequest{
		Model:        req.Model,
		SystemPrompt: req.SystemPrompt,
		Messages:     convertMessages(req.Messages),
	}, "text/event-stream")
	if err != nil {
		return nil, err
	}
	return newChatStream(ctx, body, c.logger, c.idleTimeout), nil
}

// StreamTable sends a tabular-mode request and returns a pull-based stream
// of header and row events.
func (c *Client) StreamTable(ctx context.Context, req strand.TableRequest) (strand.TableStream, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}
	body, err := c.open(ctx, tablePath, apiTableRequest{
		Model:   req.Model,
		Prompt:  req.Prompt,
		Columns: req.Columns,
		Records: req.Records,
		Preview: req.Preview,
	}, "application/x-ndjson")
	if err != nil {
		return nil, err
	}
	return newTableStream(ctx, body, c.logger, c.idleTimeout), nil
}

// open POSTs the request and hands back the response body once the HTTP
// status confirms a stream is coming. A non-2xx status is fatal before any
// streaming begins.
func (c *Client) open(ctx context.Context, path string, payload any, accept string) (io.ReadCloser, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", accept)
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("backend: connection failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, parseHTTPError(resp)
	}

	return resp.Body, nil
}

func convertMessages(msgs []strand.Message) []apiMessage {
	result := make([]apiMessage, 0, len(msgs))
	for _, msg := range msgs {
		switch m := msg.(type) {
		case strand.UserMessage:
			result = append(result, apiMessage{Role: string(strand.RoleUser), Text: m.Text})
		case strand.AssistantMessage:
			result = append(result, apiMessage{Role: string(strand.RoleAssistant), Text: m.Text})
		}
	}
	return result
}
