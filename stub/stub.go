// Package stub serves a local generation backend for development and tests.
// It speaks both wire formats the real backend uses: SSE-style chat deltas
// and newline-delimited JSON tabular events.
package stub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is a stub generation backend. Chat mode echoes the last user
// message word by word; tabular mode renders the prompt template against
// each input record.
type Server struct {
	logger *log.Logger
	delay  time.Duration
	// failAfter injects an error event after this many data events.
	// Zero disables injection.
	failAfter int
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithDelay inserts a pause between streamed events so client-side
// incremental rendering is observable.
func WithDelay(d time.Duration) Option {
	return func(s *Server) {
		s.delay = d
	}
}

// WithFailAfter makes every stream emit an error event after n data events.
func WithFailAfter(n int) Option {
	return func(s *Server) {
		s.failAfter = n
	}
}

// New creates a stub Server.
func New(opts ...Option) *Server {
	s := &Server{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP handler for the stub API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Post("/v1/chat/stream", s.handleChat)
	r.Post("/v1/personalize/stream", s.handleTable)

	return r
}

// ListenAndServe serves the stub API on addr until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("stub backend listening", "addr", addr)
	srv := &http.Server{
		Addr:        addr,
		Handler:     s.Handler(),
		ReadTimeout: 10 * time.Second,
		// Streaming responses are long-lived.
		WriteTimeout: 0,
	}
	return srv.ListenAndServe()
}

type chatRequest struct {
	SystemPrompt string `json:"system_prompt"`
	Messages     []struct {
		Role string `json:"role"`
		Text string `json:"text"`
	} `json:"messages"`
}

type tableRequest struct {
	Prompt  string     `json:"prompt"`
	Columns []string   `json:"columns"`
	Records [][]string `json:"records"`
	Preview bool       `json:"preview"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	var last string
	for _, m := range req.Messages {
		if m.Role == "user" {
			last = m.Text
		}
	}
	if last == "" {
		writeError(w, http.StatusBadRequest, "no user message")
		return
	}

	st, ok := newStreamWriter(w, "text/event-stream")
	if !ok {
		return
	}

	reply := "You said: " + last
	words := strings.Fields(reply)
	for i, word := range words {
		if s.failAfter > 0 && i >= s.failAfter {
			st.writeJSON(r.Context(), map[string]string{"type": "error", "detail": "injected failure"})
			return
		}
		delta := word
		if i < len(words)-1 {
			delta += " "
		}
		payload, _ := json.Marshal(map[string]string{"content": delta})
		if !st.writeLine(r.Context(), "data: "+string(payload)) {
			s.logger.Warn("chat client went away", "after_words", i)
			return
		}
		s.pause(r.Context())
	}
	st.writeJSON(r.Context(), map[string]string{"type": "done"})
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	var req tableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Columns) == 0 {
		writeError(w, http.StatusBadRequest, "no columns")
		return
	}

	st, ok := newStreamWriter(w, "application/x-ndjson")
	if !ok {
		return
	}

	header := append(append([]string{}, req.Columns...), "output")
	if !st.writeJSON(r.Context(), map[string]any{"type": "header", "data": header}) {
		return
	}

	records := req.Records
	if req.Preview && len(records) > 1 {
		records = records[:1]
	}
	for i, rec := range records {
		if s.failAfter > 0 && i >= s.failAfter {
			st.writeJSON(r.Context(), map[string]string{"type": "error", "detail": "injected failure"})
			return
		}
		row := append(append([]string{}, rec...), substitute(req.Prompt, req.Columns, rec))
		if !st.writeJSON(r.Context(), map[string]any{"type": "row", "data": row}) {
			s.logger.Warn("table client went away", "after_rows", i)
			return
		}
		s.pause(r.Context())
	}
	st.writeJSON(r.Context(), map[string]string{"type": "done"})
}

// substitute renders {{column}} placeholders in the prompt template against
// one record. Unknown placeholders are left as-is.
func substitute(prompt string, columns []string, record []string) string {
	out := prompt
	for i, col := range columns {
		if i >= len(record) {
			break
		}
		out = strings.ReplaceAll(out, "{{"+col+"}}", record[i])
	}
	return out
}

func (s *Server) pause(ctx context.Context) {
	if s.delay <= 0 {
		return
	}
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
	}
}

// streamWriter emits one line per event and flushes after each write so
// clients observe incremental chunks.
type streamWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func newStreamWriter(w http.ResponseWriter, contentType string) (*streamWriter, bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return nil, false
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	return &streamWriter{w: w, flusher: flusher}, true
}

func (st *streamWriter) writeLine(ctx context.Context, line string) bool {
	select {
	case <-ctx.Done():
		return false
	default:
	}
	if _, err := fmt.Fprintf(st.w, "%s\n", line); err != nil {
		return false
	}
	st.flusher.Flush()
	return true
}

func (st *streamWriter) writeJSON(ctx context.Context, v any) bool {
	payload, err := json.Marshal(v)
	if err != nil {
		return false
	}
	return st.writeLine(ctx, string(payload))
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
