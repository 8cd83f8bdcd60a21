package backend_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/strandkit/strand"
	"github.com/strandkit/strand/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_StreamChat_SendsRequest(t *testing.T) {
	t.Parallel()
	var gotHeader http.Header
	var gotBody map[string]any
	srv := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		lineHandler("text/event-stream", `{"type":"done"}`).ServeHTTP(w, r)
	}))

	client := backend.New(srv.URL, backend.WithAPIKey("sk-test"))
	stream, err := client.StreamChat(context.Background(), strand.ChatRequest{
		SystemPrompt: "be brief",
		Model:        "m-1",
		Messages:     []strand.Message{strand.UserMessage{Text: "hi"}},
	})
	require.NoError(t, err)
	defer stream.Close()

	assert.Equal(t, "application/json", gotHeader.Get("Content-Type"))
	assert.Equal(t, "text/event-stream", gotHeader.Get("Accept"))
	assert.Equal(t, "Bearer sk-test", gotHeader.Get("Authorization"))
	assert.Equal(t, "be brief", gotBody["system_prompt"])
	assert.Equal(t, "m-1", gotBody["model"])
}

func TestClient_StreamTable_SendsPreviewFlag(t *testing.T) {
	t.Parallel()
	var gotAccept string
	var gotBody map[string]any
	srv := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		lineHandler("application/x-ndjson", `{"type":"done"}`).ServeHTTP(w, r)
	}))

	client := backend.New(srv.URL)
	stream, err := client.StreamTable(context.Background(), strand.TableRequest{
		Prompt:  "greet {{name}}",
		Columns: []string{"name"},
		Records: [][]string{{"Ada"}},
		Preview: true,
	})
	require.NoError(t, err)
	defer stream.Close()

	assert.Equal(t, true, gotBody["preview"])
	assert.Equal(t, "application/x-ndjson", gotAccept)
}

func TestClient_NonSuccessStatus(t *testing.T) {
	t.Parallel()
	t.Run("structured detail", func(t *testing.T) {
		t.Parallel()
		srv := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"detail":"rate limited"}`))
		}))

		client := backend.New(srv.URL)
		_, err := client.StreamChat(context.Background(), strand.ChatRequest{
			Messages: []strand.Message{strand.UserMessage{Text: "hi"}},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP 429")
		assert.Contains(t, err.Error(), "rate limited")
	})

	t.Run("opaque body", func(t *testing.T) {
		t.Parallel()
		srv := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("upstream blew up"))
		}))

		client := backend.New(srv.URL)
		_, err := client.StreamChat(context.Background(), strand.ChatRequest{
			Messages: []strand.Message{strand.UserMessage{Text: "hi"}},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP 502")
		assert.Contains(t, err.Error(), "upstream blew up")
	})
}

func TestClient_ValidatesBeforeSending(t *testing.T) {
	t.Parallel()
	client := backend.New("http://unused.invalid")

	_, err := client.StreamChat(context.Background(), strand.ChatRequest{})
	assert.ErrorIs(t, err, strand.ErrValidation)

	_, err = client.StreamTable(context.Background(), strand.TableRequest{})
	assert.ErrorIs(t, err, strand.ErrValidation)
}

func TestClient_ConnectionFailure(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // refuse connections

	client := backend.New(srv.URL)
	_, err := client.StreamChat(context.Background(), strand.ChatRequest{
		Messages: []strand.Message{strand.UserMessage{Text: "hi"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection failed")
}
