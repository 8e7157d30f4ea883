package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legal-literacy-portal/pkg/logger"
)

// pngHeader is enough for content sniffing to report image/png
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type capturedRequest struct {
	Model    string            `json:"model"`
	Messages []json.RawMessage `json:"messages"`
}

func newTestServer(t *testing.T, reply string, captured *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if captured != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": reply},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(srv *httptest.Server) *LLMClient {
	return NewLLMClient(LLMConfig{
		APIKey:      "test-key",
		BaseURL:     srv.URL + "/v1",
		Model:       "gpt-4o-mini",
		VisionModel: "gpt-4o",
	}, logger.NewNop())
}

func TestLLMClient_Summarize(t *testing.T) {
	var req capturedRequest
	srv := newTestServer(t, "  The tenant pays R5000 a month.  ", &req)

	got, err := newTestClient(srv).Summarize(context.Background(), "Lease agreement text")
	require.NoError(t, err)
	assert.Equal(t, "The tenant pays R5000 a month.", got)
	assert.Equal(t, "gpt-4o-mini", req.Model)
	assert.Len(t, req.Messages, 2)
}

func TestLLMClient_EmptyReply(t *testing.T) {
	srv := newTestServer(t, "   ", nil)

	_, err := newTestClient(srv).Summarize(context.Background(), "text")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestLLMClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"boom","type":"server_error"}}`, http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	_, err := newTestClient(srv).Summarize(context.Background(), "text")
	assert.Error(t, err)
}

func TestLLMClient_ExtractImageText(t *testing.T) {
	var req capturedRequest
	srv := newTestServer(t, "LEASE AGREEMENT", &req)

	got, err := newTestClient(srv).ExtractImageText(context.Background(), pngHeader)
	require.NoError(t, err)
	assert.Equal(t, "LEASE AGREEMENT", got)
	assert.Equal(t, "gpt-4o", req.Model)
	require.Len(t, req.Messages, 2)
	assert.Contains(t, string(req.Messages[1]), "data:image/png;base64,")
}

func TestLLMClient_ExtractImageText_RejectsNonImage(t *testing.T) {
	srv := newTestServer(t, "unused", nil)

	_, err := newTestClient(srv).ExtractImageText(context.Background(), []byte("plain text, not an image"))
	assert.Error(t, err)
}
