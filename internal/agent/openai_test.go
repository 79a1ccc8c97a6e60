package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenAI(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenAIClient(Endpoint{
		BaseURL:       srv.URL,
		APIKey:        "sk-test",
		Model:         "chat",
		ThinkingModel: "reasoner",
	}, 5*time.Second)
}

func TestOpenAICompleteSendsRequest(t *testing.T) {
	var got chatRequest
	var raw map[string]any
	c := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		var body json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.NoError(t, json.Unmarshal(body, &got))
		require.NoError(t, json.Unmarshal(body, &raw))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"<think>hmm</think>\n1. tide\n2. engine\n3. nest"}}]}`))
	})

	out, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}}, CompleteOptions{Temperature: 0.7})
	require.NoError(t, err)
	assert.Equal(t, "1. tide\n2. engine\n3. nest", out.Content)
	assert.Equal(t, "chat", got.Model)
	require.NotNil(t, got.Temperature)
	assert.InDelta(t, 0.7, *got.Temperature, 1e-9)
	assert.Contains(t, raw, "temperature")
}

func TestOpenAIThinkingModelOmitsTemperature(t *testing.T) {
	var raw map[string]any
	c := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Answer: 1 2 3","reasoning_content":"because"}}]}`))
	})

	out, err := c.Complete(context.Background(), nil, CompleteOptions{Temperature: 0.3, Thinking: true})
	require.NoError(t, err)
	assert.Equal(t, "reasoner", raw["model"])
	assert.NotContains(t, raw, "temperature")
	assert.Equal(t, "because", out.Reasoning)
}

func TestOpenAIFallsBackToReasoningTail(t *testing.T) {
	c := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"","reasoning_content":"long thought\n\nAnswer: 4 1 2"}}]}`))
	})
	out, err := c.Complete(context.Background(), nil, CompleteOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Answer: 4 1 2", out.Content)
}

func TestOpenAIErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"http status", http.StatusUnauthorized, `{"error":{"message":"bad key"}}`, "API error 401"},
		{"api error body", http.StatusOK, `{"error":{"message":"quota"}}`, "quota"},
		{"no choices", http.StatusOK, `{"choices":[]}`, "no choices"},
		{"empty content", http.StatusOK, `{"choices":[{"message":{"content":"  "}}]}`, "empty content"},
		{"bad json", http.StatusOK, `not json`, "decode response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := c.Complete(context.Background(), nil, CompleteOptions{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOpenAIRequiresKey(t *testing.T) {
	c := NewOpenAIClient(Endpoint{BaseURL: "http://127.0.0.1:1", Model: "m"}, time.Second)
	_, err := c.Complete(context.Background(), nil, CompleteOptions{})
	require.Error(t, err)
}

func TestOpenAIHonoursContext(t *testing.T) {
	release := make(chan struct{})
	c := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.Complete(ctx, nil, CompleteOptions{})
	require.Error(t, err)
}
