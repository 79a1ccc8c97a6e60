package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiRequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), Endpoint{Model: "m"}, time.Second)
	require.Error(t, err)
}

func TestGeminiComplete(t *testing.T) {
	var body map[string]any
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[` +
			`{"text":"weighing clue 1","thought":true},` +
			`{"text":"Answer: 2 4 1"}]}}]}`))
	}))
	defer srv.Close()

	c, err := NewGeminiClient(context.Background(), Endpoint{
		BaseURL: srv.URL,
		APIKey:  "key",
		Model:   "gemini-test",
	}, 5*time.Second)
	require.NoError(t, err)

	out, err := c.Complete(context.Background(), []Message{
		{Role: "system", Content: "you are the guesser"},
		{Role: "user", Content: "clues: tide engine nest"},
	}, CompleteOptions{Temperature: 0.3})
	require.NoError(t, err)
	assert.Equal(t, "Answer: 2 4 1", out.Content)
	assert.Equal(t, "weighing clue 1", out.Reasoning)
	assert.True(t, strings.Contains(path, "gemini-test"), "path %q", path)
	assert.Contains(t, body, "systemInstruction")
}

func TestGeminiEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c, err := NewGeminiClient(context.Background(), Endpoint{BaseURL: srv.URL, APIKey: "key", Model: "m"}, time.Second)
	require.NoError(t, err)
	_, err = c.Complete(context.Background(), []Message{{Role: "user", Content: "x"}}, CompleteOptions{})
	require.Error(t, err)
}
