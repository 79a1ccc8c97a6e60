package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// OpenAIClient talks to any OpenAI-compatible /chat/completions endpoint.
type OpenAIClient struct {
	baseURL       string
	apiKey        string
	model         string
	thinkingModel string
	httpClient    *http.Client
}

// NewOpenAIClient builds a client for ep. timeout bounds each request when
// the caller's context has no deadline of its own.
func NewOpenAIClient(ep Endpoint, timeout time.Duration) *OpenAIClient {
	return &OpenAIClient{
		baseURL:       ep.BaseURL,
		apiKey:        ep.APIKey,
		model:         ep.Model,
		thinkingModel: ep.ThinkingModel,
		httpClient:    &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message *struct {
			Content          string `json:"content"`
			ReasoningContent string `json:"reasoning_content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

var thinkTags = regexp.MustCompile(`(?s)<think>.*?</think>`)

func stripThinking(s string) string {
	return strings.TrimSpace(thinkTags.ReplaceAllString(s, ""))
}

// Complete sends msgs and returns the reply. Reasoning models are called
// without a temperature, which they reject.
func (c *OpenAIClient) Complete(ctx context.Context, msgs []Message, opts CompleteOptions) (Completion, error) {
	if c.apiKey == "" {
		return Completion{}, errors.New("openai: API key not configured")
	}

	model, thinking := c.model, false
	if opts.Thinking && c.thinkingModel != "" {
		model, thinking = c.thinkingModel, true
	}
	body := chatRequest{Model: model, Messages: msgs}
	if !thinking {
		t := opts.Temperature
		body.Temperature = &t
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return Completion{}, fmt.Errorf("openai: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return Completion{}, fmt.Errorf("openai: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	log.Debug().Str("model", model).Bool("thinking", thinking).Msg("model call")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Completion{}, fmt.Errorf("openai: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Completion{}, fmt.Errorf("openai: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Completion{}, fmt.Errorf("openai: API error %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var cr chatResponse
	if err := json.Unmarshal(raw, &cr); err != nil {
		return Completion{}, fmt.Errorf("openai: decode response: %w", err)
	}
	if cr.Error != nil {
		return Completion{}, fmt.Errorf("openai: API error: %s", cr.Error.Message)
	}
	if len(cr.Choices) == 0 || cr.Choices[0].Message == nil {
		return Completion{}, errors.New("openai: response has no choices")
	}

	msg := cr.Choices[0].Message
	out := Completion{Content: stripThinking(msg.Content), Reasoning: msg.ReasoningContent}

	// Some reasoning models leave content empty and put the answer at the
	// end of the reasoning channel.
	if out.Content == "" && out.Reasoning != "" {
		paras := strings.Split(stripThinking(out.Reasoning), "\n\n")
		out.Content = strings.TrimSpace(paras[len(paras)-1])
		log.Warn().Str("model", model).Msg("empty content, using tail of reasoning")
	}
	if out.Content == "" {
		return Completion{}, errors.New("openai: model returned empty content")
	}

	log.Debug().
		Str("model", model).
		Dur("took", time.Since(start)).
		Int("len", len(out.Content)).
		Msg("model reply")
	return out, nil
}
