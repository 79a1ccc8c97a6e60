package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// GeminiClient calls Google Gemini through the genai SDK.
type GeminiClient struct {
	client        *genai.Client
	model         string
	thinkingModel string
	timeout       time.Duration
}

// NewGeminiClient builds a client for ep. A non-empty ep.BaseURL overrides
// the SDK's endpoint (proxies, tests).
func NewGeminiClient(ctx context.Context, ep Endpoint, timeout time.Duration) (*GeminiClient, error) {
	if ep.APIKey == "" {
		return nil, errors.New("gemini: API key not configured")
	}
	cfg := &genai.ClientConfig{
		APIKey:  ep.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if ep.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: ep.BaseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &GeminiClient{
		client:        client,
		model:         ep.Model,
		thinkingModel: ep.ThinkingModel,
		timeout:       timeout,
	}, nil
}

// Complete maps msgs onto a GenerateContent call. System messages become the
// system instruction; thought parts become Completion.Reasoning.
func (c *GeminiClient) Complete(ctx context.Context, msgs []Message, opts CompleteOptions) (Completion, error) {
	if _, ok := ctx.Deadline(); !ok && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	model := c.model
	cfg := &genai.GenerateContentConfig{}
	if opts.Thinking {
		if c.thinkingModel != "" {
			model = c.thinkingModel
		}
		cfg.ThinkingConfig = &genai.ThinkingConfig{IncludeThoughts: true}
	} else {
		cfg.Temperature = genai.Ptr(float32(opts.Temperature))
	}

	var system []string
	var contents []*genai.Content
	for _, m := range msgs {
		switch m.Role {
		case "system":
			system = append(system, m.Content)
		case "assistant":
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	if len(system) > 0 {
		cfg.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return Completion{}, fmt.Errorf("gemini: generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return Completion{}, errors.New("gemini: response has no candidates")
	}

	var text, thoughts strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil {
			continue
		}
		if part.Thought {
			thoughts.WriteString(part.Text)
			continue
		}
		text.WriteString(part.Text)
	}
	out := Completion{Content: stripThinking(text.String()), Reasoning: thoughts.String()}
	if out.Content == "" {
		return Completion{}, errors.New("gemini: model returned empty content")
	}

	log.Debug().
		Str("model", model).
		Dur("took", time.Since(start)).
		Int("len", len(out.Content)).
		Msg("model reply")
	return out, nil
}
