// internal/agent/providers.go
//
// Catalogue of model providers.
//
// Every built-in provider except "gemini" speaks the OpenAI-compatible
// /chat/completions protocol. Entries can be added or overridden from a TOML
// file:
//
//   [[providers]]
//   id = "local"
//   name = "Local llama.cpp"
//   base_url = "http://127.0.0.1:8080/v1"
//   model = "qwen2.5-7b-instruct"

package agent

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Provider kinds.
const (
	KindOpenAI = "openai"
	KindGemini = "gemini"
)

// CustomProviderID is the catch-all entry whose base URL and model come
// from configuration.
const CustomProviderID = "custom"

// Provider describes one model endpoint.
type Provider struct {
	ID            string `toml:"id" json:"id"`
	Name          string `toml:"name" json:"name"`
	Kind          string `toml:"kind" json:"kind"`
	BaseURL       string `toml:"base_url" json:"baseUrl"`
	Model         string `toml:"model" json:"model"`
	ThinkingModel string `toml:"thinking_model" json:"thinkingModel,omitempty"`
}

var builtinProviders = []Provider{
	{ID: "deepseek", Name: "DeepSeek", Kind: KindOpenAI, BaseURL: "https://api.deepseek.com", Model: "deepseek-chat", ThinkingModel: "deepseek-reasoner"},
	{ID: "openai", Name: "OpenAI", Kind: KindOpenAI, BaseURL: "https://api.openai.com/v1", Model: "gpt-4o", ThinkingModel: "o3-mini"},
	{ID: "anthropic-compatible", Name: "Claude (compatible endpoint)", Kind: KindOpenAI, BaseURL: "https://api.anthropic.com/v1", Model: "claude-sonnet-4-20250514"},
	{ID: "gemini", Name: "Google Gemini", Kind: KindGemini, Model: "gemini-2.5-flash", ThinkingModel: "gemini-2.5-pro"},
	{ID: "zhipu", Name: "Zhipu GLM", Kind: KindOpenAI, BaseURL: "https://open.bigmodel.cn/api/paas/v4", Model: "glm-4-flash"},
	{ID: "qwen", Name: "Qwen", Kind: KindOpenAI, BaseURL: "https://dashscope.aliyuncs.com/compatible-mode/v1", Model: "qwen-plus", ThinkingModel: "qwq-32b"},
	{ID: "moonshot", Name: "Moonshot (Kimi)", Kind: KindOpenAI, BaseURL: "https://api.moonshot.cn/v1", Model: "moonshot-v1-8k"},
	{ID: "doubao", Name: "Doubao", Kind: KindOpenAI, BaseURL: "https://ark.cn-beijing.volces.com/api/v3", Model: "doubao-1.5-pro-32k-250115", ThinkingModel: "doubao-1.5-thinking-pro-250415"},
	{ID: CustomProviderID, Name: "Custom (OpenAI compatible)", Kind: KindOpenAI},
}

// Catalogue is an ordered, id-unique list of providers.
type Catalogue struct {
	providers []Provider
}

// catalogueFile is the on-disk TOML shape.
type catalogueFile struct {
	Providers []Provider `toml:"providers"`
}

// DefaultCatalogue returns the built-in providers.
func DefaultCatalogue() *Catalogue {
	return &Catalogue{providers: append([]Provider{}, builtinProviders...)}
}

// LoadCatalogue returns the built-in providers merged with the entries of
// the TOML file at path (entries with a known id replace it). An empty path
// yields the defaults.
func LoadCatalogue(path string) (*Catalogue, error) {
	c := DefaultCatalogue()
	if path == "" {
		return c, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read providers file: %w", err)
	}
	var f catalogueFile
	if err := toml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse providers file %s: %w", path, err)
	}
	for _, p := range f.Providers {
		if strings.TrimSpace(p.ID) == "" {
			return nil, fmt.Errorf("providers file %s: entry without id", path)
		}
		if p.Kind == "" {
			p.Kind = KindOpenAI
		}
		c.put(p)
	}
	return c, nil
}

func (c *Catalogue) put(p Provider) {
	for i := range c.providers {
		if c.providers[i].ID == p.ID {
			c.providers[i] = p
			return
		}
	}
	c.providers = append(c.providers, p)
}

// All returns the providers in catalogue order.
func (c *Catalogue) All() []Provider {
	return append([]Provider{}, c.providers...)
}

// Lookup finds a provider by id; unknown ids fall back to the first entry.
func (c *Catalogue) Lookup(id string) (Provider, bool) {
	for _, p := range c.providers {
		if p.ID == id {
			return p, true
		}
	}
	return c.providers[0], false
}

// Endpoint is a fully resolved model target.
type Endpoint struct {
	Provider      Provider
	BaseURL       string
	Model         string
	ThinkingModel string
	APIKey        string
}

// Resolve applies configured overrides to p. baseURL and model override the
// catalogue values when non-empty; the custom provider requires both.
func Resolve(p Provider, apiKey, baseURL, model string) (Endpoint, error) {
	ep := Endpoint{
		Provider:      p,
		BaseURL:       strings.TrimRight(p.BaseURL, "/"),
		Model:         p.Model,
		ThinkingModel: p.ThinkingModel,
		APIKey:        apiKey,
	}
	if baseURL != "" {
		ep.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if model != "" {
		ep.Model = model
	}
	if p.Kind != KindGemini && ep.BaseURL == "" {
		return Endpoint{}, fmt.Errorf("provider %q: base URL is required", p.ID)
	}
	if ep.Model == "" {
		return Endpoint{}, fmt.Errorf("provider %q: model is required", p.ID)
	}
	return ep, nil
}
