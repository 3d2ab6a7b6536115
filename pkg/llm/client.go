package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// SceneResponse is the gateway's reply for one scene call. For JSON-output
// scenes Parsed holds the decoded object and Raw the original text; for raw
// scenes only Raw is set.
type SceneResponse struct {
	Raw    string
	Parsed map[string]any
}

// String returns the parsed field as a string, or "" when absent.
func (r *SceneResponse) String(key string) string {
	if r == nil || r.Parsed == nil {
		return ""
	}
	s, _ := r.Parsed[key].(string)
	return s
}

// ClientConfig configures the gateway. Any OpenAI-compatible endpoint
// works — Volcengine Ark and self-hosted gateways expose the same surface,
// so the base URL and model name are the only provider-specific knobs.
type ClientConfig struct {
	APIKey       string
	BaseURL      string // empty = api.openai.com
	DefaultModel string
	// CallTimeout bounds a single completion round trip. The node
	// executor's retry budget sits above this.
	CallTimeout time.Duration
}

const defaultCallTimeout = 60 * time.Second

// Client is the scene-based LLM gateway. Safe for concurrent use; one
// instance is shared across all conversation turns.
type Client struct {
	api     *openai.Client
	scenes  *SceneRegistry
	model   string
	timeout time.Duration
}

// NewClient creates a gateway over an OpenAI-compatible chat API.
func NewClient(cfg ClientConfig, scenes *SceneRegistry) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm: API key is required")
	}
	if cfg.DefaultModel == "" {
		return nil, fmt.Errorf("llm: default model is required")
	}
	if scenes == nil {
		return nil, fmt.Errorf("llm: scene registry is required")
	}
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	timeout := cfg.CallTimeout
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	return &Client{
		api:     openai.NewClientWithConfig(apiCfg),
		scenes:  scenes,
		model:   cfg.DefaultModel,
		timeout: timeout,
	}, nil
}

// CallScene renders the scene's template with vars and calls the model.
func (c *Client) CallScene(ctx context.Context, scene string, vars map[string]string) (*SceneResponse, error) {
	cfg, ok := c.scenes.Get(scene)
	if !ok {
		return nil, NewError(KindValidation, scene, fmt.Errorf("unknown scene"))
	}

	prompt, err := RenderTemplate(scene, cfg.Template, vars)
	if err != nil {
		return nil, err
	}

	model := cfg.Model
	if model == "" {
		model = c.model
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	started := time.Now()
	resp, err := c.api.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: cfg.Temperature,
		TopP:        cfg.TopP,
		MaxTokens:   cfg.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, classifyProviderError(scene, err)
	}
	if len(resp.Choices) == 0 {
		return nil, NewError(KindConformance, scene, fmt.Errorf("completion returned no choices"))
	}

	raw := resp.Choices[0].Message.Content
	slog.Debug("LLM scene call completed",
		"scene", scene,
		"model", model,
		"duration_ms", time.Since(started).Milliseconds(),
		"total_tokens", resp.Usage.TotalTokens)

	out := &SceneResponse{Raw: raw}
	if cfg.JSONOutput {
		parsed, err := ParseJSONObject(scene, raw)
		if err != nil {
			return nil, err
		}
		out.Parsed = parsed
	}
	return out, nil
}

// classifyProviderError maps SDK/transport failures onto the error taxonomy.
// Status codes, not message strings — the engine never introspects
// provider-specific text.
func classifyProviderError(scene string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewError(KindTimeout, scene, err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusUnauthorized || apiErr.HTTPStatusCode == http.StatusForbidden:
			return NewError(KindAuthentication, scene, err)
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return NewError(KindRateLimited, scene, err)
		case apiErr.HTTPStatusCode >= 500:
			return NewError(KindTransport, scene, err)
		case apiErr.HTTPStatusCode >= 400:
			return NewError(KindValidation, scene, err)
		}
	}

	// Connection resets, DNS failures, etc.
	return NewError(KindTransport, scene, err)
}
