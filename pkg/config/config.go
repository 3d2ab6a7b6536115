// Package config loads and validates the hireflow.yaml configuration file.
package config

import (
	"time"

	"github.com/hireflow/hireflow/pkg/llm"
)

// Config is the fully resolved runtime configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	LLM       LLMConfig       `yaml:"llm"`
	Knowledge KnowledgeConfig `yaml:"knowledge"`
	Engine    EngineConfig    `yaml:"engine"`
	Masking   MaskingConfig   `yaml:"masking"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// LLMConfig holds the gateway settings for the OpenAI-compatible provider.
// The API key is never placed in YAML directly; APIKeyEnv names the
// environment variable that carries it.
type LLMConfig struct {
	APIKeyEnv    string                       `yaml:"api_key_env"`
	BaseURL      string                       `yaml:"base_url"`
	DefaultModel string                       `yaml:"default_model"`
	CallTimeout  time.Duration                `yaml:"call_timeout"`
	Scenes       map[string]llm.SceneOverride `yaml:"scenes"`
}

// KnowledgeConfig holds the knowledge-base search service settings.
type KnowledgeConfig struct {
	BaseURL  string `yaml:"base_url"`
	TokenEnv string `yaml:"token_env"`
	TopK     int    `yaml:"top_k"`
}

// EngineConfig holds flow-engine tunables.
type EngineConfig struct {
	// ParallelTimeout bounds every parallel node fan-out.
	ParallelTimeout time.Duration `yaml:"parallel_timeout"`
	// GroupTimeout bounds the parallel waits inside the group executors.
	GroupTimeout time.Duration `yaml:"group_timeout"`
}

// MaskingConfig toggles PII masking of candidate text in logs.
type MaskingConfig struct {
	Enabled *bool `yaml:"enabled"`
}

// MaskingEnabled resolves the toggle (default true).
func (c MaskingConfig) MaskingEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}
