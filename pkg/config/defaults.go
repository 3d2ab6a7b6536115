package config

import "time"

// DefaultConfig returns the built-in defaults. User YAML merges on top;
// unset values keep these.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		LLM: LLMConfig{
			APIKeyEnv:    "OPENAI_API_KEY",
			DefaultModel: "gpt-4o-mini",
			CallTimeout:  60 * time.Second,
		},
		Knowledge: KnowledgeConfig{
			BaseURL: "http://localhost:8500",
			TopK:    3,
		},
		Engine: EngineConfig{
			ParallelTimeout: 90 * time.Second,
			GroupTimeout:    90 * time.Second,
		},
	}
}
