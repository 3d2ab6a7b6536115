package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

const configFile = "hireflow.yaml"

// Initialize loads, validates, and returns ready-to-use configuration.
// This is the primary entry point for configuration loading.
//
// Steps performed:
//  1. Load hireflow.yaml from configDir
//  2. Expand environment variables
//  3. Merge user YAML on top of built-in defaults
//  4. Validate the resolved configuration
func Initialize(ctx context.Context, configDir string) (*Config, error) {
	log := slog.With("config_dir", configDir)
	log.Info("Initializing configuration")

	cfg, err := load(ctx, configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	log.Info("Configuration initialized successfully",
		"server_port", cfg.Server.Port,
		"llm_base_url", cfg.LLM.BaseURL,
		"scene_overrides", len(cfg.LLM.Scenes))

	return cfg, nil
}

// load is the internal loader (not exported)
func load(_ context.Context, configDir string) (*Config, error) {
	var user Config
	if err := loadYAML(filepath.Join(configDir, configFile), &user); err != nil {
		return nil, NewLoadError(configFile, err)
	}

	// Start with defaults, then merge user config on top to preserve unset
	// defaults (non-zero values override).
	cfg := DefaultConfig()
	if err := mergo.Merge(cfg, &user, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("failed to merge configuration: %w", err)
	}

	return cfg, nil
}

func loadYAML(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return err
	}

	// Expand environment variables using {{.VAR}} template syntax
	data = ExpandEnv(data)

	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	return nil
}

// validate performs validation on the resolved configuration.
func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return NewValidationError("server", "port", ErrInvalidValue)
	}
	if cfg.LLM.APIKeyEnv == "" {
		return NewValidationError("llm", "api_key_env", ErrMissingRequiredField)
	}
	if cfg.LLM.DefaultModel == "" {
		return NewValidationError("llm", "default_model", ErrMissingRequiredField)
	}
	if cfg.LLM.CallTimeout <= 0 {
		return NewValidationError("llm", "call_timeout", ErrInvalidValue)
	}
	if cfg.Knowledge.BaseURL == "" {
		return NewValidationError("knowledge", "base_url", ErrMissingRequiredField)
	}
	if cfg.Knowledge.TopK <= 0 {
		return NewValidationError("knowledge", "top_k", ErrInvalidValue)
	}
	if cfg.Engine.ParallelTimeout <= 0 {
		return NewValidationError("engine", "parallel_timeout", ErrInvalidValue)
	}
	if cfg.Engine.GroupTimeout <= 0 {
		return NewValidationError("engine", "group_timeout", ErrInvalidValue)
	}
	return nil
}
