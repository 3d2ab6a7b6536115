package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFile), []byte(content), 0o600))
	return dir
}

func TestInitializeMergesUserOverDefaults(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: 9090
llm:
  default_model: gpt-4o
  scenes:
    candidate_emotion:
      temperature: 0.2
`)

	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "gpt-4o", cfg.LLM.DefaultModel)
	assert.Contains(t, cfg.LLM.Scenes, "candidate_emotion")

	// Unset fields keep their defaults.
	defaults := DefaultConfig()
	assert.Equal(t, defaults.LLM.APIKeyEnv, cfg.LLM.APIKeyEnv)
	assert.Equal(t, defaults.Knowledge.BaseURL, cfg.Knowledge.BaseURL)
	assert.Equal(t, defaults.Engine.ParallelTimeout, cfg.Engine.ParallelTimeout)
}

func TestInitializeMissingFile(t *testing.T) {
	_, err := Initialize(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestInitializeInvalidYAML(t *testing.T) {
	dir := writeConfig(t, "server: [not a mapping")

	_, err := Initialize(context.Background(), dir)
	assert.ErrorIs(t, err, ErrInvalidYAML)
}

func TestInitializeValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"port out of range", "server:\n  port: 70000\n"},
		{"negative call timeout", "llm:\n  call_timeout: -1s\n"},
		{"negative top_k", "knowledge:\n  top_k: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeConfig(t, tt.content)
			_, err := Initialize(context.Background(), dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "validation")
		})
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, validate(DefaultConfig()))
}

func TestInitializeExpandsEnvironment(t *testing.T) {
	t.Setenv("KB_URL", "http://kb.internal:8500")
	dir := writeConfig(t, `
knowledge:
  base_url: "{{.KB_URL}}"
`)

	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "http://kb.internal:8500", cfg.Knowledge.BaseURL)
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("EXPAND_TEST_VALUE", "secret-value")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple variable", "key: {{.EXPAND_TEST_VALUE}}", "key: secret-value"},
		{"no templates pass through", "key: plain", "key: plain"},
		{"missing variable expands empty", "key: '{{.EXPAND_TEST_UNSET}}'", "key: ''"},
		{"dollar signs untouched", "password: pa$$word", "password: pa$$word"},
		{"malformed template returned as-is", "key: {{.broken", "key: {{.broken"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(ExpandEnv([]byte(tt.input))))
		})
	}
}

func TestMaskingEnabledDefaultsTrue(t *testing.T) {
	assert.True(t, MaskingConfig{}.MaskingEnabled())

	off := false
	assert.False(t, MaskingConfig{Enabled: &off}.MaskingEnabled())

	on := true
	assert.True(t, MaskingConfig{Enabled: &on}.MaskingEnabled())
}

func TestCallTimeoutParsesDuration(t *testing.T) {
	dir := writeConfig(t, "llm:\n  call_timeout: 45s\n")

	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.LLM.CallTimeout)
}
