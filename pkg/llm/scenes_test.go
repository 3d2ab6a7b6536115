package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSceneRegistryDefaults(t *testing.T) {
	reg, err := NewSceneRegistry(nil)
	require.NoError(t, err)

	assert.Len(t, reg.Names(), len(builtinScenes))

	cfg, ok := reg.Get(SceneCandidateEmotion)
	require.True(t, ok)
	assert.True(t, cfg.JSONOutput)
	assert.NotEmpty(t, cfg.Template)

	cfg, ok = reg.Get(SceneAnswerBasedOnKnowledge)
	require.True(t, ok)
	assert.False(t, cfg.JSONOutput, "knowledge answers are raw text")
}

func TestNewSceneRegistryOverrides(t *testing.T) {
	temp := float32(0.9)
	maxTokens := 1024
	reg, err := NewSceneRegistry(map[string]SceneOverride{
		SceneCasualConversation: {Model: "qwen-max", Temperature: &temp, MaxTokens: &maxTokens},
	})
	require.NoError(t, err)

	cfg, ok := reg.Get(SceneCasualConversation)
	require.True(t, ok)
	assert.Equal(t, "qwen-max", cfg.Model)
	assert.Equal(t, temp, cfg.Temperature)
	assert.Equal(t, maxTokens, cfg.MaxTokens)

	// Untouched scenes keep their defaults.
	other, ok := reg.Get(SceneTransferHumanIntent)
	require.True(t, ok)
	assert.Empty(t, other.Model)
}

func TestNewSceneRegistryUnknownScene(t *testing.T) {
	_, err := NewSceneRegistry(map[string]SceneOverride{
		"no_such_scene": {Model: "x"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no_such_scene")
}

func TestSceneResponseString(t *testing.T) {
	resp := &SceneResponse{Parsed: map[string]any{"transfer": "YES", "score": float64(2)}}
	assert.Equal(t, "YES", resp.String("transfer"))
	assert.Empty(t, resp.String("score"), "non-string values read as empty")
	assert.Empty(t, resp.String("missing"))

	var nilResp *SceneResponse
	assert.Empty(t, nilResp.String("transfer"))
}
