package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSONObject(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]any
	}{
		{
			name: "plain object",
			raw:  `{"transfer": "NO"}`,
			want: map[string]any{"transfer": "NO"},
		},
		{
			name: "json code fence",
			raw:  "```json\n{\"分数\": 2, \"原因\": \"不耐烦\"}\n```",
			want: map[string]any{"分数": float64(2), "原因": "不耐烦"},
		},
		{
			name: "bare code fence",
			raw:  "```\n{\"willing\": \"YES\"}\n```",
			want: map[string]any{"willing": "YES"},
		},
		{
			name: "surrounding whitespace",
			raw:  "  \n{\"relevance\": \"B\"}\n  ",
			want: map[string]any{"relevance": "B"},
		},
		{
			name: "repairable near-JSON with trailing comma",
			raw:  `{"answer": "周末双休",}`,
			want: map[string]any{"answer": "周末双休"},
		},
		{
			name: "repairable single quotes",
			raw:  `{'is_question': 'YES'}`,
			want: map[string]any{"is_question": "YES"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseJSONObject("test_scene", tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseJSONObjectConformanceError(t *testing.T) {
	_, err := ParseJSONObject("test_scene", "抱歉,我无法回答这个问题")
	require.Error(t, err)
	assert.Equal(t, KindConformance, KindOf(err))
	assert.True(t, IsRetryable(err))
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence(`{"a":1}`))
}
