package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTemplate(t *testing.T) {
	tests := []struct {
		name     string
		template string
		vars     map[string]string
		want     string
	}{
		{
			name:     "single variable",
			template: "候选人说: {{lastCandidateMessage}}",
			vars:     map[string]string{"lastCandidateMessage": "你好"},
			want:     "候选人说: 你好",
		},
		{
			name:     "repeated variable",
			template: "{{jobTitle}} / {{jobTitle}}",
			vars:     map[string]string{"jobTitle": "Go工程师"},
			want:     "Go工程师 / Go工程师",
		},
		{
			name:     "multiple variables",
			template: "岗位: {{jobTitle}}\n消息: {{lastCandidateMessage}}",
			vars: map[string]string{
				"jobTitle":             "测试工程师",
				"lastCandidateMessage": "薪资多少",
			},
			want: "岗位: 测试工程师\n消息: 薪资多少",
		},
		{
			name:     "no placeholders",
			template: "static text",
			vars:     map[string]string{"unused": "x"},
			want:     "static text",
		},
		{
			name:     "empty value is allowed",
			template: "kb: {{knowledgeBase}}",
			vars:     map[string]string{"knowledgeBase": ""},
			want:     "kb: ",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderTemplate("test_scene", tt.template, tt.vars)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderTemplateMissingVariable(t *testing.T) {
	_, err := RenderTemplate("test_scene", "q: {{currentQuestion}} r: {{currentQuestionRequirement}}", map[string]string{})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Contains(t, err.Error(), "currentQuestion")
}

func TestBuiltinTemplatesRenderWithStandardVars(t *testing.T) {
	vars := map[string]string{
		"lastCandidateMessage":       "你好",
		"chatHistory":                "HR: 你好",
		"jobInfo":                    "岗位: 工程师",
		"jobTitle":                   "工程师",
		"jobDescription":             "写代码",
		"jobRequirement":             "3年经验",
		"knowledgeBase":              "",
		"lastHRMessage":              "请介绍一下自己",
		"currentQuestion":            "会Python吗",
		"currentQuestionRequirement": "3年以上Python",
	}
	for name, cfg := range builtinScenes {
		t.Run(name, func(t *testing.T) {
			out, err := RenderTemplate(name, cfg.Template, vars)
			require.NoError(t, err)
			assert.NotContains(t, out, "{{")
		})
	}
}
