package llm

import "fmt"

// Scene names. These are a stable contract: the orchestrator's action
// selection and the group routing key on them.
const (
	SceneTransferHumanIntent      = "transfer_human_intent"
	SceneCandidateEmotion         = "candidate_emotion"
	SceneContinueConversation     = "continue_conversation_with_candidate"
	SceneCandidateAskQuestion     = "candidate_ask_question"
	SceneAnswerBasedOnKnowledge   = "answer_based_on_knowledge"
	SceneAnswerWithoutKnowledge   = "answer_without_knowledge"
	SceneCasualConversation       = "casual_conversation"
	SceneHighEQResponse           = "high_eq_response"
	SceneResumeConversation       = "resume_conversation"
	SceneRelevanceReply           = "relevance_reply_and_question"
	SceneReplyMatchRequirement    = "reply_match_question_requirement"
	SceneCommunicationWillingness = "candidate_communication_willingness_for_question"
)

// NotFoundAnswer is the literal the knowledge scene emits when the
// knowledge base cannot answer the candidate's question.
const NotFoundAnswer = "not_found"

// SceneConfig declares everything one scene needs: the prompt template,
// the model parameters, and whether the output is parsed as JSON.
type SceneConfig struct {
	Name        string  `yaml:"name"`
	Template    string  `yaml:"template"`
	Model       string  `yaml:"model,omitempty"` // empty = provider default
	Temperature float32 `yaml:"temperature"`
	TopP        float32 `yaml:"top_p"`
	MaxTokens   int     `yaml:"max_tokens"`
	JSONOutput  bool    `yaml:"json_output"`
}

// builtinScenes is the code-level scene registry. YAML configuration may
// override model parameters per scene but cannot remove a scene.
var builtinScenes = map[string]SceneConfig{
	SceneTransferHumanIntent: {
		Name: SceneTransferHumanIntent, Template: transferHumanIntentPrompt,
		Temperature: 0.0, TopP: 1.0, MaxTokens: 64, JSONOutput: true,
	},
	SceneCandidateEmotion: {
		Name: SceneCandidateEmotion, Template: candidateEmotionPrompt,
		Temperature: 0.0, TopP: 1.0, MaxTokens: 128, JSONOutput: true,
	},
	SceneContinueConversation: {
		Name: SceneContinueConversation, Template: continueConversationPrompt,
		Temperature: 0.0, TopP: 1.0, MaxTokens: 64, JSONOutput: true,
	},
	SceneCandidateAskQuestion: {
		Name: SceneCandidateAskQuestion, Template: candidateAskQuestionPrompt,
		Temperature: 0.0, TopP: 1.0, MaxTokens: 64, JSONOutput: true,
	},
	SceneAnswerBasedOnKnowledge: {
		Name: SceneAnswerBasedOnKnowledge, Template: answerBasedOnKnowledgePrompt,
		Temperature: 0.3, TopP: 0.9, MaxTokens: 512, JSONOutput: false,
	},
	SceneAnswerWithoutKnowledge: {
		Name: SceneAnswerWithoutKnowledge, Template: answerWithoutKnowledgePrompt,
		Temperature: 0.5, TopP: 0.9, MaxTokens: 512, JSONOutput: true,
	},
	SceneCasualConversation: {
		Name: SceneCasualConversation, Template: casualConversationPrompt,
		Temperature: 0.7, TopP: 0.9, MaxTokens: 256, JSONOutput: true,
	},
	SceneHighEQResponse: {
		Name: SceneHighEQResponse, Template: highEQResponsePrompt,
		Temperature: 0.7, TopP: 0.9, MaxTokens: 256, JSONOutput: true,
	},
	SceneResumeConversation: {
		Name: SceneResumeConversation, Template: resumeConversationPrompt,
		Temperature: 0.7, TopP: 0.9, MaxTokens: 128, JSONOutput: false,
	},
	SceneRelevanceReply: {
		Name: SceneRelevanceReply, Template: relevanceReplyPrompt,
		Temperature: 0.0, TopP: 1.0, MaxTokens: 64, JSONOutput: true,
	},
	SceneReplyMatchRequirement: {
		Name: SceneReplyMatchRequirement, Template: replyMatchRequirementPrompt,
		Temperature: 0.0, TopP: 1.0, MaxTokens: 64, JSONOutput: true,
	},
	SceneCommunicationWillingness: {
		Name: SceneCommunicationWillingness, Template: communicationWillingnessPrompt,
		Temperature: 0.0, TopP: 1.0, MaxTokens: 64, JSONOutput: true,
	},
}

// SceneRegistry resolves scene names to their configuration.
type SceneRegistry struct {
	scenes map[string]SceneConfig
}

// NewSceneRegistry builds a registry from the built-in scenes with optional
// per-scene overrides (model, temperature, top-p, max tokens). Overrides for
// unknown scenes are rejected — a typo in config should fail startup, not
// silently register a dead scene.
func NewSceneRegistry(overrides map[string]SceneOverride) (*SceneRegistry, error) {
	scenes := make(map[string]SceneConfig, len(builtinScenes))
	for name, cfg := range builtinScenes {
		scenes[name] = cfg
	}
	for name, ov := range overrides {
		cfg, ok := scenes[name]
		if !ok {
			return nil, fmt.Errorf("scene override for unknown scene %q", name)
		}
		if ov.Model != "" {
			cfg.Model = ov.Model
		}
		if ov.Temperature != nil {
			cfg.Temperature = *ov.Temperature
		}
		if ov.TopP != nil {
			cfg.TopP = *ov.TopP
		}
		if ov.MaxTokens != nil {
			cfg.MaxTokens = *ov.MaxTokens
		}
		scenes[name] = cfg
	}
	return &SceneRegistry{scenes: scenes}, nil
}

// SceneOverride is the YAML-configurable subset of a scene.
type SceneOverride struct {
	Model       string   `yaml:"model,omitempty"`
	Temperature *float32 `yaml:"temperature,omitempty"`
	TopP        *float32 `yaml:"top_p,omitempty"`
	MaxTokens   *int     `yaml:"max_tokens,omitempty"`
}

// Get returns the scene config, or false when the name is unknown.
func (r *SceneRegistry) Get(name string) (SceneConfig, bool) {
	cfg, ok := r.scenes[name]
	return cfg, ok
}

// Names returns all registered scene names.
func (r *SceneRegistry) Names() []string {
	names := make([]string, 0, len(r.scenes))
	for name := range r.scenes {
		names = append(names, name)
	}
	return names
}
