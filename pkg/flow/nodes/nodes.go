// Package nodes contains the concrete flow nodes: pre-checks, the
// conversational response path, closings, and the assessment-question
// state machine. Each node wraps one LLM scene (or one DB decision) and
// maps its parsed output onto a NodeResult.
package nodes

import (
	"fmt"

	"github.com/hireflow/hireflow/pkg/flow"
	"github.com/hireflow/hireflow/pkg/llm"
)

// InformationGatheringName is the registered name of the pure-DB node that
// picks the next assessment question. It has no LLM scene.
const InformationGatheringName = "information_gathering_question"

// Data keys the nodes publish for groups and the orchestrator to inspect.
const (
	DataKeyScore            = "score"
	DataKeyReason           = "reason"
	DataKeyWilling          = "willing"
	DataKeyIsQuestion       = "is_question"
	DataKeyFound            = "found"
	DataKeyRelevance        = "relevance"
	DataKeyIsSatisfied      = "is_satisfied"
	DataKeyTrackingID       = "question_tracking_id"
	DataKeyRawOutput        = "raw_output"
	DataKeyInternalError    = "internalError"
	DataKeyIssueClass       = "issue_class"
	DataKeyKnowledgeEntries = "knowledge_entries"
)

// Deps bundles everything node constructors need.
type Deps struct {
	Gateway   flow.LLMGateway
	Knowledge flow.KnowledgeSearcher
	Repos     flow.Repositories
}

// RegisterAll registers every concrete node with the factory.
func RegisterAll(f *flow.NodeFactory, deps Deps) {
	f.Register(llm.SceneTransferHumanIntent, func() flow.Node { return NewTransferHumanIntent(deps.Gateway) })
	f.Register(llm.SceneCandidateEmotion, func() flow.Node { return NewCandidateEmotion(deps.Gateway) })
	f.Register(llm.SceneContinueConversation, func() flow.Node { return NewContinueConversation(deps.Gateway) })
	f.Register(llm.SceneCandidateAskQuestion, func() flow.Node { return NewCandidateAskQuestion(deps.Gateway) })
	f.Register(llm.SceneAnswerBasedOnKnowledge, func() flow.Node { return NewAnswerBasedOnKnowledge(deps.Gateway, deps.Knowledge) })
	f.Register(llm.SceneAnswerWithoutKnowledge, func() flow.Node { return NewAnswerWithoutKnowledge(deps.Gateway) })
	f.Register(llm.SceneCasualConversation, func() flow.Node { return NewCasualConversation(deps.Gateway) })
	f.Register(llm.SceneHighEQResponse, func() flow.Node { return NewHighEQResponse(deps.Gateway) })
	f.Register(llm.SceneResumeConversation, func() flow.Node { return NewResumeConversation(deps.Gateway) })
	f.Register(InformationGatheringName, func() flow.Node {
		return NewInformationGathering(deps.Repos.QuestionTracking)
	})
	f.Register(llm.SceneRelevanceReply, func() flow.Node { return NewRelevanceReply(deps.Gateway) })
	f.Register(llm.SceneReplyMatchRequirement, func() flow.Node { return NewReplyMatchRequirement(deps.Gateway) })
	f.Register(llm.SceneCommunicationWillingness, func() flow.Node { return NewCommunicationWillingness(deps.Gateway) })
}

// conformanceErr reports an LLM answer whose field is missing or outside
// its closed value set. Retryable once; the raw output rides along for
// observability.
func conformanceErr(scene, field, raw string) error {
	return llm.NewError(llm.KindConformance, scene,
		fmt.Errorf("field %q missing or out of range in output %q", field, raw))
}
