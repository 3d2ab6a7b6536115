package groups

import (
	"context"
	"time"

	"github.com/hireflow/hireflow/pkg/flow"
	"github.com/hireflow/hireflow/pkg/flow/nodes"
	"github.com/hireflow/hireflow/pkg/llm"
)

// ResponseGroup orchestrates the conversational response path: willingness
// gating, question classification, and the speculative knowledge lookup.
//
// The knowledge lookup is latency-dominant and usually useful, so it runs
// concurrently with the ask-question classifier; when the classifier says
// "not a question" the knowledge reply is discarded — a few wasted tokens
// are cheaper than a sequential round trip.
type ResponseGroup struct {
	executor *flow.DynamicExecutor
	timeout  time.Duration
}

// NewResponseGroup creates the group. timeout bounds each parallel wait
// (<= 0 means the executor default).
func NewResponseGroup(executor *flow.DynamicExecutor, timeout time.Duration) *ResponseGroup {
	if executor == nil {
		panic("groups.NewResponseGroup: executor must not be nil")
	}
	return &ResponseGroup{executor: executor, timeout: timeout}
}

// Name implements Group.
func (g *ResponseGroup) Name() string { return flow.ResponseGroupName }

// ExecuteGroup implements Group.
func (g *ResponseGroup) ExecuteGroup(ctx context.Context, convCtx *flow.ConversationContext) (*flow.NodeResult, []string, error) {
	var path []string

	// Willingness gating is skipped once the conversation is past greeting:
	// a candidate answering assessment questions is already engaged.
	if convCtx.Stage != flow.StageQuestioning && convCtx.Stage != flow.StageIntention {
		path = append(path, llm.SceneContinueConversation)
		gate, err := g.executor.Execute(ctx, llm.SceneContinueConversation, convCtx)
		if err != nil {
			return nil, path, err
		}
		if willing, ok := gate.Data[nodes.DataKeyWilling].(bool); ok && !willing {
			path = append(path, llm.SceneHighEQResponse)
			closing, err := g.executor.Execute(ctx, llm.SceneHighEQResponse, convCtx)
			return closing, path, err
		}
	}

	// Speculative parallel: classify and look up the knowledge base at once.
	names := []string{llm.SceneCandidateAskQuestion, llm.SceneAnswerBasedOnKnowledge}
	path = append(path, names...)
	results := g.executor.ExecuteParallel(ctx, names, convCtx, g.timeout)

	ask := results[llm.SceneCandidateAskQuestion]
	knowledge := results[llm.SceneAnswerBasedOnKnowledge]

	isQuestion, _ := ask.Data[nodes.DataKeyIsQuestion].(bool)
	switch {
	case isQuestion && knowledge.Action == flow.ActionSendMessage:
		return knowledge, path, nil
	case isQuestion:
		path = append(path, llm.SceneAnswerWithoutKnowledge)
		result, err := g.executor.Execute(ctx, llm.SceneAnswerWithoutKnowledge, convCtx)
		return result, path, err
	default:
		path = append(path, llm.SceneCasualConversation)
		result, err := g.executor.Execute(ctx, llm.SceneCasualConversation, convCtx)
		return result, path, err
	}
}
