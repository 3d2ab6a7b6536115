package nodes

import (
	"context"
	"strings"

	"github.com/hireflow/hireflow/pkg/flow"
	"github.com/hireflow/hireflow/pkg/llm"
)

// knowledgeTopK is how many knowledge-base hits the answer node requests.
const knowledgeTopK = 3

// apologyReply is the fixed candidate-safe reply when the free-form answer
// node cannot produce one.
const apologyReply = "抱歉,这个问题我暂时没法回答,稍后会有专人与您联系。"

// ContinueConversation gates the response path on the candidate's
// willingness to keep talking.
type ContinueConversation struct {
	flow.BaseNode
}

// NewContinueConversation builds the willingness gate.
func NewContinueConversation(gw flow.LLMGateway) *ContinueConversation {
	n := &ContinueConversation{}
	n.BaseNode = flow.NewBaseNode(llm.SceneContinueConversation, gw, n)
	return n
}

// DoExecute implements flow.NodeLogic.
func (n *ContinueConversation) DoExecute(ctx context.Context, convCtx *flow.ConversationContext) (*flow.NodeResult, error) {
	resp, err := n.CallLLM(ctx, convCtx)
	if err != nil {
		return nil, err
	}
	switch resp.String("willing") {
	case "YES":
		return flow.NewNextNode(n.Name(), llm.SceneCandidateAskQuestion).
			WithData(DataKeyWilling, true), nil
	case "NO":
		return flow.NewNextNode(n.Name(), llm.SceneHighEQResponse).
			WithData(DataKeyWilling, false), nil
	}
	return nil, conformanceErr(llm.SceneContinueConversation, "willing", resp.Raw)
}

// Fallback implements flow.NodeLogic: assume the candidate is cooperating.
func (n *ContinueConversation) Fallback(convCtx *flow.ConversationContext, cause error) *flow.NodeResult {
	return flow.NewNextNode(n.Name(), llm.SceneCandidateAskQuestion).
		WithData(DataKeyWilling, true).
		WithData(DataKeyInternalError, cause.Error())
}

// CandidateAskQuestion classifies whether the last message contains a
// question for HR.
type CandidateAskQuestion struct {
	flow.BaseNode
}

// NewCandidateAskQuestion builds the question classifier.
func NewCandidateAskQuestion(gw flow.LLMGateway) *CandidateAskQuestion {
	n := &CandidateAskQuestion{}
	n.BaseNode = flow.NewBaseNode(llm.SceneCandidateAskQuestion, gw, n)
	return n
}

// DoExecute implements flow.NodeLogic.
func (n *CandidateAskQuestion) DoExecute(ctx context.Context, convCtx *flow.ConversationContext) (*flow.NodeResult, error) {
	resp, err := n.CallLLM(ctx, convCtx)
	if err != nil {
		return nil, err
	}
	switch resp.String("result") {
	case "YES":
		return flow.NewNextNode(n.Name(), llm.SceneAnswerBasedOnKnowledge).
			WithData(DataKeyIsQuestion, true), nil
	case "NO":
		return flow.NewNextNode(n.Name(), llm.SceneCasualConversation).
			WithData(DataKeyIsQuestion, false), nil
	}
	return nil, conformanceErr(llm.SceneCandidateAskQuestion, "result", resp.Raw)
}

// Fallback implements flow.NodeLogic: chit-chat is the safer branch — a
// missed question costs less than a hallucinated answer.
func (n *CandidateAskQuestion) Fallback(convCtx *flow.ConversationContext, cause error) *flow.NodeResult {
	return flow.NewNextNode(n.Name(), llm.SceneCasualConversation).
		WithData(DataKeyIsQuestion, false).
		WithData(DataKeyInternalError, cause.Error())
}

// AnswerBasedOnKnowledge looks up the knowledge base for the candidate's
// question and answers from it. The knowledge results are attached to a
// private copy of the context — the input context is never mutated, so a
// speculative sibling branch cannot observe them.
type AnswerBasedOnKnowledge struct {
	flow.BaseNode
	searcher flow.KnowledgeSearcher
}

// NewAnswerBasedOnKnowledge builds the knowledge-answer node.
func NewAnswerBasedOnKnowledge(gw flow.LLMGateway, searcher flow.KnowledgeSearcher) *AnswerBasedOnKnowledge {
	n := &AnswerBasedOnKnowledge{searcher: searcher}
	n.BaseNode = flow.NewBaseNode(llm.SceneAnswerBasedOnKnowledge, gw, n)
	return n
}

// DoExecute implements flow.NodeLogic.
func (n *AnswerBasedOnKnowledge) DoExecute(ctx context.Context, convCtx *flow.ConversationContext) (*flow.NodeResult, error) {
	entries, err := n.searcher.Search(ctx,
		convCtx.LastCandidateMessage, convCtx.JobID, convCtx.TenantID, convCtx.ConversationID, knowledgeTopK)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return flow.NewContinue(n.Name()).WithData(DataKeyFound, false), nil
	}

	enriched := convCtx.WithKnowledge(entries)
	resp, err := n.CallLLM(ctx, enriched)
	if err != nil {
		return nil, err
	}
	answer := strings.TrimSpace(resp.Raw)
	if answer == "" || answer == llm.NotFoundAnswer {
		return flow.NewContinue(n.Name()).WithData(DataKeyFound, false), nil
	}
	return flow.NewSendMessage(n.Name(), answer).WithData(DataKeyFound, true), nil
}

// Fallback implements flow.NodeLogic: report "no answer" and let the group
// fall through to the knowledge-free reply.
func (n *AnswerBasedOnKnowledge) Fallback(convCtx *flow.ConversationContext, cause error) *flow.NodeResult {
	return flow.NewContinue(n.Name()).
		WithData(DataKeyFound, false).
		WithData(DataKeyInternalError, cause.Error())
}

// AnswerWithoutKnowledge produces a free-form reply when the knowledge base
// has nothing. Always sends a message.
type AnswerWithoutKnowledge struct {
	flow.BaseNode
}

// NewAnswerWithoutKnowledge builds the knowledge-free answer node.
func NewAnswerWithoutKnowledge(gw flow.LLMGateway) *AnswerWithoutKnowledge {
	n := &AnswerWithoutKnowledge{}
	n.BaseNode = flow.NewBaseNode(llm.SceneAnswerWithoutKnowledge, gw, n)
	return n
}

// DoExecute implements flow.NodeLogic.
func (n *AnswerWithoutKnowledge) DoExecute(ctx context.Context, convCtx *flow.ConversationContext) (*flow.NodeResult, error) {
	resp, err := n.CallLLM(ctx, convCtx)
	if err != nil {
		return nil, err
	}
	answer := strings.TrimSpace(resp.String("answer"))
	if answer == "" {
		return nil, conformanceErr(llm.SceneAnswerWithoutKnowledge, "answer", resp.Raw)
	}
	result := flow.NewSendMessage(n.Name(), answer)
	if issueClass := resp.String("issue_class"); issueClass != "" {
		result.WithData(DataKeyIssueClass, issueClass)
	}
	return result, nil
}

// Fallback implements flow.NodeLogic: a fixed apology, never silence.
func (n *AnswerWithoutKnowledge) Fallback(convCtx *flow.ConversationContext, cause error) *flow.NodeResult {
	return flow.NewSendMessage(n.Name(), apologyReply).
		WithData(DataKeyInternalError, cause.Error())
}

// CasualConversation produces a small-talk reply.
type CasualConversation struct {
	flow.BaseNode
}

// NewCasualConversation builds the small-talk node.
func NewCasualConversation(gw flow.LLMGateway) *CasualConversation {
	n := &CasualConversation{}
	n.BaseNode = flow.NewBaseNode(llm.SceneCasualConversation, gw, n)
	return n
}

// DoExecute implements flow.NodeLogic.
func (n *CasualConversation) DoExecute(ctx context.Context, convCtx *flow.ConversationContext) (*flow.NodeResult, error) {
	resp, err := n.CallLLM(ctx, convCtx)
	if err != nil {
		return nil, err
	}
	reply := strings.TrimSpace(resp.String("newReply"))
	if reply == "" {
		return nil, conformanceErr(llm.SceneCasualConversation, "newReply", resp.Raw)
	}
	return flow.NewSendMessage(n.Name(), reply), nil
}

// Fallback implements flow.NodeLogic.
func (n *CasualConversation) Fallback(convCtx *flow.ConversationContext, cause error) *flow.NodeResult {
	return flow.DefaultFallback(n.Name(), cause)
}
