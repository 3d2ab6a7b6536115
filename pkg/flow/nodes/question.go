package nodes

import (
	"context"

	"github.com/hireflow/hireflow/pkg/flow"
	"github.com/hireflow/hireflow/pkg/llm"
	"github.com/hireflow/hireflow/pkg/models"
)

// InformationGathering is the pure-DB node that picks the next question to
// ask: ongoing before pending, then ascending sort order (resolved at SQL
// level by the repository). No LLM scene.
type InformationGathering struct {
	flow.BaseNode
	tracking flow.QuestionTrackingRepo
}

// NewInformationGathering builds the question picker.
func NewInformationGathering(tracking flow.QuestionTrackingRepo) *InformationGathering {
	n := &InformationGathering{tracking: tracking}
	n.BaseNode = flow.NewBaseNode(InformationGatheringName, nil, n)
	return n
}

// DoExecute implements flow.NodeLogic. Repository errors propagate — the
// engine has no local fallback for data-layer failures.
func (n *InformationGathering) DoExecute(ctx context.Context, convCtx *flow.ConversationContext) (*flow.NodeResult, error) {
	row, err := n.tracking.GetNextPending(ctx, convCtx.ConversationID, convCtx.TenantID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		// Ready to advance the stage; the question group interprets this.
		return flow.NewNone(n.Name(), "没有待提问的问题"), nil
	}
	if row.Status == models.TrackingPending {
		if _, err := n.tracking.UpdateStatus(ctx, row.ID, convCtx.TenantID, models.TrackingOngoing, nil); err != nil {
			return nil, err
		}
	}
	return flow.NewSendMessage(n.Name(), row.Question).
		WithData(DataKeyTrackingID, row.ID), nil
}

// Fallback implements flow.NodeLogic. Unreachable in practice — the node
// makes no LLM calls — but the contract requires a safe default.
func (n *InformationGathering) Fallback(convCtx *flow.ConversationContext, cause error) *flow.NodeResult {
	return flow.DefaultFallback(n.Name(), cause)
}

// RelevanceReply classifies how the candidate's answer relates to the
// current assessment question (A refusal, B relevant, C off-topic,
// D abusive/sensitive, E undetermined).
type RelevanceReply struct {
	flow.BaseNode
}

// NewRelevanceReply builds the relevance classifier.
func NewRelevanceReply(gw flow.LLMGateway) *RelevanceReply {
	n := &RelevanceReply{}
	n.BaseNode = flow.NewBaseNode(llm.SceneRelevanceReply, gw, n)
	return n
}

// DoExecute implements flow.NodeLogic.
func (n *RelevanceReply) DoExecute(ctx context.Context, convCtx *flow.ConversationContext) (*flow.NodeResult, error) {
	resp, err := n.CallLLM(ctx, convCtx)
	if err != nil {
		return nil, err
	}
	class := resp.String("result")
	var result *flow.NodeResult
	switch class {
	case "A":
		result = flow.NewSuspend(n.Name(), "候选人拒绝回答当前问题")
	case "B":
		result = flow.NewNextNode(n.Name(), llm.SceneReplyMatchRequirement)
	case "C":
		result = flow.NewNextNode(n.Name(), InformationGatheringName)
	case "D":
		result = flow.NewSuspend(n.Name(), "候选人消息包含敏感内容,需要人工处理")
	case "E":
		result = flow.NewSuspend(n.Name(), "无法判断候选人回答,需要人工确认")
	default:
		return nil, conformanceErr(llm.SceneRelevanceReply, "result", resp.Raw)
	}
	return result.WithData(DataKeyRelevance, class), nil
}

// Fallback implements flow.NodeLogic.
func (n *RelevanceReply) Fallback(convCtx *flow.ConversationContext, cause error) *flow.NodeResult {
	return flow.DefaultFallback(n.Name(), cause)
}

// ReplyMatchRequirement evaluates whether the candidate's answer satisfies
// the question's evaluation criteria.
type ReplyMatchRequirement struct {
	flow.BaseNode
}

// NewReplyMatchRequirement builds the requirement matcher.
func NewReplyMatchRequirement(gw flow.LLMGateway) *ReplyMatchRequirement {
	n := &ReplyMatchRequirement{}
	n.BaseNode = flow.NewBaseNode(llm.SceneReplyMatchRequirement, gw, n)
	return n
}

// DoExecute implements flow.NodeLogic.
func (n *ReplyMatchRequirement) DoExecute(ctx context.Context, convCtx *flow.ConversationContext) (*flow.NodeResult, error) {
	resp, err := n.CallLLM(ctx, convCtx)
	if err != nil {
		return nil, err
	}
	switch resp.String("result") {
	case "YES":
		return flow.NewNextNode(n.Name(), InformationGatheringName).
			WithData(DataKeyIsSatisfied, true), nil
	case "NO":
		// The row stays ongoing: a human review decides the outcome.
		return flow.NewSuspend(n.Name(), "候选人回答未达到考核要求,转人工复核").
			WithData(DataKeyIsSatisfied, false), nil
	case "QUESTION":
		return flow.NewNextNode(n.Name(), llm.SceneAnswerBasedOnKnowledge), nil
	}
	return nil, conformanceErr(llm.SceneReplyMatchRequirement, "result", resp.Raw)
}

// Fallback implements flow.NodeLogic.
func (n *ReplyMatchRequirement) Fallback(convCtx *flow.ConversationContext, cause error) *flow.NodeResult {
	return flow.DefaultFallback(n.Name(), cause)
}

// CommunicationWillingness checks whether the candidate engaged with a
// non-assessment (information) question.
type CommunicationWillingness struct {
	flow.BaseNode
}

// NewCommunicationWillingness builds the willingness checker.
func NewCommunicationWillingness(gw flow.LLMGateway) *CommunicationWillingness {
	n := &CommunicationWillingness{}
	n.BaseNode = flow.NewBaseNode(llm.SceneCommunicationWillingness, gw, n)
	return n
}

// DoExecute implements flow.NodeLogic.
func (n *CommunicationWillingness) DoExecute(ctx context.Context, convCtx *flow.ConversationContext) (*flow.NodeResult, error) {
	resp, err := n.CallLLM(ctx, convCtx)
	if err != nil {
		return nil, err
	}
	switch resp.String("result") {
	case "YES":
		return flow.NewNextNode(n.Name(), InformationGatheringName).
			WithData(DataKeyWilling, true), nil
	case "NO":
		return flow.NewSuspend(n.Name(), "候选人不愿回答当前问题,需要人工跟进").
			WithData(DataKeyWilling, false), nil
	}
	return nil, conformanceErr(llm.SceneCommunicationWillingness, "result", resp.Raw)
}

// Fallback implements flow.NodeLogic.
func (n *CommunicationWillingness) Fallback(convCtx *flow.ConversationContext, cause error) *flow.NodeResult {
	return flow.DefaultFallback(n.Name(), cause)
}
