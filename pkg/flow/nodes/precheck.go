package nodes

import (
	"context"
	"strconv"

	"github.com/hireflow/hireflow/pkg/flow"
	"github.com/hireflow/hireflow/pkg/llm"
)

// TransferHumanIntent decides whether the candidate explicitly asked for a
// human. Fails open: a broken classifier must not escalate by itself.
type TransferHumanIntent struct {
	flow.BaseNode
}

// NewTransferHumanIntent builds the pre-check node.
func NewTransferHumanIntent(gw flow.LLMGateway) *TransferHumanIntent {
	n := &TransferHumanIntent{}
	n.BaseNode = flow.NewBaseNode(llm.SceneTransferHumanIntent, gw, n)
	return n
}

// DoExecute implements flow.NodeLogic.
func (n *TransferHumanIntent) DoExecute(ctx context.Context, convCtx *flow.ConversationContext) (*flow.NodeResult, error) {
	resp, err := n.CallLLM(ctx, convCtx)
	if err != nil {
		return nil, err
	}
	switch resp.String("transfer") {
	case "YES":
		return flow.NewSuspend(n.Name(), "候选人要求转接人工HR"), nil
	case "NO":
		return flow.NewNextNode(n.Name(), llm.SceneCandidateEmotion), nil
	}
	return nil, conformanceErr(llm.SceneTransferHumanIntent, "transfer", resp.Raw)
}

// Fallback implements flow.NodeLogic: continue the pre-check chain.
func (n *TransferHumanIntent) Fallback(convCtx *flow.ConversationContext, cause error) *flow.NodeResult {
	return flow.NewNextNode(n.Name(), llm.SceneCandidateEmotion).
		WithData(DataKeyInternalError, cause.Error())
}

// CandidateEmotion scores the candidate's sentiment 0..3 and routes:
// 0–1 stay on the main flow, 2 gets a polite close-out, 3 suspends.
type CandidateEmotion struct {
	flow.BaseNode
}

// NewCandidateEmotion builds the pre-check node.
func NewCandidateEmotion(gw flow.LLMGateway) *CandidateEmotion {
	n := &CandidateEmotion{}
	n.BaseNode = flow.NewBaseNode(llm.SceneCandidateEmotion, gw, n)
	return n
}

// DoExecute implements flow.NodeLogic.
func (n *CandidateEmotion) DoExecute(ctx context.Context, convCtx *flow.ConversationContext) (*flow.NodeResult, error) {
	resp, err := n.CallLLM(ctx, convCtx)
	if err != nil {
		return nil, err
	}
	score, ok := parseScore(resp.Parsed["分数"])
	if !ok || score < 0 || score > 3 {
		return nil, conformanceErr(llm.SceneCandidateEmotion, "分数", resp.Raw)
	}
	reason := resp.String("原因")

	var result *flow.NodeResult
	switch score {
	case 2:
		result = flow.NewNextNode(n.Name(), llm.SceneHighEQResponse)
	case 3:
		result = flow.NewSuspend(n.Name(), "候选人情绪负面,需要人工跟进")
	default:
		result = flow.NewNextNode(n.Name(), llm.SceneContinueConversation, InformationGatheringName)
	}
	return result.WithData(DataKeyScore, score).WithData(DataKeyReason, reason), nil
}

// Fallback implements flow.NodeLogic: assume a mildly impatient but
// workable candidate (score 1) and continue.
func (n *CandidateEmotion) Fallback(convCtx *flow.ConversationContext, cause error) *flow.NodeResult {
	return flow.NewNextNode(n.Name(), llm.SceneContinueConversation, InformationGatheringName).
		WithData(DataKeyScore, 1).
		WithData(DataKeyInternalError, cause.Error())
}

// parseScore accepts the score as a JSON number or a numeric string.
func parseScore(v any) (int, bool) {
	switch s := v.(type) {
	case float64:
		return int(s), true
	case int:
		return s, true
	case string:
		i, err := strconv.Atoi(s)
		return i, err == nil
	}
	return 0, false
}
