package nodes

import (
	"context"
	"strings"

	"github.com/hireflow/hireflow/pkg/flow"
	"github.com/hireflow/hireflow/pkg/llm"
)

// HighEQResponse produces a warm closing sentence when the candidate is
// unwilling or noticeably unhappy.
type HighEQResponse struct {
	flow.BaseNode
}

// NewHighEQResponse builds the closing node.
func NewHighEQResponse(gw flow.LLMGateway) *HighEQResponse {
	n := &HighEQResponse{}
	n.BaseNode = flow.NewBaseNode(llm.SceneHighEQResponse, gw, n)
	return n
}

// DoExecute implements flow.NodeLogic.
func (n *HighEQResponse) DoExecute(ctx context.Context, convCtx *flow.ConversationContext) (*flow.NodeResult, error) {
	resp, err := n.CallLLM(ctx, convCtx)
	if err != nil {
		return nil, err
	}
	reply := strings.TrimSpace(resp.String("newReply"))
	if reply == "" {
		return nil, conformanceErr(llm.SceneHighEQResponse, "newReply", resp.Raw)
	}
	return flow.NewSendMessage(n.Name(), reply), nil
}

// Fallback implements flow.NodeLogic.
func (n *HighEQResponse) Fallback(convCtx *flow.ConversationContext, cause error) *flow.NodeResult {
	return flow.DefaultFallback(n.Name(), cause)
}

// ResumeConversation produces a re-engagement opener. Driven by the caller
// across turns (e.g. a scheduled nudge), not by the per-turn orchestrator.
type ResumeConversation struct {
	flow.BaseNode
}

// NewResumeConversation builds the re-engagement node.
func NewResumeConversation(gw flow.LLMGateway) *ResumeConversation {
	n := &ResumeConversation{}
	n.BaseNode = flow.NewBaseNode(llm.SceneResumeConversation, gw, n)
	return n
}

// DoExecute implements flow.NodeLogic.
func (n *ResumeConversation) DoExecute(ctx context.Context, convCtx *flow.ConversationContext) (*flow.NodeResult, error) {
	resp, err := n.CallLLM(ctx, convCtx)
	if err != nil {
		return nil, err
	}
	reply := strings.TrimSpace(resp.Raw)
	if reply == "" {
		return nil, conformanceErr(llm.SceneResumeConversation, "text", resp.Raw)
	}
	return flow.NewSendMessage(n.Name(), reply), nil
}

// Fallback implements flow.NodeLogic.
func (n *ResumeConversation) Fallback(convCtx *flow.ConversationContext, cause error) *flow.NodeResult {
	return flow.DefaultFallback(n.Name(), cause)
}
