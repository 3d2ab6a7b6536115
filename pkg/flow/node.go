package flow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hireflow/hireflow/pkg/llm"
)

// Node is the smallest executable unit of the engine: one LLM scene or one
// pure-DB decision, evaluated against a conversation context.
// Nodes are stateless with respect to the context — the factory caches one
// instance per name and shares it across concurrent turns.
type Node interface {
	Name() string
	Execute(ctx context.Context, convCtx *ConversationContext) (*NodeResult, error)
}

// NodeLogic is what a concrete node implements on top of BaseNode
// (strategy pattern: BaseNode owns retry/timing/fallback mechanics, the
// logic owns the single evaluation).
type NodeLogic interface {
	// DoExecute performs the node's single evaluation.
	DoExecute(ctx context.Context, convCtx *ConversationContext) (*NodeResult, error)
	// Fallback produces the node's domain-safe default once LLM attempts
	// are exhausted. cause is the last LLM error.
	Fallback(convCtx *ConversationContext, cause error) *NodeResult
}

const (
	// defaultMaxAttempts is one attempt plus one retry. Retries apply only
	// to transient LLM failures; conformance errors get the same single
	// extra attempt (the next sample may be in-spec).
	defaultMaxAttempts = 2

	retryInitialInterval = 2 * time.Second
	retryMaxInterval     = 4 * time.Second
)

// BaseNode carries the execute-with-timing, bounded-retry, and fallback
// behaviour every node shares. Concrete nodes embed it and implement
// NodeLogic.
type BaseNode struct {
	name        string
	scene       string
	gateway     LLMGateway
	logic       NodeLogic
	maxAttempts int
}

// NewBaseNode wires a base for a concrete node. The scene doubles as the
// node name; gateway may be nil for pure-DB nodes. Panics on nil logic —
// programmer error in the node constructor.
func NewBaseNode(scene string, gateway LLMGateway, logic NodeLogic) BaseNode {
	if logic == nil {
		panic("flow.NewBaseNode: logic must not be nil")
	}
	return BaseNode{
		name:        scene,
		scene:       scene,
		gateway:     gateway,
		logic:       logic,
		maxAttempts: defaultMaxAttempts,
	}
}

// Name returns the node's registered name (its scene name).
func (n *BaseNode) Name() string { return n.name }

// Execute runs the node with bounded retry on transient LLM failures and
// per-node fallback on exhaustion. Non-LLM errors propagate unretried.
func (n *BaseNode) Execute(ctx context.Context, convCtx *ConversationContext) (*NodeResult, error) {
	started := time.Now()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = retryInitialInterval
	bo.MaxInterval = retryMaxInterval
	bo.Multiplier = 2

	var lastErr error
	for attempt := 1; attempt <= n.maxAttempts; attempt++ {
		result, err := n.logic.DoExecute(ctx, convCtx)
		if err == nil {
			result.NodeName = n.name
			result.ExecutionTimeMs = time.Since(started).Milliseconds()
			return result, nil
		}
		if !llm.IsRetryable(err) {
			return nil, err
		}
		lastErr = err
		if attempt == n.maxAttempts {
			break
		}
		slog.Warn("node LLM call failed, retrying",
			"node", n.name, "attempt", attempt, "error", err)
		select {
		case <-time.After(bo.NextBackOff()):
		case <-ctx.Done():
			return nil, llm.NewError(llm.KindTimeout, n.scene, ctx.Err())
		}
	}

	slog.Warn("node exhausted LLM retries, using fallback", "node", n.name, "error", lastErr)
	result := n.logic.Fallback(convCtx, lastErr)
	result.NodeName = n.name
	result.IsFallback = true
	result.FallbackReason = lastErr.Error()
	result.ExecutionTimeMs = time.Since(started).Milliseconds()
	return result, nil
}

// CallLLM invokes the node's default scene with the context's template
// variables. scene may be overridden for nodes that share logic.
func (n *BaseNode) CallLLM(ctx context.Context, convCtx *ConversationContext, sceneOverride ...string) (*llm.SceneResponse, error) {
	scene := n.scene
	if len(sceneOverride) > 0 && sceneOverride[0] != "" {
		scene = sceneOverride[0]
	}
	if n.gateway == nil {
		return nil, fmt.Errorf("node %s has no LLM gateway", n.name)
	}
	return n.gateway.CallScene(ctx, scene, TemplateVars(convCtx))
}

// DefaultFallback is the base fallback: suspend with a generic
// candidate-safe reason and the technical cause confined to data.
func DefaultFallback(node string, cause error) *NodeResult {
	r := NewSuspend(node, "系统繁忙,请稍后再试")
	if cause != nil {
		r.WithData("internalError", cause.Error())
	}
	return r
}
