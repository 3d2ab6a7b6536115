// Package orchestrator contains the top-level turn driver: parallel
// pre-checks, speculative group fan-out, and the deterministic
// action-selection policy that picks the engine's answer for the turn.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hireflow/hireflow/pkg/flow"
	"github.com/hireflow/hireflow/pkg/flow/groups"
	"github.com/hireflow/hireflow/pkg/llm"
)

// Orchestrator evaluates one candidate turn. Safe for concurrent use;
// all per-turn state lives on the ConversationContext.
type Orchestrator struct {
	executor *flow.DynamicExecutor
	response *groups.ResponseGroup
	question *groups.QuestionGroup
	// timeout bounds the pre-check parallel wait (<= 0 means the
	// executor default).
	timeout time.Duration
}

// New creates an orchestrator. Panics on nil dependencies.
func New(executor *flow.DynamicExecutor, response *groups.ResponseGroup, question *groups.QuestionGroup, timeout time.Duration) *Orchestrator {
	if executor == nil || response == nil || question == nil {
		panic("orchestrator.New: executor and both groups must not be nil")
	}
	return &Orchestrator{executor: executor, response: response, question: question, timeout: timeout}
}

// Execute runs the full decision pipeline for one turn.
func (o *Orchestrator) Execute(ctx context.Context, convCtx *flow.ConversationContext) (*flow.FlowResult, error) {
	if err := convCtx.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	var path []string

	// Phase A: pre-checks, in parallel.
	precheckNames := []string{llm.SceneTransferHumanIntent, llm.SceneCandidateEmotion}
	path = append(path, precheckNames...)
	prechecks := o.executor.ExecuteParallel(ctx, precheckNames, convCtx, o.timeout)

	if transfer := prechecks[llm.SceneTransferHumanIntent]; transfer.Action == flow.ActionSuspend {
		return o.finish(convCtx, transfer, path, start), nil
	}
	emotion := prechecks[llm.SceneCandidateEmotion]
	switch {
	case emotion.Action == flow.ActionSuspend:
		return o.finish(convCtx, emotion, path, start), nil
	case emotion.Action == flow.ActionNextNode && len(emotion.NextNodes) > 0 && emotion.NextNodes[0] == llm.SceneHighEQResponse:
		path = append(path, llm.SceneHighEQResponse)
		closing, err := o.executor.Execute(ctx, llm.SceneHighEQResponse, convCtx)
		if err != nil {
			return nil, fmt.Errorf("execute %s: %w", llm.SceneHighEQResponse, err)
		}
		return o.finish(convCtx, closing, path, start), nil
	}

	// Phase B: the Response group always runs; the Question group joins it
	// whenever the stage has question work (entering the question stage in
	// greeting, or evaluating an answer while questioning). Speculative:
	// which one is the source of truth is only known after both finish.
	runQuestion := convCtx.Stage == flow.StageGreeting || convCtx.Stage == flow.StageQuestioning

	type groupOutcome struct {
		result *flow.NodeResult
		path   []string
		err    error
	}
	responseCh := make(chan groupOutcome, 1)
	questionCh := make(chan groupOutcome, 1)

	go func() {
		result, p, err := o.response.ExecuteGroup(ctx, convCtx)
		responseCh <- groupOutcome{result: result, path: p, err: err}
	}()
	if runQuestion {
		go func() {
			result, p, err := o.question.ExecuteGroup(ctx, convCtx)
			questionCh <- groupOutcome{result: result, path: p, err: err}
		}()
	}

	responseOut := <-responseCh
	var questionOut groupOutcome
	if runQuestion {
		questionOut = <-questionCh
	}
	if responseOut.err != nil {
		return nil, fmt.Errorf("response group: %w", responseOut.err)
	}
	if questionOut.err != nil {
		return nil, fmt.Errorf("question group: %w", questionOut.err)
	}
	path = append(path, responseOut.path...)
	path = append(path, questionOut.path...)

	// Phase C: action selection.
	chosen := responseOut.result
	if runQuestion {
		chosen = selectResult(questionOut.result, responseOut.result)
	}
	return o.finish(convCtx, chosen, path, start), nil
}

// selectResult applies the deterministic preference order between the two
// racing groups. Depends only on the results, never on completion order.
func selectResult(question, response *flow.NodeResult) *flow.NodeResult {
	switch {
	case response.Action == flow.ActionSendMessage && response.NodeName == llm.SceneAnswerBasedOnKnowledge:
		// The candidate asked a side-question mid-assessment; answer it
		// before pressing on with the assessment.
		return response
	case question.Action == flow.ActionSendMessage || question.Action == flow.ActionSuspend:
		return question
	case question.Action == flow.ActionNone:
		return response
	default:
		return question
	}
}

// finish assembles the FlowResult for the turn.
func (o *Orchestrator) finish(convCtx *flow.ConversationContext, chosen *flow.NodeResult, path []string, start time.Time) *flow.FlowResult {
	result := &flow.FlowResult{
		Action:  chosen.Action,
		Message: chosen.Message,
		Reason:  chosen.Reason,
		Metadata: flow.FlowMetadata{
			SourceNode: chosen.NodeName,
			NodeData:   chosen.Data,
		},
		ExecutionPath: path,
		TotalTimeMs:   time.Since(start).Milliseconds(),
	}
	slog.Info("turn evaluated",
		"conversation_id", convCtx.ConversationID,
		"stage", convCtx.Stage.String(),
		"action", string(result.Action),
		"source_node", result.Metadata.SourceNode,
		"total_time_ms", result.TotalTimeMs)
	return result
}
