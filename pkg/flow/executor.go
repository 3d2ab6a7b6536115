package flow

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// DefaultParallelTimeout bounds ExecuteParallel when the caller passes no
// explicit deadline.
const DefaultParallelTimeout = 90 * time.Second

// DynamicExecutor runs nodes by name through the factory: one at a time, or
// as a parallel fan-out under a wall-clock deadline.
type DynamicExecutor struct {
	factory *NodeFactory
}

// NewDynamicExecutor creates an executor over the given factory.
// Panics on nil factory — wiring bug.
func NewDynamicExecutor(factory *NodeFactory) *DynamicExecutor {
	if factory == nil {
		panic("flow.NewDynamicExecutor: factory must not be nil")
	}
	return &DynamicExecutor{factory: factory}
}

// Execute looks up the node and runs it. An unknown name propagates as
// ErrNodeNotFound.
func (e *DynamicExecutor) Execute(ctx context.Context, name string, convCtx *ConversationContext) (*NodeResult, error) {
	node, err := e.factory.CreateNode(name)
	if err != nil {
		return nil, err
	}
	return node.Execute(ctx, convCtx)
}

type parallelOutcome struct {
	name   string
	result *NodeResult
	err    error
}

// ExecuteParallel runs every named node concurrently and waits for all of
// them, bounded by timeout (DefaultParallelTimeout when <= 0). The result
// map always has one entry per input name:
//   - finished nodes contribute their result;
//   - node errors are converted to a NONE fallback result carrying
//     "<ErrType>: <msg>" so one crashed node never poisons its siblings;
//   - nodes still running at the deadline get a synthetic timeout result
//     and are cancelled without waiting for them to unwind.
func (e *DynamicExecutor) ExecuteParallel(ctx context.Context, names []string, convCtx *ConversationContext, timeout time.Duration) map[string]*NodeResult {
	if timeout <= 0 {
		timeout = DefaultParallelTimeout
	}

	taskCtx, cancel := context.WithCancel(ctx)
	// Deliberately not deferred-and-waited: on deadline we cancel and
	// return; stragglers observe cancellation at their own I/O awaits.
	outcomes := make(chan parallelOutcome, len(names))

	for _, name := range names {
		go func(name string) {
			result, err := e.Execute(taskCtx, name, convCtx)
			outcomes <- parallelOutcome{name: name, result: result, err: err}
		}(name)
	}

	results := make(map[string]*NodeResult, len(names))
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for len(results) < len(names) {
		select {
		case out := <-outcomes:
			if out.err != nil {
				slog.Error("parallel node execution failed",
					"node", out.name, "error", out.err)
				results[out.name] = errorResult(out.name, out.err)
				continue
			}
			results[out.name] = out.result
		case <-deadline.C:
			cancel()
			for _, name := range names {
				if _, done := results[name]; !done {
					slog.Warn("parallel node execution timed out",
						"node", name, "timeout", timeout)
					results[name] = timeoutResult(name, timeout)
				}
			}
			return results
		}
	}
	cancel()
	return results
}

// errorResult converts an executor-level failure into a NONE result so the
// entry still appears in the map.
func errorResult(name string, err error) *NodeResult {
	return &NodeResult{
		NodeName:       name,
		Action:         ActionNone,
		IsFallback:     true,
		FallbackReason: fmt.Sprintf("%T: %v", err, err),
	}
}

// timeoutResult is the synthetic entry for a node still running at the
// deadline.
func timeoutResult(name string, timeout time.Duration) *NodeResult {
	return &NodeResult{
		NodeName:       name,
		Action:         ActionNone,
		IsFallback:     true,
		FallbackReason: fmt.Sprintf("EXECUTION_TIMEOUT: >%ds", int(timeout.Seconds())),
	}
}
