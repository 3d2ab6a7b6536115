package flow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubNode is a hand-rolled Node for executor tests.
type stubNode struct {
	name   string
	delay  time.Duration
	result *NodeResult
	err    error
}

func (n *stubNode) Name() string { return n.name }

func (n *stubNode) Execute(ctx context.Context, _ *ConversationContext) (*NodeResult, error) {
	if n.delay > 0 {
		select {
		case <-time.After(n.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return n.result, n.err
}

func registerStub(t *testing.T, f *NodeFactory, n *stubNode) {
	t.Helper()
	f.Register(n.name, func() Node { return n })
}

func TestFactoryCachesSingleton(t *testing.T) {
	f := NewNodeFactory()
	calls := 0
	f.Register("n1", func() Node {
		calls++
		return &stubNode{name: "n1"}
	})

	first, err := f.CreateNode("n1")
	require.NoError(t, err)
	second, err := f.CreateNode("n1")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
	assert.True(t, f.HasNode("n1"))
	assert.False(t, f.HasNode("unknown"))
}

func TestFactoryUnknownNode(t *testing.T) {
	f := NewNodeFactory()
	_, err := f.CreateNode("ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestFactoryDuplicateRegistrationPanics(t *testing.T) {
	f := NewNodeFactory()
	f.Register("dup", func() Node { return &stubNode{name: "dup"} })
	assert.Panics(t, func() {
		f.Register("dup", func() Node { return &stubNode{name: "dup"} })
	})
}

func TestExecuteUnknownNodePropagates(t *testing.T) {
	e := NewDynamicExecutor(NewNodeFactory())
	_, err := e.Execute(context.Background(), "ghost", validContext())
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestExecuteParallelAllFinish(t *testing.T) {
	f := NewNodeFactory()
	registerStub(t, f, &stubNode{name: "a", result: NewSendMessage("a", "hi")})
	registerStub(t, f, &stubNode{name: "b", result: NewNone("b", "")})
	e := NewDynamicExecutor(f)

	results := e.ExecuteParallel(context.Background(), []string{"a", "b"}, validContext(), time.Second)
	require.Len(t, results, 2)
	assert.Equal(t, ActionSendMessage, results["a"].Action)
	assert.Equal(t, ActionNone, results["b"].Action)
}

func TestExecuteParallelErrorDoesNotPoisonSiblings(t *testing.T) {
	f := NewNodeFactory()
	registerStub(t, f, &stubNode{name: "ok", result: NewSendMessage("ok", "hi")})
	registerStub(t, f, &stubNode{name: "broken", err: errors.New("boom")})
	e := NewDynamicExecutor(f)

	results := e.ExecuteParallel(context.Background(), []string{"ok", "broken"}, validContext(), time.Second)
	require.Len(t, results, 2)

	assert.Equal(t, ActionSendMessage, results["ok"].Action)

	broken := results["broken"]
	assert.Equal(t, ActionNone, broken.Action)
	assert.True(t, broken.IsFallback)
	assert.Contains(t, broken.FallbackReason, "boom")
}

func TestExecuteParallelDeadline(t *testing.T) {
	f := NewNodeFactory()
	registerStub(t, f, &stubNode{name: "fast", result: NewSendMessage("fast", "hi")})
	registerStub(t, f, &stubNode{name: "slow", delay: 5 * time.Second, result: NewNone("slow", "")})
	e := NewDynamicExecutor(f)

	start := time.Now()
	results := e.ExecuteParallel(context.Background(), []string{"fast", "slow"}, validContext(), 100*time.Millisecond)
	elapsed := time.Since(start)

	assert.Less(t, elapsed, time.Second, "deadline must not wait for stragglers")
	require.Len(t, results, 2)
	assert.Equal(t, ActionSendMessage, results["fast"].Action)

	slow := results["slow"]
	assert.Equal(t, ActionNone, slow.Action)
	assert.True(t, slow.IsFallback)
	assert.Contains(t, slow.FallbackReason, "EXECUTION_TIMEOUT")
}
