// Package groups contains the two node-group executors that encode the
// branching business logic: the Response group (conversational reply path)
// and the Question group (assessment-question state machine).
package groups

import (
	"context"

	"github.com/hireflow/hireflow/pkg/flow"
)

// Group composes nodes with business-rule branching. ExecuteGroup returns
// the terminal result plus the node names it ran, in start order.
type Group interface {
	Name() string
	ExecuteGroup(ctx context.Context, convCtx *flow.ConversationContext) (*flow.NodeResult, []string, error)
}

// groupNode adapts a Group to the Node interface so groups are addressable
// through the factory like any other node.
type groupNode struct {
	group Group
}

func (n *groupNode) Name() string { return n.group.Name() }

func (n *groupNode) Execute(ctx context.Context, convCtx *flow.ConversationContext) (*flow.NodeResult, error) {
	result, _, err := n.group.ExecuteGroup(ctx, convCtx)
	return result, err
}

// Register adds the group executors to the factory under their stable names.
func Register(f *flow.NodeFactory, response *ResponseGroup, question *QuestionGroup) {
	f.Register(flow.ResponseGroupName, func() flow.Node { return &groupNode{group: response} })
	f.Register(flow.QuestionGroupName, func() flow.Node { return &groupNode{group: question} })
}
