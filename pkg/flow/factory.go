package flow

import (
	"fmt"
	"sync"
)

// Group executor registration names.
const (
	ResponseGroupName = "response_group"
	QuestionGroupName = "question_group"
)

// NodeFactory is the process-wide registry of node constructors. Nodes are
// stateless with respect to the conversation context, so each name is
// constructed once and the instance cached; CreateNode is safe for
// concurrent use across turns.
type NodeFactory struct {
	mu    sync.Mutex
	ctors map[string]func() Node
	cache map[string]Node
}

// NewNodeFactory creates an empty factory.
func NewNodeFactory() *NodeFactory {
	return &NodeFactory{
		ctors: make(map[string]func() Node),
		cache: make(map[string]Node),
	}
}

// Register adds a constructor under name. Registering the same name twice
// is a wiring bug and panics.
func (f *NodeFactory) Register(name string, ctor func() Node) {
	if ctor == nil {
		panic("flow.NodeFactory: nil constructor for " + name)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.ctors[name]; exists {
		panic("flow.NodeFactory: duplicate registration for " + name)
	}
	f.ctors[name] = ctor
}

// CreateNode returns the cached singleton for name, constructing it on
// first use.
func (f *NodeFactory) CreateNode(name string) (Node, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if node, ok := f.cache[name]; ok {
		return node, nil
	}
	ctor, ok := f.ctors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, name)
	}
	node := ctor()
	f.cache[name] = node
	return node, nil
}

// HasNode reports whether name is registered.
func (f *NodeFactory) HasNode(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.ctors[name]
	return ok
}
