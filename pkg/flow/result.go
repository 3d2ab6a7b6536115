package flow

// NodeResult is the outcome of one node execution.
type NodeResult struct {
	NodeName string     `json:"node_name"`
	Action   NodeAction `json:"action"`
	// Message is meaningful only for SEND_MESSAGE. Enforced by the
	// constructors below.
	Message string `json:"message,omitempty"`
	// NextNodes is the ordered routing list for NEXT_NODE. Group executors
	// follow only the first name; the rest are informational.
	NextNodes []string `json:"next_nodes,omitempty"`
	// Reason is human-readable and candidate-safe. Never carries error
	// internals.
	Reason string `json:"reason,omitempty"`
	// Data carries the parsed LLM answer for downstream nodes and groups to
	// inspect. Not user-facing.
	Data map[string]any `json:"data,omitempty"`

	ExecutionTimeMs int64 `json:"execution_time_ms"`

	// IsFallback marks a result produced by the node's fallback after its
	// LLM attempts were exhausted (or after an executor-level failure).
	IsFallback bool `json:"is_fallback,omitempty"`
	// FallbackReason is the technical detail behind a fallback. Logged,
	// never shown to the candidate.
	FallbackReason string `json:"fallback_reason,omitempty"`
}

// NewSendMessage builds a SEND_MESSAGE result. The only constructor that
// sets Message, keeping the action/message pairing valid by construction.
func NewSendMessage(node, message string) *NodeResult {
	return &NodeResult{NodeName: node, Action: ActionSendMessage, Message: message}
}

// NewNextNode builds a NEXT_NODE result routing to the given node names.
func NewNextNode(node string, next ...string) *NodeResult {
	return &NodeResult{NodeName: node, Action: ActionNextNode, NextNodes: next}
}

// NewSuspend builds a SUSPEND result with a candidate-safe reason.
func NewSuspend(node, reason string) *NodeResult {
	return &NodeResult{NodeName: node, Action: ActionSuspend, Reason: reason}
}

// NewNone builds a NONE result.
func NewNone(node, reason string) *NodeResult {
	return &NodeResult{NodeName: node, Action: ActionNone, Reason: reason}
}

// NewContinue builds an internal CONTINUE hand-off.
func NewContinue(node string) *NodeResult {
	return &NodeResult{NodeName: node, Action: ActionContinue}
}

// WithData attaches a data entry and returns the result for chaining.
func (r *NodeResult) WithData(key string, value any) *NodeResult {
	if r.Data == nil {
		r.Data = make(map[string]any)
	}
	r.Data[key] = value
	return r
}

// DataString returns r.Data[key] as a string, or "" when absent or not a string.
func (r *NodeResult) DataString(key string) string {
	if r == nil || r.Data == nil {
		return ""
	}
	s, _ := r.Data[key].(string)
	return s
}

// FlowMetadata identifies where the final decision came from.
type FlowMetadata struct {
	SourceNode string         `json:"source_node"`
	NodeData   map[string]any `json:"node_data,omitempty"`
}

// FlowResult is the engine's decision for one turn.
type FlowResult struct {
	Action   NodeAction   `json:"action"`
	Message  string       `json:"message,omitempty"`
	Reason   string       `json:"reason,omitempty"`
	Metadata FlowMetadata `json:"metadata"`
	// ExecutionPath lists the node names actually executed, in start order.
	ExecutionPath []string `json:"execution_path"`
	TotalTimeMs   int64    `json:"total_time_ms"`
}
