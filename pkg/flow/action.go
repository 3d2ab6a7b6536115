// Package flow implements the conversation flow engine: the node
// abstraction, the node factory, the dynamic executor, and the shared
// context/result types the group executors and orchestrator build on.
// Nodes evaluate one candidate turn and decide whether to reply, ask the
// next assessment question, escalate to a human, or do nothing.
package flow

import "fmt"

// NodeAction is the decision a node (or the whole engine) produces for a turn.
type NodeAction string

const (
	// ActionNone means no message should be sent; typically paired with a
	// stage advance the engine already performed.
	ActionNone NodeAction = "NONE"
	// ActionNextNode routes to the node(s) named in NodeResult.NextNodes.
	ActionNextNode NodeAction = "NEXT_NODE"
	// ActionSendMessage delivers NodeResult.Message to the candidate.
	ActionSendMessage NodeAction = "SEND_MESSAGE"
	// ActionSuspend hands the conversation to a human; no message is sent.
	ActionSuspend NodeAction = "SUSPEND"
	// ActionTerminate ends the conversation. Reserved — not currently produced.
	ActionTerminate NodeAction = "TERMINATE"
	// ActionContinue is an internal hand-off between sibling nodes within a
	// group. Never returned to the caller.
	ActionContinue NodeAction = "CONTINUE"
)

// Terminal reports whether the action is externally observable
// (returned to the engine caller).
func (a NodeAction) Terminal() bool {
	switch a {
	case ActionNone, ActionSendMessage, ActionSuspend, ActionTerminate:
		return true
	}
	return false
}

// ConversationStage is the coarse phase of a candidate conversation.
// Stages are monotonically non-decreasing across turns; the engine writes
// the 1→2 and 2→3 transitions through the conversation repository.
type ConversationStage int

const (
	StageGreeting    ConversationStage = 1
	StageQuestioning ConversationStage = 2
	StageIntention   ConversationStage = 3
	StageMatched     ConversationStage = 4
)

// Valid reports whether the stage is a known variant.
func (s ConversationStage) Valid() bool {
	return s >= StageGreeting && s <= StageMatched
}

func (s ConversationStage) String() string {
	switch s {
	case StageGreeting:
		return "greeting"
	case StageQuestioning:
		return "questioning"
	case StageIntention:
		return "intention"
	case StageMatched:
		return "matched"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// ConversationStatus is the lifecycle status of a conversation.
// The engine reads it; it never writes it.
type ConversationStatus string

const (
	StatusOpened      ConversationStatus = "opened"
	StatusOngoing     ConversationStatus = "ongoing"
	StatusInterrupted ConversationStatus = "interrupted"
	StatusEnded       ConversationStatus = "ended"
	StatusDeleted     ConversationStatus = "deleted"
)

// Valid reports whether the status is a known variant.
func (s ConversationStatus) Valid() bool {
	switch s {
	case StatusOpened, StatusOngoing, StatusInterrupted, StatusEnded, StatusDeleted:
		return true
	}
	return false
}
