package flow

import (
	"fmt"
	"strings"

	"github.com/hireflow/hireflow/pkg/models"
)

// ConversationContext carries everything a node needs to evaluate one
// candidate turn. Built once per turn by the caller and treated as
// immutable: nodes that need to add fields (e.g. knowledge results) must
// work on a copy so speculative sibling branches never observe the change.
type ConversationContext struct {
	// Identity
	ConversationID string
	TenantID       string
	UserID         string
	JobID          string
	ResumeID       string

	Stage  ConversationStage
	Status ConversationStatus

	// LastCandidateMessage is the message being evaluated. Non-blank.
	LastCandidateMessage string
	// History is the full transcript, ordered oldest→newest. May be empty
	// on the very first turn. The slice may be shared between copies.
	History []models.Message

	Position models.PositionInfo

	// KnowledgeResults is set by the knowledge-answer node on its private
	// copy of the context before calling the LLM.
	KnowledgeResults []models.KnowledgeEntry

	// Current assessment question, populated by the question group from the
	// tracking row. Optional in QUESTIONING; unused in other stages.
	CurrentQuestionID          string
	CurrentQuestionContent     string
	CurrentQuestionRequirement string
}

// Validate checks the context invariants. Programmer errors (the caller
// assembled the turn incorrectly) — never retried.
func (c *ConversationContext) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"conversation_id", c.ConversationID},
		{"tenant_id", c.TenantID},
		{"user_id", c.UserID},
		{"job_id", c.JobID},
		{"resume_id", c.ResumeID},
	} {
		if f.value == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidContext, f.name)
		}
	}
	if strings.TrimSpace(c.LastCandidateMessage) == "" {
		return fmt.Errorf("%w: last candidate message is blank", ErrInvalidContext)
	}
	if !c.Stage.Valid() {
		return fmt.Errorf("%w: unknown stage %d", ErrInvalidContext, int(c.Stage))
	}
	if !c.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidContext, c.Status)
	}
	return nil
}

// Clone returns a structural copy. History and knowledge slices are shared;
// they are never mutated in place by the engine.
func (c *ConversationContext) Clone() *ConversationContext {
	cp := *c
	return &cp
}

// WithKnowledge returns a copy with the knowledge results attached.
func (c *ConversationContext) WithKnowledge(entries []models.KnowledgeEntry) *ConversationContext {
	cp := c.Clone()
	cp.KnowledgeResults = entries
	return cp
}

// WithCurrentQuestion returns a copy with the current assessment question set.
func (c *ConversationContext) WithCurrentQuestion(id, content, requirement string) *ConversationContext {
	cp := c.Clone()
	cp.CurrentQuestionID = id
	cp.CurrentQuestionContent = content
	cp.CurrentQuestionRequirement = requirement
	return cp
}

// LastAIMessage returns the most recent AI message content, or "" if none.
func (c *ConversationContext) LastAIMessage() string {
	for i := len(c.History) - 1; i >= 0; i-- {
		if c.History[i].Sender == models.SenderAI {
			return c.History[i].Content
		}
	}
	return ""
}
