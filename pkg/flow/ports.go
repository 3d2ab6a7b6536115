package flow

import (
	"context"
	"errors"

	"github.com/hireflow/hireflow/pkg/llm"
	"github.com/hireflow/hireflow/pkg/models"
)

// Engine-level sentinel errors.
var (
	// ErrInvalidContext indicates the caller assembled a turn that violates
	// the context invariants. Programmer error — never retried.
	ErrInvalidContext = errors.New("invalid conversation context")
	// ErrNodeNotFound indicates a node name with no registered constructor.
	ErrNodeNotFound = errors.New("node not found")
)

// LLMGateway is the engine's view of the scene-based LLM service.
// A scene selects a prompt template plus a pre-declared model,
// temperature, top-p, and output-parsing policy; the node never encodes
// those inline. Implemented by llm.Client. Errors follow the pkg/llm
// taxonomy; the node retry logic keys off it.
type LLMGateway interface {
	CallScene(ctx context.Context, scene string, vars map[string]string) (*llm.SceneResponse, error)
}

// KnowledgeSearcher is the engine's view of the external knowledge-base
// search service (vector + BM25 + RRF — all outside this repo).
type KnowledgeSearcher interface {
	Search(ctx context.Context, query, jobID, tenantID, conversationID string, topK int) ([]models.KnowledgeEntry, error)
}

// JobQuestionRepo reads the per-job question catalog. All calls are
// tenant-scoped; tenancy enforcement is the repository's responsibility.
type JobQuestionRepo interface {
	// ListByJob returns non-deleted questions ordered by sort_order.
	ListByJob(ctx context.Context, jobID, tenantID string) ([]models.JobQuestion, error)
	GetByID(ctx context.Context, id, tenantID string) (*models.JobQuestion, error)
}

// QuestionTrackingRepo manages the per-(conversation, question) rows that
// drive the assessment state machine.
type QuestionTrackingRepo interface {
	// BulkCreate inserts one pending row per question.
	BulkCreate(ctx context.Context, conversationID, jobID, resumeID, tenantID, userID string, questions []models.JobQuestion) error
	// ListByConversation returns rows for the conversation, optionally
	// filtered by status. Deleted rows are never returned.
	ListByConversation(ctx context.Context, conversationID, tenantID string, statuses ...models.TrackingStatus) ([]models.QuestionTracking, error)
	// GetNextPending returns the next question to ask: ongoing before
	// pending, then ascending job-question sort order. nil when none remain.
	GetNextPending(ctx context.Context, conversationID, tenantID string) (*models.QuestionTracking, error)
	// UpdateStatus transitions a row and optionally records satisfaction.
	UpdateStatus(ctx context.Context, id, tenantID string, status models.TrackingStatus, isSatisfied *bool) (*models.QuestionTracking, error)
}

// ConversationRepo mutates the single conversation field the engine owns.
type ConversationRepo interface {
	UpdateStage(ctx context.Context, conversationID, tenantID string, stage ConversationStage) error
}

// Repositories bundles the ports a turn needs, mirroring how the caller
// wires them once at startup.
type Repositories struct {
	JobQuestions     JobQuestionRepo
	QuestionTracking QuestionTrackingRepo
	Conversations    ConversationRepo
}
