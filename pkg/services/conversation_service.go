package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hireflow/hireflow/pkg/flow"
	"github.com/hireflow/hireflow/pkg/models"
)

// ConversationService reads and mutates candidate conversation rows. The
// engine only writes the stage; status transitions belong to the outer
// messaging platform.
type ConversationService struct {
	db *sql.DB
}

// NewConversationService creates a new ConversationService
func NewConversationService(db *sql.DB) *ConversationService {
	return &ConversationService{db: db}
}

// Get returns one conversation, or nil when it does not exist.
func (s *ConversationService) Get(httpCtx context.Context, conversationID, tenantID string) (*models.Conversation, error) {
	if conversationID == "" {
		return nil, NewValidationError("conversation_id", "required")
	}
	if tenantID == "" {
		return nil, NewValidationError("tenant_id", "required")
	}

	ctx, cancel := context.WithTimeout(httpCtx, serviceTimeout)
	defer cancel()

	var c models.Conversation
	err := s.db.QueryRowContext(ctx,
		`SELECT id, tenant_id, user_id, job_id, resume_id, stage, status, created_at, updated_at
		 FROM candidate_conversations
		 WHERE id = $1 AND tenant_id = $2`,
		conversationID, tenantID).
		Scan(&c.ID, &c.TenantID, &c.UserID, &c.JobID, &c.ResumeID,
			&c.Stage, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return &c, nil
}

// UpdateStage advances the conversation stage.
func (s *ConversationService) UpdateStage(httpCtx context.Context, conversationID, tenantID string, stage flow.ConversationStage) error {
	if conversationID == "" {
		return NewValidationError("conversation_id", "required")
	}
	if tenantID == "" {
		return NewValidationError("tenant_id", "required")
	}
	if !stage.Valid() {
		return NewValidationError("stage", fmt.Sprintf("unknown stage %d", int(stage)))
	}

	ctx, cancel := context.WithTimeout(httpCtx, serviceTimeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		`UPDATE candidate_conversations
		 SET stage = $1, updated_at = now()
		 WHERE id = $2 AND tenant_id = $3`,
		int(stage), conversationID, tenantID)
	if err != nil {
		return fmt.Errorf("failed to update conversation stage: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("conversation %s: %w", conversationID, ErrNotFound)
	}
	return nil
}
