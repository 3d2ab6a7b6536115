package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hireflow/hireflow/pkg/models"
)

// QuestionTrackingService manages the per-(conversation, question) rows that
// drive the assessment state machine.
type QuestionTrackingService struct {
	db *sql.DB
}

// NewQuestionTrackingService creates a new QuestionTrackingService
func NewQuestionTrackingService(db *sql.DB) *QuestionTrackingService {
	return &QuestionTrackingService{db: db}
}

const trackingColumns = `id, conversation_id, question_id, job_id, resume_id, question, status, is_satisfied, created_at, updated_at`

// BulkCreate inserts one pending tracking row per question, atomically.
func (s *QuestionTrackingService) BulkCreate(httpCtx context.Context, conversationID, jobID, resumeID, tenantID, userID string, questions []models.JobQuestion) error {
	if conversationID == "" {
		return NewValidationError("conversation_id", "required")
	}
	if tenantID == "" {
		return NewValidationError("tenant_id", "required")
	}
	if len(questions) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(httpCtx, serviceTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range questions {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO question_trackings
			 (id, tenant_id, user_id, conversation_id, question_id, job_id, resume_id, question, status)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			uuid.New().String(), tenantID, userID, conversationID,
			q.ID, jobID, resumeID, q.Question, models.TrackingPending)
		if err != nil {
			return fmt.Errorf("failed to create tracking row for question %s: %w", q.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit tracking rows: %w", err)
	}
	return nil
}

// ListByConversation returns tracking rows for the conversation, optionally
// filtered by status. Deleted rows are never returned.
func (s *QuestionTrackingService) ListByConversation(httpCtx context.Context, conversationID, tenantID string, statuses ...models.TrackingStatus) ([]models.QuestionTracking, error) {
	if conversationID == "" {
		return nil, NewValidationError("conversation_id", "required")
	}
	if tenantID == "" {
		return nil, NewValidationError("tenant_id", "required")
	}
	for _, st := range statuses {
		if !st.Valid() {
			return nil, NewValidationError("status", fmt.Sprintf("unknown status %q", st))
		}
	}

	ctx, cancel := context.WithTimeout(httpCtx, serviceTimeout)
	defer cancel()

	query := `SELECT ` + trackingColumns + `
		 FROM question_trackings
		 WHERE conversation_id = $1 AND tenant_id = $2 AND status <> 'deleted'`
	args := []any{conversationID, tenantID}
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, st := range statuses {
			placeholders[i] = fmt.Sprintf("$%d", len(args)+1)
			args = append(args, string(st))
		}
		query += ` AND status IN (` + strings.Join(placeholders, ", ") + `)`
	}
	query += ` ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list question trackings: %w", err)
	}
	defer rows.Close()

	var trackings []models.QuestionTracking
	for rows.Next() {
		t, err := scanTracking(rows)
		if err != nil {
			return nil, err
		}
		trackings = append(trackings, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read question trackings: %w", err)
	}
	return trackings, nil
}

// GetNextPending returns the next question to ask: the ongoing row first,
// then pending rows in the job's sort order. nil when none remain.
func (s *QuestionTrackingService) GetNextPending(httpCtx context.Context, conversationID, tenantID string) (*models.QuestionTracking, error) {
	if conversationID == "" {
		return nil, NewValidationError("conversation_id", "required")
	}
	if tenantID == "" {
		return nil, NewValidationError("tenant_id", "required")
	}

	ctx, cancel := context.WithTimeout(httpCtx, serviceTimeout)
	defer cancel()

	row := s.db.QueryRowContext(ctx,
		`SELECT qt.id, qt.conversation_id, qt.question_id, qt.job_id, qt.resume_id,
		        qt.question, qt.status, qt.is_satisfied, qt.created_at, qt.updated_at
		 FROM question_trackings qt
		 JOIN job_questions jq ON jq.id = qt.question_id
		 WHERE qt.conversation_id = $1 AND qt.tenant_id = $2 AND qt.status IN ('ongoing', 'pending')
		 ORDER BY CASE qt.status WHEN 'ongoing' THEN 0 ELSE 1 END, jq.sort_order ASC
		 LIMIT 1`,
		conversationID, tenantID)

	t, err := scanTracking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateStatus transitions a row and optionally records satisfaction.
// Returns the updated row; a missing row is ErrNotFound.
func (s *QuestionTrackingService) UpdateStatus(httpCtx context.Context, id, tenantID string, status models.TrackingStatus, isSatisfied *bool) (*models.QuestionTracking, error) {
	if id == "" {
		return nil, NewValidationError("id", "required")
	}
	if tenantID == "" {
		return nil, NewValidationError("tenant_id", "required")
	}
	if !status.Valid() {
		return nil, NewValidationError("status", fmt.Sprintf("unknown status %q", status))
	}

	ctx, cancel := context.WithTimeout(httpCtx, serviceTimeout)
	defer cancel()

	row := s.db.QueryRowContext(ctx,
		`UPDATE question_trackings
		 SET status = $1, is_satisfied = COALESCE($2, is_satisfied), updated_at = now()
		 WHERE id = $3 AND tenant_id = $4
		 RETURNING `+trackingColumns,
		string(status), isSatisfied, id, tenantID)

	t, err := scanTracking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("question tracking %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func scanTracking(r rowScanner) (*models.QuestionTracking, error) {
	var t models.QuestionTracking
	err := r.Scan(&t.ID, &t.ConversationID, &t.QuestionID, &t.JobID, &t.ResumeID,
		&t.Question, &t.Status, &t.IsSatisfied, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan question tracking: %w", err)
	}
	return &t, nil
}
