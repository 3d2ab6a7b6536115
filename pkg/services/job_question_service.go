package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hireflow/hireflow/pkg/models"
)

const serviceTimeout = 10 * time.Second

// JobQuestionService reads the per-job question catalog.
type JobQuestionService struct {
	db *sql.DB
}

// NewJobQuestionService creates a new JobQuestionService
func NewJobQuestionService(db *sql.DB) *JobQuestionService {
	return &JobQuestionService{db: db}
}

const jobQuestionColumns = `id, job_id, question, question_type, is_required, evaluation_criteria, sort_order, status, created_at`

// ListByJob returns the non-deleted questions for a job ordered by sort_order.
func (s *JobQuestionService) ListByJob(httpCtx context.Context, jobID, tenantID string) ([]models.JobQuestion, error) {
	if jobID == "" {
		return nil, NewValidationError("job_id", "required")
	}
	if tenantID == "" {
		return nil, NewValidationError("tenant_id", "required")
	}

	ctx, cancel := context.WithTimeout(httpCtx, serviceTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+jobQuestionColumns+`
		 FROM job_questions
		 WHERE job_id = $1 AND tenant_id = $2 AND status <> 'deleted'
		 ORDER BY sort_order ASC, created_at ASC`,
		jobID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list job questions: %w", err)
	}
	defer rows.Close()

	var questions []models.JobQuestion
	for rows.Next() {
		q, err := scanJobQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read job questions: %w", err)
	}
	return questions, nil
}

// GetByID returns one question, or nil when it does not exist.
func (s *JobQuestionService) GetByID(httpCtx context.Context, id, tenantID string) (*models.JobQuestion, error) {
	if id == "" {
		return nil, NewValidationError("id", "required")
	}
	if tenantID == "" {
		return nil, NewValidationError("tenant_id", "required")
	}

	ctx, cancel := context.WithTimeout(httpCtx, serviceTimeout)
	defer cancel()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+jobQuestionColumns+`
		 FROM job_questions
		 WHERE id = $1 AND tenant_id = $2 AND status <> 'deleted'`,
		id, tenantID)

	q, err := scanJobQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return q, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJobQuestion(r rowScanner) (*models.JobQuestion, error) {
	var q models.JobQuestion
	err := r.Scan(&q.ID, &q.JobID, &q.Question, &q.QuestionType, &q.IsRequired,
		&q.EvaluationCriteria, &q.SortOrder, &q.Status, &q.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan job question: %w", err)
	}
	return &q, nil
}
