package models

import "time"

// QuestionType distinguishes informational questions from assessed ones.
type QuestionType string

const (
	QuestionTypeInformation QuestionType = "information"
	QuestionTypeAssessment  QuestionType = "assessment"
)

// JobQuestion is one question HR configured for a job. Read-only to the engine.
type JobQuestion struct {
	ID                 string       `json:"id"`
	JobID              string       `json:"job_id"`
	Question           string       `json:"question"`
	QuestionType       QuestionType `json:"question_type"`
	IsRequired         bool         `json:"is_required"`
	EvaluationCriteria string       `json:"evaluation_criteria,omitempty"`
	SortOrder          int          `json:"sort_order"`
	Status             string       `json:"status"`
	CreatedAt          time.Time    `json:"created_at"`
}

// TrackingStatus is the lifecycle status of a per-conversation question row.
type TrackingStatus string

const (
	TrackingPending   TrackingStatus = "pending"
	TrackingOngoing   TrackingStatus = "ongoing"
	TrackingCompleted TrackingStatus = "completed"
	TrackingSkipped   TrackingStatus = "skipped"
	TrackingDeleted   TrackingStatus = "deleted"
)

// Valid reports whether the status is a known variant.
func (s TrackingStatus) Valid() bool {
	switch s {
	case TrackingPending, TrackingOngoing, TrackingCompleted, TrackingSkipped, TrackingDeleted:
		return true
	}
	return false
}

// QuestionTracking is the per-(conversation, question) state row driving the
// assessment state machine. Rows are bulk-created as pending when a
// conversation first enters the question stage.
type QuestionTracking struct {
	ID             string         `json:"id"`
	ConversationID string         `json:"conversation_id"`
	QuestionID     string         `json:"question_id"`
	JobID          string         `json:"job_id"`
	ResumeID       string         `json:"resume_id"`
	Question       string         `json:"question"` // denormalized from JobQuestion
	Status         TrackingStatus `json:"status"`
	// IsSatisfied is set only for assessment questions, and only once the
	// candidate's answer has been evaluated.
	IsSatisfied *bool     `json:"is_satisfied,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
