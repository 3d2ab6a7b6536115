package api

import "github.com/hireflow/hireflow/pkg/models"

// MessageRequest is the payload for evaluating one candidate turn. The
// outer messaging platform owns the transcript and the job card, so both
// ride along in the request; stage and status come from the conversation
// row.
type MessageRequest struct {
	TenantID string `json:"tenant_id" binding:"required"`
	Message  string `json:"message" binding:"required"`

	History  []models.Message    `json:"history"`
	Position models.PositionInfo `json:"position"`
}

// ResumeRequest asks the engine to craft a re-engagement message for a
// conversation the candidate went silent on.
type ResumeRequest struct {
	TenantID string `json:"tenant_id" binding:"required"`

	History  []models.Message    `json:"history"`
	Position models.PositionInfo `json:"position"`
}
