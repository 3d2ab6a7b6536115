// Package models defines the data types shared between the flow engine,
// the repository services, and the HTTP API.
package models

import "time"

// Message sender labels as stored in conversation history.
const (
	SenderCandidate = "candidate"
	SenderAI        = "ai"
	SenderSystem    = "system"
)

// Message is a single entry in a conversation transcript, oldest→newest.
type Message struct {
	Sender      string    `json:"sender"`
	Content     string    `json:"content"`
	MessageType string    `json:"message_type,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// PositionInfo describes the job a conversation is about.
type PositionInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Requirements string `json:"requirements,omitempty"`
}

// Conversation is the engine-owned view of a candidate conversation row.
// Stage and Status mirror the flow-level enums; they stay numeric/string
// here so the models package has no dependency on the engine.
type Conversation struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	UserID    string    `json:"user_id"`
	JobID     string    `json:"job_id"`
	ResumeID  string    `json:"resume_id"`
	Stage     int       `json:"stage"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// KnowledgeEntry is one hit from the knowledge-base search service.
type KnowledgeEntry struct {
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Score    float64 `json:"score,omitempty"`
}
