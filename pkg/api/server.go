// Package api exposes the flow engine over HTTP: one endpoint per turn,
// one for re-engaging a silent candidate, and a health probe.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hireflow/hireflow/pkg/database"
	"github.com/hireflow/hireflow/pkg/flow"
	"github.com/hireflow/hireflow/pkg/flow/orchestrator"
	"github.com/hireflow/hireflow/pkg/llm"
	"github.com/hireflow/hireflow/pkg/masking"
	"github.com/hireflow/hireflow/pkg/services"
	"github.com/hireflow/hireflow/pkg/version"
)

// Server represents the API server
type Server struct {
	db            *database.Client
	orch          *orchestrator.Orchestrator
	executor      *flow.DynamicExecutor
	conversations *services.ConversationService
	masker        *masking.Service

	httpServer *http.Server
}

// NewServer creates a new API server
func NewServer(db *database.Client, orch *orchestrator.Orchestrator, executor *flow.DynamicExecutor, conversations *services.ConversationService, masker *masking.Service) *Server {
	return &Server{
		db:            db,
		orch:          orch,
		executor:      executor,
		conversations: conversations,
		masker:        masker,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), securityHeaders(), s.requestLogger())

	router.GET("/health", s.Health)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/conversations/:id/messages", s.HandleMessage)
		v1.POST("/conversations/:id/resume", s.HandleResume)
	}
	return router
}

// Start runs the HTTP server on addr. Blocks until the server stops.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Health returns the health status
func (s *Server) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	dbHealth, err := s.db.Health(ctx)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"version":  version.GitCommit,
			"database": dbHealth,
			"error":    err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"version":  version.GitCommit,
		"database": dbHealth,
	})
}

// HandleMessage evaluates one candidate turn and returns the engine's
// decision.
func (s *Server) HandleMessage(c *gin.Context) {
	conversationID := c.Param("id")

	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conv, err := s.conversations.Get(c.Request.Context(), conversationID, req.TenantID)
	if err != nil {
		status, msg := mapServiceError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	if conv == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}

	slog.Info("candidate turn received",
		"conversation_id", conversationID,
		"stage", conv.Stage,
		"message", s.maskedPreview(req.Message))

	convCtx := &flow.ConversationContext{
		ConversationID:       conv.ID,
		TenantID:             conv.TenantID,
		UserID:               conv.UserID,
		JobID:                conv.JobID,
		ResumeID:             conv.ResumeID,
		Stage:                flow.ConversationStage(conv.Stage),
		Status:               flow.ConversationStatus(conv.Status),
		LastCandidateMessage: req.Message,
		History:              req.History,
		Position:             req.Position,
	}

	result, err := s.orch.Execute(c.Request.Context(), convCtx)
	if err != nil {
		status, msg := mapServiceError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleResume crafts a re-engagement message for a conversation the
// candidate stopped replying to. Runs the resume node directly; the full
// pipeline needs a candidate message to evaluate and there is none.
func (s *Server) HandleResume(c *gin.Context) {
	conversationID := c.Param("id")

	var req ResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conv, err := s.conversations.Get(c.Request.Context(), conversationID, req.TenantID)
	if err != nil {
		status, msg := mapServiceError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	if conv == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}

	convCtx := &flow.ConversationContext{
		ConversationID: conv.ID,
		TenantID:       conv.TenantID,
		UserID:         conv.UserID,
		JobID:          conv.JobID,
		ResumeID:       conv.ResumeID,
		Stage:          flow.ConversationStage(conv.Stage),
		Status:         flow.ConversationStatus(conv.Status),
		History:        req.History,
		Position:       req.Position,
	}

	result, err := s.executor.Execute(c.Request.Context(), llm.SceneResumeConversation, convCtx)
	if err != nil {
		status, msg := mapServiceError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, result)
}

// maskedPreview returns a log-safe preview of candidate text.
func (s *Server) maskedPreview(text string) string {
	const maxPreview = 64
	if s.masker != nil {
		text = s.masker.Mask(text)
	}
	runes := []rune(text)
	if len(runes) > maxPreview {
		return string(runes[:maxPreview]) + "..."
	}
	return text
}
