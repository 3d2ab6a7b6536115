// Package knowledge provides the HTTP client for the external knowledge-base
// search service. Retrieval itself (vector search, BM25, rank fusion) lives
// in that service; this client only carries the query and the tenant scope.
package knowledge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hireflow/hireflow/pkg/models"
)

// DefaultTopK is the number of entries requested when the caller passes 0.
const DefaultTopK = 3

// Client provides HTTP access to the knowledge-base search service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     *slog.Logger
}

// NewClient creates an HTTP client for knowledge-base search.
// token may be empty when the service sits on a trusted network.
func NewClient(baseURL, token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		token:      token,
		logger:     slog.Default(),
	}
}

type searchRequest struct {
	Query          string `json:"query"`
	JobID          string `json:"job_id"`
	TenantID       string `json:"tenant_id"`
	ConversationID string `json:"conversation_id"`
	TopK           int    `json:"top_k"`
}

type searchResponse struct {
	Results []models.KnowledgeEntry `json:"results"`
}

// Search queries the knowledge base for entries matching the candidate's
// question, scoped to the job and tenant.
func (c *Client) Search(ctx context.Context, query, jobID, tenantID, conversationID string, topK int) ([]models.KnowledgeEntry, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	payload, err := json.Marshal(searchRequest{
		Query:          query,
		JobID:          jobID,
		TenantID:       tenantID,
		ConversationID: conversationID,
		TopK:           topK,
	})
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/search", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search knowledge base: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("knowledge base returned HTTP %d", resp.StatusCode)
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	c.logger.Debug("knowledge search completed",
		"conversation_id", conversationID, "hits", len(out.Results))
	return out.Results, nil
}
