package knowledge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireflow/hireflow/pkg/models"
)

func TestSearch(t *testing.T) {
	var got searchRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/search", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		json.NewEncoder(w).Encode(searchResponse{Results: []models.KnowledgeEntry{
			{Question: "薪资范围", Answer: "15-25K"},
		}})
	}))
	defer server.Close()

	c := NewClient(server.URL, "secret")
	entries, err := c.Search(context.Background(), "薪资是多少", "job-1", "tenant-1", "conv-1", 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "15-25K", entries[0].Answer)

	assert.Equal(t, "薪资是多少", got.Query)
	assert.Equal(t, "job-1", got.JobID)
	assert.Equal(t, "tenant-1", got.TenantID)
	assert.Equal(t, "conv-1", got.ConversationID)
	assert.Equal(t, 5, got.TopK)
}

func TestSearchDefaultsTopK(t *testing.T) {
	var got searchRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(searchResponse{})
	}))
	defer server.Close()

	c := NewClient(server.URL, "")
	entries, err := c.Search(context.Background(), "加班多吗", "job-1", "tenant-1", "conv-1", 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, DefaultTopK, got.TopK)
}

func TestSearchNoTokenOmitsAuthorization(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(searchResponse{})
	}))
	defer server.Close()

	c := NewClient(server.URL, "")
	_, err := c.Search(context.Background(), "q", "job-1", "tenant-1", "conv-1", 3)
	require.NoError(t, err)
}

func TestSearchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewClient(server.URL, "")
	_, err := c.Search(context.Background(), "q", "job-1", "tenant-1", "conv-1", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
