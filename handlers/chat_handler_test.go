package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pepperfarm-backend/models"
	"pepperfarm-backend/repository"
	"pepperfarm-backend/service"
)

type stubEmbedder struct {
	vector []float32
}

func (e *stubEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return e.vector, nil
}

type stubGenerator struct {
	reply string
}

func (g *stubGenerator) Generate(ctx context.Context, systemInstruction, userPrompt string) (string, error) {
	return g.reply, nil
}

func newChatRouter(store repository.KnowledgeStore, opts ...service.ChatServiceOption) *gin.Engine {
	gin.SetMode(gin.TestMode)

	retrieval := service.NewRetrievalService(
		service.RetrievalWithKnowledgeStore(store),
	)
	base := []service.ChatServiceOption{
		service.ChatWithEmbeddingService(&stubEmbedder{vector: []float32{1, 0}}),
		service.ChatWithRetrievalService(retrieval),
	}
	chatService := service.NewChatService(append(base, opts...)...)

	router := gin.New()
	handler := NewChatHandler(chatService)
	router.POST("/api/chat", handler.Chat)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestChatReturnsGroundedReply(t *testing.T) {
	store := repository.NewMemoryKnowledgeStore(models.PepperKnowledge{
		Title:           "Wilt control",
		Content:         "Apply Bordeaux mixture.",
		ConfidenceLevel: models.ConfidenceHigh,
		Embedding:       []float32{1, 0},
	})
	router := newChatRouter(store, service.ChatWithGenerator(&stubGenerator{reply: "Apply Bordeaux mixture."}))

	w := postJSON(t, router, "/api/chat", gin.H{"message": "How do I treat wilt?"})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                `json:"success"`
		Data    models.ChatResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Apply Bordeaux mixture.", resp.Data.Reply)
	assert.Equal(t, []string{"Wilt control"}, resp.Data.Sources)
}

func TestChatFallbackWhenNothingApplies(t *testing.T) {
	router := newChatRouter(repository.NewMemoryKnowledgeStore(),
		service.ChatWithGenerator(&stubGenerator{reply: "should not appear"}))

	w := postJSON(t, router, "/api/chat", gin.H{"message": "How do I treat wilt?"})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                `json:"success"`
		Data    models.ChatResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "No official recommendation available for this condition.", resp.Data.Reply)
	assert.Empty(t, resp.Data.Sources)
}

func TestChatRequiresMessage(t *testing.T) {
	router := newChatRouter(repository.NewMemoryKnowledgeStore())

	w := postJSON(t, router, "/api/chat", gin.H{})

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "INVALID_REQUEST", resp.Error.Code)
}

func TestChatRejectsMalformedFarmID(t *testing.T) {
	router := newChatRouter(repository.NewMemoryKnowledgeStore())

	w := postJSON(t, router, "/api/chat", gin.H{"message": "hi", "farm_id": "not-a-uuid"})

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_FARM_ID", resp.Error.Code)
}

func TestChatUnavailableWithoutClient(t *testing.T) {
	store := repository.NewMemoryKnowledgeStore(models.PepperKnowledge{
		Title:           "Wilt control",
		Content:         "Apply Bordeaux mixture.",
		ConfidenceLevel: models.ConfidenceHigh,
		Embedding:       []float32{1, 0},
	})
	router := newChatRouter(store)

	w := postJSON(t, router, "/api/chat", gin.H{"message": "How do I treat wilt?"})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data models.ChatResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "AI Service is currently unavailable (API Key missing).", resp.Data.Reply)
	assert.Empty(t, resp.Data.Sources)
}
