package handlers

import (
	"errors"
	"net/http"

	"pepperfarm-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ChatHandler handles HTTP requests for the farming assistant
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// ChatRequest represents the request body for asking a question
type ChatRequest struct {
	Message string  `json:"message" binding:"required"`
	FarmID  *string `json:"farm_id"`
}

// Chat handles POST /api/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	var farmID *uuid.UUID
	if req.FarmID != nil && *req.FarmID != "" {
		fid, err := uuid.Parse(*req.FarmID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_FARM_ID",
					"message": "Invalid farm_id format",
				},
			})
			return
		}
		farmID = &fid
	}

	serviceReq := service.ProcessMessageRequest{
		Message:      req.Message,
		ActiveFarmID: farmID,
	}

	result, err := h.chatService.ProcessMessage(c.Request.Context(), serviceReq)
	if err != nil {
		code := "CHAT_FAILED"
		switch {
		case errors.Is(err, service.ErrEmbeddingFailed):
			code = "EMBEDDING_FAILED"
		case errors.Is(err, service.ErrRetrievalFailed):
			code = "RETRIEVAL_FAILED"
		case errors.Is(err, service.ErrGenerationFailed):
			code = "GENERATION_FAILED"
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Response,
	})
}
