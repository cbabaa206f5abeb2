package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"
)

// EmbeddingService converts free text into a fixed-length vector
type EmbeddingService interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

var ErrEmbeddingFailed = errors.New("failed to generate embedding")

const (
	embeddingAPI   = "https://generativelanguage.googleapis.com/v1beta/models/gemini-embedding-001:embedContent"
	embeddingDim   = 768
	maxRetries     = 3
	initialBackoff = time.Second
)

// EmbeddingRequest represents an embedding API request
type EmbeddingRequest struct {
	Model                string       `json:"model"`
	Content              ContentInput `json:"content"`
	TaskType             string       `json:"task_type,omitempty"`
	OutputDimensionality int          `json:"output_dimensionality,omitempty"`
}

// ContentInput represents content for embedding
type ContentInput struct {
	Parts []PartInput `json:"parts"`
}

// PartInput represents a part of content
type PartInput struct {
	Text string `json:"text"`
}

// EmbeddingResponse represents an embedding API response
type EmbeddingResponse struct {
	Embedding EmbeddingData `json:"embedding"`
}

// EmbeddingData contains the embedding values
type EmbeddingData struct {
	Values []float32 `json:"values"`
}

// GeminiEmbeddingService generates embeddings via the Gemini embedContent
// API with retry and exponential backoff. Returned vectors are unit
// normalised so L2 distances are comparable across queries.
type GeminiEmbeddingService struct {
	apiKey     string
	endpoint   string
	taskType   string
	httpClient *http.Client
}

// GeminiEmbeddingOption is a functional option for GeminiEmbeddingService
type GeminiEmbeddingOption func(*GeminiEmbeddingService)

// EmbeddingWithEndpoint overrides the API endpoint
func EmbeddingWithEndpoint(endpoint string) GeminiEmbeddingOption {
	return func(s *GeminiEmbeddingService) {
		s.endpoint = endpoint
	}
}

// EmbeddingWithTaskType sets the embedding task type. Queries use
// RETRIEVAL_QUERY (the default); the ingestion tool uses RETRIEVAL_DOCUMENT.
func EmbeddingWithTaskType(taskType string) GeminiEmbeddingOption {
	return func(s *GeminiEmbeddingService) {
		s.taskType = taskType
	}
}

// EmbeddingWithHTTPClient overrides the HTTP client
func EmbeddingWithHTTPClient(client *http.Client) GeminiEmbeddingOption {
	return func(s *GeminiEmbeddingService) {
		s.httpClient = client
	}
}

// NewGeminiEmbeddingService creates a new Gemini embedding service
func NewGeminiEmbeddingService(apiKey string, opts ...GeminiEmbeddingOption) *GeminiEmbeddingService {
	s := &GeminiEmbeddingService{
		apiKey:     apiKey,
		endpoint:   embeddingAPI,
		taskType:   "RETRIEVAL_QUERY",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateEmbedding computes a 768-dimension embedding for the given text
func (s *GeminiEmbeddingService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	reqBody := EmbeddingRequest{
		Model: "models/gemini-embedding-001",
		Content: ContentInput{
			Parts: []PartInput{{Text: text}},
		},
		TaskType:             s.taskType,
		OutputDimensionality: embeddingDim,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	backoff := initialBackoff
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(backoff)
			backoff *= 2
		}

		req, err := http.NewRequestWithContext(ctx, "POST", s.endpoint, bytes.NewBuffer(jsonData))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", s.apiKey)

		resp, err := s.httpClient.Do(req)
		if err != nil {
			if attempt == maxRetries-1 {
				return nil, fmt.Errorf("failed to send request after %d attempts: %w", maxRetries, err)
			}
			continue
		}

		if resp.StatusCode == http.StatusOK {
			var apiResp EmbeddingResponse
			if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
				resp.Body.Close()
				if attempt == maxRetries-1 {
					return nil, fmt.Errorf("failed to decode response: %w", err)
				}
				continue
			}
			resp.Body.Close()

			return normalize(apiResp.Embedding.Values), nil
		}

		resp.Body.Close()

		// Don't retry on 400 or 401 errors
		if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("API error: %d", resp.StatusCode)
		}

		if attempt == maxRetries-1 {
			return nil, fmt.Errorf("API error after %d attempts: %d", maxRetries, resp.StatusCode)
		}
	}

	return nil, ErrEmbeddingFailed
}

// normalize scales a vector to unit length
func normalize(embedding []float32) []float32 {
	var norm float64
	for _, v := range embedding {
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range embedding {
			embedding[i] = float32(float64(embedding[i]) / norm)
		}
	}
	return embedding
}
