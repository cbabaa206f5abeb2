package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pepperfarm-backend/models"
	"pepperfarm-backend/repository"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
)

// FarmLookup resolves a farm reference to its record
type FarmLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Farm, error)
}

// Generator produces text from a two-turn exchange: a system instruction and
// a user prompt
type Generator interface {
	Generate(ctx context.Context, systemInstruction, userPrompt string) (string, error)
}

var ErrGenerationFailed = errors.New("failed to generate reply")

const (
	// FallbackReply is returned verbatim whenever retrieval yields no
	// applicable knowledge. The model is never invoked on that path.
	FallbackReply = "No official recommendation available for this condition."

	// UnavailableReply is returned when no generative client is configured
	UnavailableReply = "AI Service is currently unavailable (API Key missing)."
)

// groundingInstruction restricts the model to the retrieved knowledge and
// mandates the exact refusal string when it is insufficient.
const groundingInstruction = `You are a Sri Lankan black pepper farming assistant.

Rules:
- Use ONLY the provided knowledge
- Do NOT use external knowledge
- Do NOT guess or generalize
- If information is missing, say EXACTLY:
  'No official recommendation available for this condition.'
- Keep answers short, practical, and farmer-friendly`

// ChatService answers farming questions grounded in retrieved knowledge.
// Per request: resolve the farm context, embed the question, retrieve
// applicable knowledge, then either refuse (nothing retrieved), report the
// model unavailable (no client), or generate a grounded reply.
type ChatService struct {
	farms     FarmLookup
	embedder  EmbeddingService
	retrieval *RetrievalService
	generator Generator
	now       func() time.Time
}

// ChatServiceOption is a functional option for ChatService
type ChatServiceOption func(*ChatService)

// ChatWithFarmLookup sets the farm lookup
func ChatWithFarmLookup(farms FarmLookup) ChatServiceOption {
	return func(s *ChatService) {
		s.farms = farms
	}
}

// ChatWithEmbeddingService sets the embedding service
func ChatWithEmbeddingService(embedder EmbeddingService) ChatServiceOption {
	return func(s *ChatService) {
		s.embedder = embedder
	}
}

// ChatWithRetrievalService sets the retrieval service
func ChatWithRetrievalService(retrieval *RetrievalService) ChatServiceOption {
	return func(s *ChatService) {
		s.retrieval = retrieval
	}
}

// ChatWithGeminiClient wires a Gemini client as the generator. A nil client
// leaves the service in the degraded no-client state rather than failing.
func ChatWithGeminiClient(client *genai.Client) ChatServiceOption {
	return func(s *ChatService) {
		if client != nil {
			s.generator = newGeminiGenerator(client)
		}
	}
}

// ChatWithGenerator sets the generator directly
func ChatWithGenerator(generator Generator) ChatServiceOption {
	return func(s *ChatService) {
		s.generator = generator
	}
}

// ChatWithClock overrides the time source used for plant age computation
func ChatWithClock(now func() time.Time) ChatServiceOption {
	return func(s *ChatService) {
		s.now = now
	}
}

// NewChatService creates a new chat service
func NewChatService(opts ...ChatServiceOption) *ChatService {
	s := &ChatService{
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HasClient reports whether a generative client is configured. The service
// stays fully constructible and answerable without one.
func (s *ChatService) HasClient() bool {
	return s.generator != nil
}

// ProcessMessageRequest represents a farming question, optionally asked in
// the context of one of the farmer's registered farms
type ProcessMessageRequest struct {
	Message      string
	ActiveFarmID *uuid.UUID
}

// ProcessMessageResult represents the outcome of answering a question
type ProcessMessageResult struct {
	Response *models.ChatResponse
}

// farmContext is the retrieval context derived from a farm profile. All
// fields may be absent; name resolution happens inside the retrieval engine.
type farmContext struct {
	districtID     *int
	varietyID      *string
	plantAgeMonths *int
}

// ProcessMessage answers a farming question using only retrieved knowledge
func (s *ChatService) ProcessMessage(ctx context.Context, req ProcessMessageRequest) (*ProcessMessageResult, error) {
	if s.embedder == nil {
		return nil, errors.New("embedding service not set")
	}
	if s.retrieval == nil {
		return nil, errors.New("retrieval service not set")
	}

	// 1. Derive the retrieval context from the active farm, if any
	fc, err := s.resolveFarmContext(ctx, req.ActiveFarmID)
	if err != nil {
		return nil, err
	}

	// 2. Embed the question
	embedding, err := s.embedder.GenerateEmbedding(ctx, req.Message)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}

	// 3. Retrieve applicable knowledge
	entries, err := s.retrieval.Search(ctx, embedding, fc.districtID, fc.varietyID, fc.plantAgeMonths)
	if err != nil {
		return nil, err
	}

	// Guardrail: no knowledge means the fixed refusal, never a model call
	if len(entries) == 0 {
		return &ProcessMessageResult{
			Response: &models.ChatResponse{
				Reply:   FallbackReply,
				Sources: []string{},
			},
		}, nil
	}

	// 4. Construct the grounded prompt
	userPrompt := buildUserPrompt(entries, req.Message)

	// 5. Generate, or report the model unavailable. Sources are dropped on
	// the unavailable path: the reply is not grounded in them.
	if s.generator == nil {
		return &ProcessMessageResult{
			Response: &models.ChatResponse{
				Reply:   UnavailableReply,
				Sources: []string{},
			},
		}, nil
	}

	reply, err := s.generator.Generate(ctx, groundingInstruction, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	return &ProcessMessageResult{
		Response: &models.ChatResponse{
			Reply:   reply,
			Sources: distinctTitles(entries),
		},
	}, nil
}

// resolveFarmContext reads the farm's references verbatim and computes the
// plant age in whole months. A missing farm (or no farm at all) yields an
// empty context, not an error.
func (s *ChatService) resolveFarmContext(ctx context.Context, farmID *uuid.UUID) (farmContext, error) {
	var fc farmContext

	if farmID == nil || s.farms == nil {
		return fc, nil
	}

	farm, err := s.farms.GetByID(ctx, *farmID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fc, nil
		}
		return fc, fmt.Errorf("failed to load farm %s: %w", *farmID, err)
	}

	fc.districtID = farm.DistrictID
	fc.varietyID = farm.ChosenVarietyID

	if farm.FarmStartDate != nil {
		fc.plantAgeMonths = intRef(plantAgeMonths(*farm.FarmStartDate, s.now().UTC()))
	}

	return fc, nil
}

// plantAgeMonths computes elapsed whole months between the start date and
// now, ignoring day-of-month and clamping negative results to zero.
func plantAgeMonths(start, now time.Time) int {
	start = start.Truncate(24 * time.Hour)
	months := (now.Year()-start.Year())*12 + int(now.Month()) - int(start.Month())
	if months < 0 {
		months = 0
	}
	return months
}

// buildUserPrompt renders the knowledge block followed by the question.
// Low-confidence entries carry an explicit general-guideline annotation.
func buildUserPrompt(entries []models.PepperKnowledge, message string) string {
	var sb strings.Builder
	for _, entry := range entries {
		sb.WriteString("- " + entry.Content + "\n")
		if entry.ConfidenceLevel == models.ConfidenceLow {
			sb.WriteString("  (Note: General guideline only)\n")
		}
	}

	return fmt.Sprintf("Knowledge:\n%s\nQuestion:\n%s", sb.String(), message)
}

// distinctTitles returns the retrieved titles de-duplicated in first-seen
// order
func distinctTitles(entries []models.PepperKnowledge) []string {
	seen := make(map[string]bool, len(entries))
	titles := make([]string, 0, len(entries))
	for _, entry := range entries {
		if seen[entry.Title] {
			continue
		}
		seen[entry.Title] = true
		titles = append(titles, entry.Title)
	}
	return titles
}

func intRef(v int) *int { return &v }
