package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pepperfarm-backend/models"
	"pepperfarm-backend/repository"
)

type stubEmbedder struct {
	vector []float32
	err    error
}

func (e *stubEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.vector, nil
}

type fakeFarmLookup struct {
	farms map[uuid.UUID]*models.Farm
	err   error
}

func (f *fakeFarmLookup) GetByID(ctx context.Context, id uuid.UUID) (*models.Farm, error) {
	if f.err != nil {
		return nil, f.err
	}
	farm, ok := f.farms[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return farm, nil
}

// recordingGenerator captures the prompts it is invoked with
type recordingGenerator struct {
	calls             int
	systemInstruction string
	userPrompt        string
	reply             string
	err               error
}

func (g *recordingGenerator) Generate(ctx context.Context, systemInstruction, userPrompt string) (string, error) {
	g.calls++
	g.systemInstruction = systemInstruction
	g.userPrompt = userPrompt
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

func newTestChatService(store repository.KnowledgeStore, opts ...ChatServiceOption) *ChatService {
	retrieval := NewRetrievalService(
		RetrievalWithDistrictLookup(&fakeDistrictLookup{districts: map[int]*models.District{
			3: {ID: 3, Name: "Matale", Province: "Central"},
		}}),
		RetrievalWithVarietyLookup(&fakeVarietyLookup{varieties: map[string]*models.PepperVariety{
			"pw-14": {ID: "pw-14", Name: "Panniyur-1"},
		}}),
		RetrievalWithKnowledgeStore(store),
		RetrievalWithClock(fixedClock(time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC))),
	)

	base := []ChatServiceOption{
		ChatWithEmbeddingService(&stubEmbedder{vector: []float32{1, 0}}),
		ChatWithRetrievalService(retrieval),
		ChatWithClock(fixedClock(time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC))),
	}
	return NewChatService(append(base, opts...)...)
}

func universalEntry(title, content string) models.PepperKnowledge {
	return models.PepperKnowledge{
		ID:              uuid.New(),
		Title:           title,
		Content:         content,
		ConfidenceLevel: models.ConfidenceHigh,
		Embedding:       []float32{1, 0},
	}
}

func TestProcessMessageFallbackWhenNothingRetrieved(t *testing.T) {
	gen := &recordingGenerator{reply: "should not appear"}
	svc := newTestChatService(repository.NewMemoryKnowledgeStore(), ChatWithGenerator(gen))

	result, err := svc.ProcessMessage(context.Background(), ProcessMessageRequest{
		Message: "How do I treat quick wilt?",
	})
	require.NoError(t, err)

	assert.Equal(t, "No official recommendation available for this condition.", result.Response.Reply)
	assert.Equal(t, []string{}, result.Response.Sources)
	assert.Zero(t, gen.calls, "model must not be invoked when retrieval is empty")
}

func TestProcessMessageUnavailableWithoutClient(t *testing.T) {
	store := repository.NewMemoryKnowledgeStore(universalEntry("Wilt control", "Apply Bordeaux mixture."))
	svc := newTestChatService(store)

	require.False(t, svc.HasClient())

	result, err := svc.ProcessMessage(context.Background(), ProcessMessageRequest{
		Message: "How do I treat quick wilt?",
	})
	require.NoError(t, err)

	assert.Equal(t, "AI Service is currently unavailable (API Key missing).", result.Response.Reply)
	assert.Equal(t, []string{}, result.Response.Sources)
}

func TestProcessMessageGeneratesGroundedReply(t *testing.T) {
	store := repository.NewMemoryKnowledgeStore(
		universalEntry("Wilt control", "Apply Bordeaux mixture to affected vines."),
	)
	gen := &recordingGenerator{reply: "Apply Bordeaux mixture to the affected vines."}
	svc := newTestChatService(store, ChatWithGenerator(gen))

	result, err := svc.ProcessMessage(context.Background(), ProcessMessageRequest{
		Message: "How do I treat quick wilt?",
	})
	require.NoError(t, err)

	assert.Equal(t, "Apply Bordeaux mixture to the affected vines.", result.Response.Reply)
	assert.Equal(t, []string{"Wilt control"}, result.Response.Sources)
	assert.Equal(t, 1, gen.calls)
}

func TestProcessMessageSystemInstruction(t *testing.T) {
	store := repository.NewMemoryKnowledgeStore(universalEntry("Wilt control", "Apply Bordeaux mixture."))
	gen := &recordingGenerator{reply: "ok"}
	svc := newTestChatService(store, ChatWithGenerator(gen))

	_, err := svc.ProcessMessage(context.Background(), ProcessMessageRequest{Message: "q"})
	require.NoError(t, err)

	want := `You are a Sri Lankan black pepper farming assistant.

Rules:
- Use ONLY the provided knowledge
- Do NOT use external knowledge
- Do NOT guess or generalize
- If information is missing, say EXACTLY:
  'No official recommendation available for this condition.'
- Keep answers short, practical, and farmer-friendly`
	assert.Equal(t, want, gen.systemInstruction)
}

func TestProcessMessageUserPromptLayout(t *testing.T) {
	high := universalEntry("Mulching", "Mulch the vine base before the dry season.")
	low := universalEntry("Spacing", "Keep 2.5m between standards.")
	low.ConfidenceLevel = models.ConfidenceLow
	low.Embedding = []float32{0.9, 0.1}

	store := repository.NewMemoryKnowledgeStore(high, low)
	gen := &recordingGenerator{reply: "ok"}
	svc := newTestChatService(store, ChatWithGenerator(gen))

	_, err := svc.ProcessMessage(context.Background(), ProcessMessageRequest{
		Message: "How should I prepare for the dry season?",
	})
	require.NoError(t, err)

	want := "Knowledge:\n" +
		"- Mulch the vine base before the dry season.\n" +
		"- Keep 2.5m between standards.\n" +
		"  (Note: General guideline only)\n" +
		"\nQuestion:\nHow should I prepare for the dry season?"
	assert.Equal(t, want, gen.userPrompt)
}

func TestProcessMessageDeduplicatesSources(t *testing.T) {
	a := universalEntry("Wilt control", "Drench the collar region.")
	b := universalEntry("Wilt control", "Remove and burn dead vines.")
	b.Embedding = []float32{0.9, 0.1}
	c := universalEntry("Drainage", "Open drains before monsoon.")
	c.Embedding = []float32{0.8, 0.2}

	store := repository.NewMemoryKnowledgeStore(a, b, c)
	gen := &recordingGenerator{reply: "ok"}
	svc := newTestChatService(store, ChatWithGenerator(gen))

	result, err := svc.ProcessMessage(context.Background(), ProcessMessageRequest{Message: "wilt?"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Wilt control", "Drainage"}, result.Response.Sources)
}

func TestProcessMessageAppliesFarmContext(t *testing.T) {
	farmID := uuid.New()
	start := time.Date(2023, time.January, 10, 0, 0, 0, 0, time.UTC)
	districtID := 3
	varietyID := "pw-14"
	farms := &fakeFarmLookup{farms: map[uuid.UUID]*models.Farm{
		farmID: {
			ID:              farmID,
			Name:            "Hill plot",
			DistrictID:      &districtID,
			ChosenVarietyID: &varietyID,
			FarmStartDate:   &start,
		},
	}}

	// Applies only to 14-month-old plantings; the clock fixes the age at
	// exactly 14 months.
	aged := universalEntry("Training", "Tie young vines to the standard.")
	aged.PlantAgeMin = intRef(14)
	aged.PlantAgeMax = intRef(14)

	other := universalEntry("Mature pruning", "Prune after harvest.")
	other.PlantAgeMin = intRef(36)

	store := repository.NewMemoryKnowledgeStore(aged, other)
	gen := &recordingGenerator{reply: "ok"}
	svc := newTestChatService(store, ChatWithGenerator(gen), ChatWithFarmLookup(farms))

	result, err := svc.ProcessMessage(context.Background(), ProcessMessageRequest{
		Message:      "What should I do this month?",
		ActiveFarmID: &farmID,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Training"}, result.Response.Sources)
}

func TestProcessMessageNoStartDateExcludesAgeBoundEntries(t *testing.T) {
	farmID := uuid.New()
	farms := &fakeFarmLookup{farms: map[uuid.UUID]*models.Farm{
		farmID: {ID: farmID, Name: "New plot"},
	}}

	aged := universalEntry("Training", "Tie young vines to the standard.")
	aged.PlantAgeMin = intRef(6)

	store := repository.NewMemoryKnowledgeStore(aged)
	gen := &recordingGenerator{reply: "should not appear"}
	svc := newTestChatService(store, ChatWithGenerator(gen), ChatWithFarmLookup(farms))

	result, err := svc.ProcessMessage(context.Background(), ProcessMessageRequest{
		Message:      "What should I do this month?",
		ActiveFarmID: &farmID,
	})
	require.NoError(t, err)

	assert.Equal(t, FallbackReply, result.Response.Reply)
	assert.Zero(t, gen.calls)
}

func TestProcessMessageUnknownFarmYieldsEmptyContext(t *testing.T) {
	missing := uuid.New()
	farms := &fakeFarmLookup{farms: map[uuid.UUID]*models.Farm{}}

	scoped := universalEntry("Matale advisory", "District-specific note.")
	scoped.District = strRef("Matale")
	universal := universalEntry("General care", "Water twice a week.")
	universal.Embedding = []float32{0.9, 0.1}

	store := repository.NewMemoryKnowledgeStore(scoped, universal)
	gen := &recordingGenerator{reply: "ok"}
	svc := newTestChatService(store, ChatWithGenerator(gen), ChatWithFarmLookup(farms))

	result, err := svc.ProcessMessage(context.Background(), ProcessMessageRequest{
		Message:      "Any advice?",
		ActiveFarmID: &missing,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"General care"}, result.Response.Sources)
}

func TestProcessMessageNoFarmSelected(t *testing.T) {
	scoped := universalEntry("Matale advisory", "District-specific note.")
	scoped.District = strRef("Matale")
	universal := universalEntry("General care", "Water twice a week.")
	universal.Embedding = []float32{0.9, 0.1}

	store := repository.NewMemoryKnowledgeStore(scoped, universal)
	gen := &recordingGenerator{reply: "ok"}
	svc := newTestChatService(store, ChatWithGenerator(gen))

	result, err := svc.ProcessMessage(context.Background(), ProcessMessageRequest{Message: "Any advice?"})
	require.NoError(t, err)

	assert.Equal(t, []string{"General care"}, result.Response.Sources)
}

func TestProcessMessageEmbedderFailure(t *testing.T) {
	svc := newTestChatService(
		repository.NewMemoryKnowledgeStore(),
		ChatWithEmbeddingService(&stubEmbedder{err: errors.New("quota exceeded")}),
	)

	_, err := svc.ProcessMessage(context.Background(), ProcessMessageRequest{Message: "q"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmbeddingFailed)
}

func TestProcessMessageGeneratorFailure(t *testing.T) {
	store := repository.NewMemoryKnowledgeStore(universalEntry("Wilt control", "Apply Bordeaux mixture."))
	gen := &recordingGenerator{err: errors.New("model overloaded")}
	svc := newTestChatService(store, ChatWithGenerator(gen))

	_, err := svc.ProcessMessage(context.Background(), ProcessMessageRequest{Message: "q"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestPlantAgeMonths(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		now   time.Time
		want  int
	}{
		{
			"fourteen months ignoring days",
			time.Date(2023, time.January, 10, 0, 0, 0, 0, time.UTC),
			time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
			14,
		},
		{
			"same month",
			time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC),
			0,
		},
		{
			"day of month is ignored",
			time.Date(2024, time.February, 28, 0, 0, 0, 0, time.UTC),
			time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
			1,
		},
		{
			"future start clamps to zero",
			time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, plantAgeMonths(tt.start, tt.now))
		})
	}
}
