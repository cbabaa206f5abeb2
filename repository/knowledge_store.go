package repository

import (
	"context"

	"pepperfarm-backend/models"
)

const (
	// EmbeddingDim is the dimensionality of knowledge embeddings
	EmbeddingDim = 768

	// SearchLimit caps the number of knowledge entries returned per query
	SearchLimit = 5
)

// SearchFilter carries the resolved query context the hard applicability
// filters run against. DistrictName and PlantAgeMonths may be absent;
// VarietyName is always set (the "Local" fallback applies upstream).
type SearchFilter struct {
	DistrictName   *string
	VarietyName    string
	PlantAgeMonths *int
	CurrentMonth   int // 1-12
}

// KnowledgeStore is a queryable collection of pepper knowledge supporting
// attribute filtering combined with nearest-neighbor ranking. Search returns
// at most SearchLimit entries ordered by ascending distance to the query
// embedding; an empty result is a valid outcome, not an error.
type KnowledgeStore interface {
	Search(ctx context.Context, embedding []float32, filter SearchFilter) ([]models.PepperKnowledge, error)
}
