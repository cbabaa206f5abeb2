package repository

import (
	"context"
	"fmt"
	"testing"

	"pepperfarm-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// vec builds a 3-dimensional embedding for ranking tests
func vec(x, y, z float32) []float32 { return []float32{x, y, z} }

func TestMemoryStoreRanksByDistance(t *testing.T) {
	store := NewMemoryKnowledgeStore(
		models.PepperKnowledge{Title: "far", Embedding: vec(10, 0, 0)},
		models.PepperKnowledge{Title: "near", Embedding: vec(1, 0, 0)},
		models.PepperKnowledge{Title: "middle", Embedding: vec(5, 0, 0)},
	)

	results, err := store.Search(context.Background(), vec(0, 0, 0), SearchFilter{VarietyName: "Local", CurrentMonth: 6})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "near", results[0].Title)
	assert.Equal(t, "middle", results[1].Title)
	assert.Equal(t, "far", results[2].Title)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i-1].Distance, results[i].Distance)
	}
}

func TestMemoryStoreLimitsResults(t *testing.T) {
	store := NewMemoryKnowledgeStore()
	for i := 0; i < SearchLimit+3; i++ {
		store.Add(models.PepperKnowledge{
			Title:     fmt.Sprintf("entry %d", i),
			Embedding: vec(float32(i), 0, 0),
		})
	}

	results, err := store.Search(context.Background(), vec(0, 0, 0), SearchFilter{VarietyName: "Local", CurrentMonth: 1})
	require.NoError(t, err)
	assert.Len(t, results, SearchLimit)
	// Closest entries survive the cut
	assert.Equal(t, "entry 0", results[0].Title)
}

func TestMemoryStoreTiesKeepInsertionOrder(t *testing.T) {
	store := NewMemoryKnowledgeStore(
		models.PepperKnowledge{Title: "first", Embedding: vec(1, 0, 0)},
		models.PepperKnowledge{Title: "second", Embedding: vec(0, 1, 0)},
	)

	results, err := store.Search(context.Background(), vec(0, 0, 0), SearchFilter{VarietyName: "Local", CurrentMonth: 1})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "first", results[0].Title)
	assert.Equal(t, "second", results[1].Title)
}

func TestMemoryStoreAppliesHardFiltersBeforeRanking(t *testing.T) {
	// The nearest entry is variety-bound and must be excluded even though it
	// would win on distance alone.
	store := NewMemoryKnowledgeStore(
		models.PepperKnowledge{Title: "hybrid only", Variety: strPtr("Hybrid"), Embedding: vec(0, 0, 0)},
		models.PepperKnowledge{Title: "anyone", Embedding: vec(4, 0, 0)},
	)

	results, err := store.Search(context.Background(), vec(0, 0, 0), SearchFilter{VarietyName: "Local", CurrentMonth: 1})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "anyone", results[0].Title)
}

func TestMemoryStoreAgeBoundExclusions(t *testing.T) {
	bearing := models.PepperKnowledge{Title: "bearing vines", PlantAgeMin: intPtr(6), Embedding: vec(0, 0, 0)}
	store := NewMemoryKnowledgeStore(bearing)

	tests := []struct {
		name     string
		age      *int
		expected int
	}{
		{"age unset excludes age-bound entry", nil, 0},
		{"age below bound", intPtr(5), 0},
		{"age at bound", intPtr(6), 1},
		{"age above bound", intPtr(14), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := store.Search(context.Background(), vec(0, 0, 0), SearchFilter{
				VarietyName:    "Local",
				PlantAgeMonths: tt.age,
				CurrentMonth:   1,
			})
			require.NoError(t, err)
			assert.Len(t, results, tt.expected)
		})
	}
}

func TestMemoryStoreEmptyResultIsNotAnError(t *testing.T) {
	store := NewMemoryKnowledgeStore(
		models.PepperKnowledge{Title: "kandy only", District: strPtr("Kandy"), Embedding: vec(0, 0, 0)},
	)

	results, err := store.Search(context.Background(), vec(0, 0, 0), SearchFilter{
		DistrictName: strPtr("Matale"),
		VarietyName:  "Local",
		CurrentMonth: 1,
	})
	require.NoError(t, err)
	assert.Empty(t, results)
}
