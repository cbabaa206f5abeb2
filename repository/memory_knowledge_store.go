package repository

import (
	"context"
	"math"
	"sort"

	"pepperfarm-backend/models"
)

// MemoryKnowledgeStore is an in-memory KnowledgeStore. It applies the same
// filter rules as the pgvector store and ranks by exact L2 distance. Used in
// tests and for running the server without a seeded database.
type MemoryKnowledgeStore struct {
	entries []models.PepperKnowledge
}

// NewMemoryKnowledgeStore creates a store holding the given entries
func NewMemoryKnowledgeStore(entries ...models.PepperKnowledge) *MemoryKnowledgeStore {
	return &MemoryKnowledgeStore{entries: entries}
}

// Add appends an entry to the store
func (s *MemoryKnowledgeStore) Add(entry models.PepperKnowledge) {
	s.entries = append(s.entries, entry)
}

// Search filters the collection, ranks survivors by ascending L2 distance to
// the query embedding and returns at most SearchLimit entries. Ties keep
// insertion order.
func (s *MemoryKnowledgeStore) Search(ctx context.Context, embedding []float32, filter SearchFilter) ([]models.PepperKnowledge, error) {
	var candidates []models.PepperKnowledge
	for i := range s.entries {
		entry := s.entries[i]
		if !matchesAllFilters(&entry, filter) {
			continue
		}
		entry.Distance = l2Distance(embedding, entry.Embedding)
		candidates = append(candidates, entry)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Distance < candidates[j].Distance
	})

	if len(candidates) > SearchLimit {
		candidates = candidates[:SearchLimit]
	}

	return candidates, nil
}

// l2Distance computes the Euclidean distance between two vectors. Length
// mismatches rank last rather than erroring.
func l2Distance(a, b []float32) float64 {
	if len(a) != len(b) {
		return math.MaxFloat64
	}
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
