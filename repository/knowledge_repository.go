package repository

import (
	"context"
	"fmt"
	"strings"

	"pepperfarm-backend/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// KnowledgeRepository is the pgvector-backed KnowledgeStore. Filtering
// happens inside the query so only eligible rows are ranked: filter first,
// rank second, limit third.
type KnowledgeRepository struct {
	db *pgxpool.Pool
}

// NewKnowledgeRepository creates a new knowledge repository
func NewKnowledgeRepository(db *pgxpool.Pool) *KnowledgeRepository {
	return &KnowledgeRepository{db: db}
}

// buildFilterClauses renders the hard applicability rules as SQL predicates.
// The clause list mirrors knowledgeFilters rule for rule: district, variety,
// plant-age-min, plant-age-max, season. startIndex is the first free
// placeholder position ($1 is reserved for the query embedding).
func buildFilterClauses(f SearchFilter, startIndex int) ([]string, []interface{}) {
	var clauses []string
	var args []interface{}
	bind := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", startIndex+len(args)-1)
	}

	// district: entries without a district apply everywhere; district-bound
	// entries need a matching query district
	if f.DistrictName != nil {
		clauses = append(clauses, fmt.Sprintf("(district IS NULL OR district = %s)", bind(*f.DistrictName)))
	} else {
		clauses = append(clauses, "district IS NULL")
	}

	// variety: the query side always carries a variety ("Local" fallback)
	clauses = append(clauses, fmt.Sprintf("(variety IS NULL OR variety = %s)", bind(f.VarietyName)))

	// plant-age-min / plant-age-max: age-bound entries require actual age data
	if f.PlantAgeMonths != nil {
		clauses = append(clauses, fmt.Sprintf("(plant_age_min IS NULL OR plant_age_min <= %s)", bind(*f.PlantAgeMonths)))
		clauses = append(clauses, fmt.Sprintf("(plant_age_max IS NULL OR plant_age_max >= %s)", bind(*f.PlantAgeMonths)))
	} else {
		clauses = append(clauses, "plant_age_min IS NULL", "plant_age_max IS NULL")
	}

	// season: inclusive month window, both bounds required to constrain
	clauses = append(clauses, fmt.Sprintf("(month_start IS NULL OR month_end IS NULL OR %s BETWEEN month_start AND month_end)", bind(f.CurrentMonth)))

	return clauses, args
}

// Search performs a filtered nearest-neighbor query over the knowledge
// collection, ordered by L2 distance to the query embedding.
func (r *KnowledgeRepository) Search(ctx context.Context, embedding []float32, filter SearchFilter) ([]models.PepperKnowledge, error) {
	if len(embedding) != EmbeddingDim {
		return nil, fmt.Errorf("embedding must be %d dimensions, got %d", EmbeddingDim, len(embedding))
	}

	clauses, filterArgs := buildFilterClauses(filter, 2)

	query := fmt.Sprintf(`
		SELECT
			id,
			title,
			content,
			confidence_level,
			district,
			variety,
			plant_age_min,
			plant_age_max,
			month_start,
			month_end,
			source_document,
			embedding <-> $1 AS distance
		FROM pepper_knowledge
		WHERE %s
		ORDER BY embedding <-> $1
		LIMIT %d`, strings.Join(clauses, "\n\t\t\tAND "), SearchLimit)

	args := append([]interface{}{pgvector.NewVector(embedding)}, filterArgs...)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pepper knowledge: %w", err)
	}
	defer rows.Close()

	var entries []models.PepperKnowledge
	for rows.Next() {
		var entry models.PepperKnowledge
		err := rows.Scan(
			&entry.ID,
			&entry.Title,
			&entry.Content,
			&entry.ConfidenceLevel,
			&entry.District,
			&entry.Variety,
			&entry.PlantAgeMin,
			&entry.PlantAgeMax,
			&entry.MonthStart,
			&entry.MonthEnd,
			&entry.SourceDocument,
			&entry.Distance,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pepper knowledge: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pepper knowledge: %w", err)
	}

	return entries, nil
}

// Insert stores a knowledge entry with its embedding. Used by the ingestion
// tool.
func (r *KnowledgeRepository) Insert(ctx context.Context, entry *models.PepperKnowledge) error {
	if len(entry.Embedding) != EmbeddingDim {
		return fmt.Errorf("embedding must be %d dimensions, got %d", EmbeddingDim, len(entry.Embedding))
	}

	query := `
		INSERT INTO pepper_knowledge (
			title, content, confidence_level, district, variety,
			plant_age_min, plant_age_max, month_start, month_end,
			source_document, embedding
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	err := r.db.QueryRow(
		ctx, query,
		entry.Title,
		entry.Content,
		entry.ConfidenceLevel,
		entry.District,
		entry.Variety,
		entry.PlantAgeMin,
		entry.PlantAgeMax,
		entry.MonthStart,
		entry.MonthEnd,
		entry.SourceDocument,
		pgvector.NewVector(entry.Embedding),
	).Scan(&entry.ID)

	return err
}

// CountBySourceDocument reports how many entries were ingested from a given
// source document, so re-runs of the ingestion tool can skip it.
func (r *KnowledgeRepository) CountBySourceDocument(ctx context.Context, sourceDocument string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM pepper_knowledge WHERE source_document = $1",
		sourceDocument,
	).Scan(&count)
	return count, err
}
