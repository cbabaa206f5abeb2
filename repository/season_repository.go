package repository

import (
	"context"

	"pepperfarm-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SeasonRepository handles database operations for harvest seasons
type SeasonRepository struct {
	db *pgxpool.Pool
}

// NewSeasonRepository creates a new season repository
func NewSeasonRepository(db *pgxpool.Pool) *SeasonRepository {
	return &SeasonRepository{db: db}
}

// Create records a harvest season for a farm
func (r *SeasonRepository) Create(ctx context.Context, season *models.HarvestSeason) error {
	query := `
		INSERT INTO harvest_seasons (
			farm_id, season_name, start_month, start_year, end_month, end_year, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRow(
		ctx, query,
		season.FarmID,
		season.SeasonName,
		season.StartMonth,
		season.StartYear,
		season.EndMonth,
		season.EndYear,
		season.CreatedBy,
	).Scan(&season.ID, &season.CreatedAt)

	return err
}

// ListByFarmID retrieves all harvest seasons recorded for a farm, most
// recent first
func (r *SeasonRepository) ListByFarmID(ctx context.Context, farmID uuid.UUID) ([]*models.HarvestSeason, error) {
	query := `
		SELECT id, farm_id, season_name, start_month, start_year, end_month, end_year,
			created_by, created_at
		FROM harvest_seasons
		WHERE farm_id = $1
		ORDER BY start_year DESC, start_month DESC`

	rows, err := r.db.Query(ctx, query, farmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seasons []*models.HarvestSeason
	for rows.Next() {
		season := &models.HarvestSeason{}
		err := rows.Scan(
			&season.ID,
			&season.FarmID,
			&season.SeasonName,
			&season.StartMonth,
			&season.StartYear,
			&season.EndMonth,
			&season.EndYear,
			&season.CreatedBy,
			&season.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		seasons = append(seasons, season)
	}

	return seasons, rows.Err()
}
