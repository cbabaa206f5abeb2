package repository

import (
	"context"

	"pepperfarm-backend/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DistrictRepository handles database operations for districts
type DistrictRepository struct {
	db *pgxpool.Pool
}

// NewDistrictRepository creates a new district repository
func NewDistrictRepository(db *pgxpool.Pool) *DistrictRepository {
	return &DistrictRepository{db: db}
}

// GetByID retrieves a district by ID. Returns ErrNotFound when the ID is
// unknown.
func (r *DistrictRepository) GetByID(ctx context.Context, id int) (*models.District, error) {
	district := &models.District{}
	query := `SELECT id, name, province FROM districts WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&district.ID,
		&district.Name,
		&district.Province,
	)
	if err != nil {
		return nil, mapNoRows(err)
	}

	return district, nil
}

// List retrieves all districts ordered by name
func (r *DistrictRepository) List(ctx context.Context) ([]*models.District, error) {
	query := `SELECT id, name, province FROM districts ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var districts []*models.District
	for rows.Next() {
		district := &models.District{}
		if err := rows.Scan(&district.ID, &district.Name, &district.Province); err != nil {
			return nil, err
		}
		districts = append(districts, district)
	}

	return districts, rows.Err()
}
