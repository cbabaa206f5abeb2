package repository

import (
	"context"

	"pepperfarm-backend/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// VarietyRepository handles database operations for pepper varieties
type VarietyRepository struct {
	db *pgxpool.Pool
}

// NewVarietyRepository creates a new variety repository
func NewVarietyRepository(db *pgxpool.Pool) *VarietyRepository {
	return &VarietyRepository{db: db}
}

// GetByID retrieves a pepper variety by ID. Returns ErrNotFound when the ID
// is unknown.
func (r *VarietyRepository) GetByID(ctx context.Context, id string) (*models.PepperVariety, error) {
	variety := &models.PepperVariety{}
	query := `SELECT id, name, description, maturity_months FROM pepper_varieties WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&variety.ID,
		&variety.Name,
		&variety.Description,
		&variety.MaturityMonths,
	)
	if err != nil {
		return nil, mapNoRows(err)
	}

	return variety, nil
}

// List retrieves all pepper varieties ordered by name
func (r *VarietyRepository) List(ctx context.Context) ([]*models.PepperVariety, error) {
	query := `SELECT id, name, description, maturity_months FROM pepper_varieties ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var varieties []*models.PepperVariety
	for rows.Next() {
		variety := &models.PepperVariety{}
		if err := rows.Scan(&variety.ID, &variety.Name, &variety.Description, &variety.MaturityMonths); err != nil {
			return nil, err
		}
		varieties = append(varieties, variety)
	}

	return varieties, rows.Err()
}
