package repository

import (
	"context"
	"fmt"

	"pepperfarm-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FarmRepository handles database operations for farms
type FarmRepository struct {
	db *pgxpool.Pool
}

// NewFarmRepository creates a new farm repository
func NewFarmRepository(db *pgxpool.Pool) *FarmRepository {
	return &FarmRepository{db: db}
}

// Create creates a new farm
func (r *FarmRepository) Create(ctx context.Context, farm *models.Farm) error {
	query := `
		INSERT INTO farms (
			user_id, name, district_id, chosen_variety_id, farm_start_date,
			area_hectares, vine_count
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		) RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		farm.UserID,
		farm.Name,
		farm.DistrictID,
		farm.ChosenVarietyID,
		farm.FarmStartDate,
		farm.AreaHectares,
		farm.VineCount,
	).Scan(&farm.ID, &farm.CreatedAt, &farm.UpdatedAt)

	return err
}

// GetByID retrieves a farm by ID. Returns ErrNotFound when the ID is
// unknown.
func (r *FarmRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Farm, error) {
	farm := &models.Farm{}
	query := `
		SELECT id, user_id, name, district_id, chosen_variety_id, farm_start_date,
			area_hectares, vine_count, created_at, updated_at
		FROM farms
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&farm.ID,
		&farm.UserID,
		&farm.Name,
		&farm.DistrictID,
		&farm.ChosenVarietyID,
		&farm.FarmStartDate,
		&farm.AreaHectares,
		&farm.VineCount,
		&farm.CreatedAt,
		&farm.UpdatedAt,
	)
	if err != nil {
		return nil, mapNoRows(err)
	}

	return farm, nil
}

// Update updates a farm
func (r *FarmRepository) Update(ctx context.Context, farm *models.Farm) error {
	query := `
		UPDATE farms SET
			name = $2,
			district_id = $3,
			chosen_variety_id = $4,
			farm_start_date = $5,
			area_hectares = $6,
			vine_count = $7,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(
		ctx, query,
		farm.ID,
		farm.Name,
		farm.DistrictID,
		farm.ChosenVarietyID,
		farm.FarmStartDate,
		farm.AreaHectares,
		farm.VineCount,
	).Scan(&farm.UpdatedAt)

	return mapNoRows(err)
}

// ListByUserID retrieves all farms owned by a user
func (r *FarmRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Farm, error) {
	query := `
		SELECT id, user_id, name, district_id, chosen_variety_id, farm_start_date,
			area_hectares, vine_count, created_at, updated_at
		FROM farms
		WHERE user_id = $1
		ORDER BY created_at DESC`

	args := []interface{}{userID}
	argIndex := 2

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, limit)
		argIndex++
		if offset > 0 {
			query += fmt.Sprintf(" OFFSET $%d", argIndex)
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var farms []*models.Farm
	for rows.Next() {
		farm := &models.Farm{}
		err := rows.Scan(
			&farm.ID,
			&farm.UserID,
			&farm.Name,
			&farm.DistrictID,
			&farm.ChosenVarietyID,
			&farm.FarmStartDate,
			&farm.AreaHectares,
			&farm.VineCount,
			&farm.CreatedAt,
			&farm.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		farms = append(farms, farm)
	}

	return farms, rows.Err()
}

// Delete deletes a farm. Returns ErrNotFound when no row matches.
func (r *FarmRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM farms WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
