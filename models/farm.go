package models

import (
	"time"

	"github.com/google/uuid"
)

// Farm represents a registered pepper farm
type Farm struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	Name            string     `json:"name"`
	DistrictID      *int       `json:"district_id,omitempty"`
	ChosenVarietyID *string    `json:"chosen_variety_id,omitempty"`
	FarmStartDate   *time.Time `json:"farm_start_date,omitempty"`
	AreaHectares    *float64   `json:"area_hectares,omitempty"`
	VineCount       *int       `json:"vine_count,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
