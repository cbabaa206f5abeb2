package models

import (
	"time"

	"github.com/google/uuid"
)

// HarvestSeason represents a recorded harvest window for a farm
type HarvestSeason struct {
	ID         uuid.UUID `json:"id"`
	FarmID     uuid.UUID `json:"farm_id"`
	SeasonName string    `json:"season_name"`
	StartMonth int       `json:"start_month"`
	StartYear  int       `json:"start_year"`
	EndMonth   int       `json:"end_month"`
	EndYear    int       `json:"end_year"`
	CreatedBy  uuid.UUID `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
}
