package models

import (
	"github.com/google/uuid"
)

// Knowledge confidence levels. Low-confidence entries are surfaced to the
// model with an explicit "general guideline" annotation.
const (
	ConfidenceHigh = "High"
	ConfidenceLow  = "Low"
)

// PepperKnowledge represents a curated unit of black pepper farming
// knowledge. The applicability fields are constraints: a nil field means the
// entry applies universally on that axis. Month bounds are an inclusive 1-12
// window; windows that wrap across year-end are not supported.
type PepperKnowledge struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	ConfidenceLevel string    `json:"confidence_level"`
	District        *string   `json:"district,omitempty"`
	Variety         *string   `json:"variety,omitempty"`
	PlantAgeMin     *int      `json:"plant_age_min,omitempty"`
	PlantAgeMax     *int      `json:"plant_age_max,omitempty"`
	MonthStart      *int      `json:"month_start,omitempty"`
	MonthEnd        *int      `json:"month_end,omitempty"`
	SourceDocument  string    `json:"source_document,omitempty"`
	Embedding       []float32 `json:"-"`
	Distance        float64   `json:"distance,omitempty"` // Vector similarity distance
}
