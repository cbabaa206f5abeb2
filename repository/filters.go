package repository

import (
	"pepperfarm-backend/models"
)

// knowledgeFilters is the ordered list of hard applicability rules. A
// candidate must pass every rule before it becomes eligible for similarity
// ranking. Each rule is permissive when the entry leaves its constraint
// unset; the age rules additionally require actual plant age data whenever
// the entry declares a bound.
var knowledgeFilters = []struct {
	name  string
	match func(k *models.PepperKnowledge, f SearchFilter) bool
}{
	{"district", matchDistrict},
	{"variety", matchVariety},
	{"plant-age-min", matchPlantAgeMin},
	{"plant-age-max", matchPlantAgeMax},
	{"season", matchSeason},
}

// matchesAllFilters folds the rule list with logical AND
func matchesAllFilters(k *models.PepperKnowledge, f SearchFilter) bool {
	for _, rule := range knowledgeFilters {
		if !rule.match(k, f) {
			return false
		}
	}
	return true
}

func matchDistrict(k *models.PepperKnowledge, f SearchFilter) bool {
	if k.District == nil {
		return true
	}
	return f.DistrictName != nil && *k.District == *f.DistrictName
}

func matchVariety(k *models.PepperKnowledge, f SearchFilter) bool {
	return k.Variety == nil || *k.Variety == f.VarietyName
}

func matchPlantAgeMin(k *models.PepperKnowledge, f SearchFilter) bool {
	if k.PlantAgeMin == nil {
		return true
	}
	return f.PlantAgeMonths != nil && *k.PlantAgeMin <= *f.PlantAgeMonths
}

func matchPlantAgeMax(k *models.PepperKnowledge, f SearchFilter) bool {
	if k.PlantAgeMax == nil {
		return true
	}
	return f.PlantAgeMonths != nil && *k.PlantAgeMax >= *f.PlantAgeMonths
}

// matchSeason treats the month window as a plain inclusive range. Windows
// that wrap across year-end (e.g. start=11, end=2) never match; curators
// split such windows into two entries.
func matchSeason(k *models.PepperKnowledge, f SearchFilter) bool {
	if k.MonthStart == nil || k.MonthEnd == nil {
		return true
	}
	return f.CurrentMonth >= *k.MonthStart && f.CurrentMonth <= *k.MonthEnd
}
