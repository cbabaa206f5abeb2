package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFilterClausesFullContext(t *testing.T) {
	filter := SearchFilter{
		DistrictName:   strPtr("Matale"),
		VarietyName:    "Panniyur 1",
		PlantAgeMonths: intPtr(14),
		CurrentMonth:   6,
	}

	clauses, args := buildFilterClauses(filter, 2)

	require.Len(t, clauses, 5)
	assert.Equal(t, "(district IS NULL OR district = $2)", clauses[0])
	assert.Equal(t, "(variety IS NULL OR variety = $3)", clauses[1])
	assert.Equal(t, "(plant_age_min IS NULL OR plant_age_min <= $4)", clauses[2])
	assert.Equal(t, "(plant_age_max IS NULL OR plant_age_max >= $5)", clauses[3])
	assert.Equal(t, "(month_start IS NULL OR month_end IS NULL OR $6 BETWEEN month_start AND month_end)", clauses[4])
	assert.Equal(t, []interface{}{"Matale", "Panniyur 1", 14, 6}, args)
}

func TestBuildFilterClausesEmptyContext(t *testing.T) {
	filter := SearchFilter{
		VarietyName:  "Local",
		CurrentMonth: 3,
	}

	clauses, args := buildFilterClauses(filter, 2)

	require.Len(t, clauses, 5)
	assert.Equal(t, "district IS NULL", clauses[0])
	assert.Equal(t, "(variety IS NULL OR variety = $2)", clauses[1])
	assert.Equal(t, "plant_age_min IS NULL", clauses[2])
	assert.Equal(t, "plant_age_max IS NULL", clauses[3])
	assert.Equal(t, "(month_start IS NULL OR month_end IS NULL OR $3 BETWEEN month_start AND month_end)", clauses[4])
	assert.Equal(t, []interface{}{"Local", 3}, args)
}

func TestBuildFilterClausesJoinable(t *testing.T) {
	clauses, _ := buildFilterClauses(SearchFilter{VarietyName: "Local", CurrentMonth: 1}, 2)
	where := strings.Join(clauses, " AND ")
	assert.NotContains(t, where, "$1", "placeholder $1 is reserved for the query embedding")
}
