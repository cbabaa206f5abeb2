package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pepperfarm-backend/repository"
)

func TestRecordSeasonRejectsOutOfRangeMonths(t *testing.T) {
	svc := NewFarmService(
		FarmWithFarmRepository(repository.NewFarmRepository(nil)),
		FarmWithSeasonRepository(repository.NewSeasonRepository(nil)),
	)

	tests := []struct {
		name       string
		startMonth int
		endMonth   int
	}{
		{"start month zero", 0, 6},
		{"start month thirteen", 13, 6},
		{"end month zero", 3, 0},
		{"end month thirteen", 3, 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RecordSeason(context.Background(), RecordSeasonRequest{
				FarmID:     uuid.New(),
				SeasonName: "Maha",
				StartMonth: tt.startMonth,
				StartYear:  2024,
				EndMonth:   tt.endMonth,
				EndYear:    2024,
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidSeasonWindow)
		})
	}
}
