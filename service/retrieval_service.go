package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pepperfarm-backend/models"
	"pepperfarm-backend/repository"
)

// DistrictLookup resolves a district reference to its record
type DistrictLookup interface {
	GetByID(ctx context.Context, id int) (*models.District, error)
}

// VarietyLookup resolves a variety reference to its record
type VarietyLookup interface {
	GetByID(ctx context.Context, id string) (*models.PepperVariety, error)
}

var ErrRetrievalFailed = errors.New("failed to retrieve pepper knowledge")

// RetrievalService composes hard attribute filters with nearest-neighbor
// ranking to select the knowledge entries applicable to a query context.
// Reference lookups that miss degrade the context (unset district, "Local"
// variety) instead of failing the request; only storage faults propagate.
type RetrievalService struct {
	districts DistrictLookup
	varieties VarietyLookup
	store     repository.KnowledgeStore
	now       func() time.Time
}

// RetrievalServiceOption is a functional option for RetrievalService
type RetrievalServiceOption func(*RetrievalService)

// RetrievalWithDistrictLookup sets the district lookup
func RetrievalWithDistrictLookup(districts DistrictLookup) RetrievalServiceOption {
	return func(s *RetrievalService) {
		s.districts = districts
	}
}

// RetrievalWithVarietyLookup sets the variety lookup
func RetrievalWithVarietyLookup(varieties VarietyLookup) RetrievalServiceOption {
	return func(s *RetrievalService) {
		s.varieties = varieties
	}
}

// RetrievalWithKnowledgeStore sets the knowledge store
func RetrievalWithKnowledgeStore(store repository.KnowledgeStore) RetrievalServiceOption {
	return func(s *RetrievalService) {
		s.store = store
	}
}

// RetrievalWithClock overrides the time source used for the season filter
func RetrievalWithClock(now func() time.Time) RetrievalServiceOption {
	return func(s *RetrievalService) {
		s.now = now
	}
}

// NewRetrievalService creates a new retrieval service
func NewRetrievalService(opts ...RetrievalServiceOption) *RetrievalService {
	s := &RetrievalService{
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search resolves the district and variety references, builds the hard
// filter context and runs the filtered nearest-neighbor query. The result is
// at most five entries ordered closest first; an empty result means no
// applicable knowledge exists and is not an error.
func (s *RetrievalService) Search(
	ctx context.Context,
	embedding []float32,
	districtID *int,
	varietyID *string,
	plantAgeMonths *int,
) ([]models.PepperKnowledge, error) {
	if s.store == nil {
		return nil, errors.New("knowledge store not set")
	}

	districtName, err := s.resolveDistrictName(ctx, districtID)
	if err != nil {
		return nil, err
	}

	varietyName, err := s.resolveVarietyName(ctx, varietyID)
	if err != nil {
		return nil, err
	}

	filter := repository.SearchFilter{
		DistrictName:   districtName,
		VarietyName:    varietyName,
		PlantAgeMonths: plantAgeMonths,
		CurrentMonth:   int(s.now().UTC().Month()),
	}

	entries, err := s.store.Search(ctx, embedding, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRetrievalFailed, err)
	}

	return entries, nil
}

// resolveDistrictName maps a district reference to its name. Absent or
// unknown references yield an unset name.
func (s *RetrievalService) resolveDistrictName(ctx context.Context, districtID *int) (*string, error) {
	if districtID == nil || s.districts == nil {
		return nil, nil
	}

	district, err := s.districts.GetByID(ctx, *districtID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve district %d: %w", *districtID, err)
	}

	return &district.Name, nil
}

// resolveVarietyName maps a variety reference to its name, falling back to
// the "Local" sentinel when the reference is absent, unknown or empty.
func (s *RetrievalService) resolveVarietyName(ctx context.Context, varietyID *string) (string, error) {
	if varietyID == nil || *varietyID == "" || s.varieties == nil {
		return models.DefaultVarietyName, nil
	}

	variety, err := s.varieties.GetByID(ctx, *varietyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.DefaultVarietyName, nil
		}
		return "", fmt.Errorf("failed to resolve variety %q: %w", *varietyID, err)
	}

	if variety.Name == "" {
		return models.DefaultVarietyName, nil
	}

	return variety.Name, nil
}
