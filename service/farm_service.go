package service

import (
	"context"
	"errors"
	"time"

	"pepperfarm-backend/models"
	"pepperfarm-backend/repository"

	"github.com/google/uuid"
)

// FarmService handles business logic for farms and their harvest seasons
type FarmService struct {
	farmRepo   *repository.FarmRepository
	seasonRepo *repository.SeasonRepository
}

// FarmServiceOption is a functional option for FarmService
type FarmServiceOption func(*FarmService)

// FarmWithFarmRepository sets the farm repository
func FarmWithFarmRepository(repo *repository.FarmRepository) FarmServiceOption {
	return func(s *FarmService) {
		s.farmRepo = repo
	}
}

// FarmWithSeasonRepository sets the season repository
func FarmWithSeasonRepository(repo *repository.SeasonRepository) FarmServiceOption {
	return func(s *FarmService) {
		s.seasonRepo = repo
	}
}

// NewFarmService creates a new farm service
func NewFarmService(opts ...FarmServiceOption) *FarmService {
	s := &FarmService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	ErrFarmNotFound        = errors.New("farm not found")
	ErrInvalidSeasonWindow = errors.New("season months must be between 1 and 12")
)

// CreateFarmRequest represents a request to register a farm
type CreateFarmRequest struct {
	UserID          uuid.UUID
	Name            string
	DistrictID      *int
	ChosenVarietyID *string
	FarmStartDate   *time.Time
	AreaHectares    *float64
	VineCount       *int
}

// CreateFarmResult represents the result of registering a farm
type CreateFarmResult struct {
	Farm *models.Farm
}

// CreateFarm registers a new farm
func (s *FarmService) CreateFarm(ctx context.Context, req CreateFarmRequest) (*CreateFarmResult, error) {
	if s.farmRepo == nil {
		return nil, errors.New("farm repository not set")
	}

	farm := &models.Farm{
		UserID:          req.UserID,
		Name:            req.Name,
		DistrictID:      req.DistrictID,
		ChosenVarietyID: req.ChosenVarietyID,
		FarmStartDate:   req.FarmStartDate,
		AreaHectares:    req.AreaHectares,
		VineCount:       req.VineCount,
	}

	if err := s.farmRepo.Create(ctx, farm); err != nil {
		return nil, err
	}

	return &CreateFarmResult{Farm: farm}, nil
}

// GetFarmRequest represents a request to get a farm
type GetFarmRequest struct {
	ID uuid.UUID
}

// GetFarmResult represents the result of getting a farm
type GetFarmResult struct {
	Farm *models.Farm
}

// GetFarm retrieves a farm by ID
func (s *FarmService) GetFarm(ctx context.Context, req GetFarmRequest) (*GetFarmResult, error) {
	if s.farmRepo == nil {
		return nil, errors.New("farm repository not set")
	}

	farm, err := s.farmRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFarmNotFound
		}
		return nil, err
	}

	return &GetFarmResult{Farm: farm}, nil
}

// UpdateFarmRequest represents a request to update a farm
type UpdateFarmRequest struct {
	Farm *models.Farm
}

// UpdateFarmResult represents the result of updating a farm
type UpdateFarmResult struct {
	Farm *models.Farm
}

// UpdateFarm updates a farm
func (s *FarmService) UpdateFarm(ctx context.Context, req UpdateFarmRequest) (*UpdateFarmResult, error) {
	if s.farmRepo == nil {
		return nil, errors.New("farm repository not set")
	}

	if err := s.farmRepo.Update(ctx, req.Farm); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFarmNotFound
		}
		return nil, err
	}

	return &UpdateFarmResult{Farm: req.Farm}, nil
}

// ListFarmsRequest represents a request to list a user's farms
type ListFarmsRequest struct {
	UserID uuid.UUID
	Limit  int
	Offset int
}

// ListFarmsResult represents the result of listing farms
type ListFarmsResult struct {
	Farms []*models.Farm
}

// ListFarms lists the farms owned by a user
func (s *FarmService) ListFarms(ctx context.Context, req ListFarmsRequest) (*ListFarmsResult, error) {
	if s.farmRepo == nil {
		return nil, errors.New("farm repository not set")
	}

	farms, err := s.farmRepo.ListByUserID(ctx, req.UserID, req.Limit, req.Offset)
	if err != nil {
		return nil, err
	}

	return &ListFarmsResult{Farms: farms}, nil
}

// DeleteFarmRequest represents a request to delete a farm
type DeleteFarmRequest struct {
	ID uuid.UUID
}

// DeleteFarm removes a farm
func (s *FarmService) DeleteFarm(ctx context.Context, req DeleteFarmRequest) error {
	if s.farmRepo == nil {
		return errors.New("farm repository not set")
	}

	if err := s.farmRepo.Delete(ctx, req.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrFarmNotFound
		}
		return err
	}

	return nil
}

// RecordSeasonRequest represents a request to record a harvest season
type RecordSeasonRequest struct {
	FarmID     uuid.UUID
	SeasonName string
	StartMonth int
	StartYear  int
	EndMonth   int
	EndYear    int
	CreatedBy  uuid.UUID
}

// RecordSeasonResult represents the result of recording a harvest season
type RecordSeasonResult struct {
	Season *models.HarvestSeason
}

// RecordSeason records a harvest season for a farm
func (s *FarmService) RecordSeason(ctx context.Context, req RecordSeasonRequest) (*RecordSeasonResult, error) {
	if s.farmRepo == nil {
		return nil, errors.New("farm repository not set")
	}
	if s.seasonRepo == nil {
		return nil, errors.New("season repository not set")
	}

	if req.StartMonth < 1 || req.StartMonth > 12 || req.EndMonth < 1 || req.EndMonth > 12 {
		return nil, ErrInvalidSeasonWindow
	}

	if _, err := s.farmRepo.GetByID(ctx, req.FarmID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFarmNotFound
		}
		return nil, err
	}

	season := &models.HarvestSeason{
		FarmID:     req.FarmID,
		SeasonName: req.SeasonName,
		StartMonth: req.StartMonth,
		StartYear:  req.StartYear,
		EndMonth:   req.EndMonth,
		EndYear:    req.EndYear,
		CreatedBy:  req.CreatedBy,
	}

	if err := s.seasonRepo.Create(ctx, season); err != nil {
		return nil, err
	}

	return &RecordSeasonResult{Season: season}, nil
}

// ListSeasonsRequest represents a request to list a farm's harvest seasons
type ListSeasonsRequest struct {
	FarmID uuid.UUID
}

// ListSeasonsResult represents the result of listing harvest seasons
type ListSeasonsResult struct {
	Seasons []*models.HarvestSeason
}

// ListSeasons lists the harvest seasons recorded for a farm
func (s *FarmService) ListSeasons(ctx context.Context, req ListSeasonsRequest) (*ListSeasonsResult, error) {
	if s.seasonRepo == nil {
		return nil, errors.New("season repository not set")
	}

	seasons, err := s.seasonRepo.ListByFarmID(ctx, req.FarmID)
	if err != nil {
		return nil, err
	}

	return &ListSeasonsResult{Seasons: seasons}, nil
}
