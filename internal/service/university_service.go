package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/collegetrack/collegetrack-api/internal/models"
	appErrors "github.com/collegetrack/collegetrack-api/pkg/errors"
)

type universityRepository interface {
	Search(ctx context.Context, filter models.UniversityFilter) ([]models.University, int, error)
	FindByID(ctx context.Context, id string) (*models.University, error)
	ListRequirements(ctx context.Context, universityID string) ([]models.UniversityRequirement, error)
}

// UniversityDetail pairs a university with its requirement templates.
type UniversityDetail struct {
	models.University
	Requirements []models.UniversityRequirement `json:"requirements"`
}

// UniversityService serves the read-only reference catalogue. Results
// are cache-friendly since the catalogue only changes on reseed.
type UniversityService struct {
	universities universityRepository
	cache        *CacheService
	logger       *zap.Logger
}

// NewUniversityService constructs a UniversityService.
func NewUniversityService(universities universityRepository, cache *CacheService, logger *zap.Logger) *UniversityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UniversityService{universities: universities, cache: cache, logger: logger}
}

type universitySearchResult struct {
	Universities []models.University `json:"universities"`
	Total        int                 `json:"total"`
}

// Search returns universities matching the filter with pagination.
func (s *UniversityService) Search(ctx context.Context, filter models.UniversityFilter) ([]models.University, *models.Pagination, error) {
	cacheKey := UniversitySearchKey(filter.Fingerprint())
	var cached universitySearchResult
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return cached.Universities, models.NewPagination(filter.Page, filter.Limit, cached.Total), nil
	}

	universities, total, err := s.universities.Search(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search universities")
	}

	if err := s.cache.Set(ctx, cacheKey, universitySearchResult{Universities: universities, Total: total}, 0); err != nil {
		s.logger.Debug("university search cache write failed", zap.Error(err))
	}
	return universities, models.NewPagination(filter.Page, filter.Limit, total), nil
}

// Get returns one university together with its requirement templates.
func (s *UniversityService) Get(ctx context.Context, id string) (*UniversityDetail, error) {
	cacheKey := UniversityKey(id)
	var cached UniversityDetail
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}

	university, err := s.universities.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "university not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch university")
	}
	requirements, err := s.universities.ListRequirements(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list university requirements")
	}

	detail := &UniversityDetail{University: *university, Requirements: requirements}
	if err := s.cache.Set(ctx, cacheKey, detail, 0); err != nil {
		s.logger.Debug("university cache write failed", zap.Error(err))
	}
	return detail, nil
}

// Requirements returns the requirement templates of a university.
func (s *UniversityService) Requirements(ctx context.Context, id string) ([]models.UniversityRequirement, error) {
	if _, err := s.universities.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "university not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch university")
	}
	requirements, err := s.universities.ListRequirements(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list university requirements")
	}
	return requirements, nil
}
