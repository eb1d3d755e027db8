package service

import (
	"context"
	"log"

	"pyqbank/internal/cache"
	"pyqbank/internal/model"
	"pyqbank/internal/repository"
)

// FacetService resolves filter options and statistics. Facets are derived, not
// stored: every cache miss re-scans the active question set, so the UI always
// reflects reality even when the taxonomy and the actual question distribution
// diverge. The cache only smooths over repeated dashboard polls.
type FacetService struct {
	questions repository.QuestionRepo
	facets    cache.FacetCache
}

func NewFacetService(questions repository.QuestionRepo, facets cache.FacetCache) *FacetService {
	return &FacetService{
		questions: questions,
		facets:    facets,
	}
}

// GetFilterOptions returns the current universe of selectable filter values.
func (s *FacetService) GetFilterOptions(ctx context.Context) (*model.FilterOptions, error) {
	if s.facets != nil {
		if cached, err := s.facets.GetFilterOptions(ctx); err != nil {
			log.Printf("facet cache read failed: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	opts, err := s.questions.FilterOptions(ctx)
	if err != nil {
		return nil, err
	}

	if s.facets != nil {
		if err := s.facets.SetFilterOptions(ctx, opts); err != nil {
			log.Printf("facet cache write failed: %v", err)
		}
	}
	return opts, nil
}

// GetStatistics returns the summary counts over the active question set.
func (s *FacetService) GetStatistics(ctx context.Context) (*model.Statistics, error) {
	if s.facets != nil {
		if cached, err := s.facets.GetStatistics(ctx); err != nil {
			log.Printf("facet cache read failed: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	stats, err := s.questions.Statistics(ctx)
	if err != nil {
		return nil, err
	}

	if s.facets != nil {
		if err := s.facets.SetStatistics(ctx, stats); err != nil {
			log.Printf("facet cache write failed: %v", err)
		}
	}
	return stats, nil
}
