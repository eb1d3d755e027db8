package service

import (
	"context"
	"log"
	"strings"

	"pyqbank/internal/model"
	"pyqbank/internal/repository"
)

const (
	maxKeywordLen = 200
	defaultLimit  = 20
	maxLimit      = 100
)

// SearchService normalizes search requests and delegates to the configured
// strategy. When the primary strategy fails (typically a missing text index)
// and a fallback is configured, the call degrades instead of erroring.
type SearchService struct {
	primary  repository.SearchStrategy
	fallback repository.SearchStrategy
}

func NewSearchService(primary, fallback repository.SearchStrategy) *SearchService {
	return &SearchService{
		primary:  primary,
		fallback: fallback,
	}
}

// Search returns one ranked page of active questions.
func (s *SearchService) Search(ctx context.Context, req model.SearchRequest) (*model.SearchResult, error) {
	normalizeRequest(&req)

	questions, total, err := s.primary.Search(ctx, req)
	if err != nil && s.fallback != nil {
		log.Printf("primary search strategy failed, falling back to substring: %v", err)
		questions, total, err = s.fallback.Search(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	if questions == nil {
		questions = []*model.Question{}
	}
	return &model.SearchResult{
		Questions: questions,
		Pagination: model.Pagination{
			Page:  req.Page,
			Limit: req.Limit,
			Total: total,
			Pages: pageCount(total, req.Limit),
		},
	}, nil
}

// normalizeRequest applies the request contract: trim and cap the keyword,
// clamp page/limit into bounds instead of rejecting, default the sort.
func normalizeRequest(req *model.SearchRequest) {
	req.Keyword = strings.TrimSpace(req.Keyword)
	if len(req.Keyword) > maxKeywordLen {
		req.Keyword = req.Keyword[:maxKeywordLen]
	}

	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 {
		req.Limit = defaultLimit
	}
	if req.Limit > maxLimit {
		req.Limit = maxLimit
	}

	switch req.SortBy {
	case model.SortByYear, model.SortByViewCount, model.SortByCreatedAt:
	default:
		req.SortBy = model.SortByYear
	}
	if req.SortOrder != "asc" {
		req.SortOrder = "desc"
	}
}

func pageCount(total int64, limit int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
