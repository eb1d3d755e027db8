package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"pyqbank/internal/model"
	"pyqbank/internal/service"
)

// QuestionHandler serves the public question endpoints.
type QuestionHandler struct {
	searchSvc   *service.SearchService
	questionSvc *service.QuestionService
	facetSvc    *service.FacetService
}

func NewQuestionHandler(searchSvc *service.SearchService, questionSvc *service.QuestionService, facetSvc *service.FacetService) *QuestionHandler {
	return &QuestionHandler{
		searchSvc:   searchSvc,
		questionSvc: questionSvc,
		facetSvc:    facetSvc,
	}
}

// Search handles GET /v1/questions/search
func (h *QuestionHandler) Search(w http.ResponseWriter, r *http.Request) {
	req := parseSearchRequest(r)

	result, err := h.searchSvc.Search(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "Search results retrieved successfully", result)
}

// FilterOptions handles GET /v1/questions/filters/options
func (h *QuestionHandler) FilterOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.facetSvc.GetFilterOptions(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "Filter options retrieved successfully", opts)
}

// Statistics handles GET /v1/questions/statistics
func (h *QuestionHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.facetSvc.GetStatistics(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "Statistics retrieved successfully", stats)
}

// Random handles GET /v1/questions/random
func (h *QuestionHandler) Random(w http.ResponseWriter, r *http.Request) {
	q, err := h.questionSvc.Random(r.Context(), parseFilters(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "Question retrieved successfully", q)
}

// Get handles GET /v1/questions/{id}
func (h *QuestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	q, err := h.questionSvc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "Question retrieved successfully", q)
}

// RecordAttempt handles POST /v1/questions/{id}/attempt
func (h *QuestionHandler) RecordAttempt(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req struct {
		IsCorrect bool `json:"isCorrect"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.questionSvc.RecordAttempt(r.Context(), id, req.IsCorrect); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "Attempt recorded", nil)
}

// ToggleBookmark handles POST /v1/questions/{id}/bookmark
func (h *QuestionHandler) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req struct {
		Increment *bool `json:"increment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	increment := true
	if req.Increment != nil {
		increment = *req.Increment
	}

	if err := h.questionSvc.ToggleBookmark(r.Context(), id, increment); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "Bookmark updated", nil)
}

func parseSearchRequest(r *http.Request) model.SearchRequest {
	query := r.URL.Query()
	return model.SearchRequest{
		Keyword:   query.Get("keyword"),
		Filters:   parseFilters(r),
		Page:      parseInt(query.Get("page"), 1),
		Limit:     parseInt(query.Get("limit"), 0),
		SortBy:    query.Get("sortBy"),
		SortOrder: query.Get("sortOrder"),
	}
}

func parseFilters(r *http.Request) model.SearchFilters {
	query := r.URL.Query()

	var years []int
	for _, v := range query["year"] {
		if y, err := strconv.Atoi(v); err == nil {
			years = append(years, y)
		}
	}

	return model.SearchFilters{
		Years:      years,
		ExamType:   query.Get("examType"),
		Subjects:   query["subject"],
		Topics:     query["topic"],
		Difficulty: query.Get("difficulty"),
		HasAnswer:  parseTriState(query.Get("hasAnswer")),
		IsVerified: parseTriState(query.Get("verified")),
	}
}

func parseInt(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func parseTriState(s string) *bool {
	switch s {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}
