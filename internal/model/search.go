package model

// SearchFilters narrows a search to structured attribute values. Empty slices
// and empty strings mean "no constraint", never "match nothing".
type SearchFilters struct {
	Years      []int
	ExamType   string
	Subjects   []string
	Topics     []string
	Difficulty string
	HasAnswer  *bool
	IsVerified *bool
}

// Sort fields accepted by the search engine.
const (
	SortByYear      = "year"
	SortByViewCount = "viewCount"
	SortByCreatedAt = "createdAt"
)

// SearchRequest is a normalized search call: keyword plus filters, pagination
// and sort. Normalization (trimming, clamping, defaulting) happens in the
// search service before a strategy sees the request.
type SearchRequest struct {
	Keyword   string
	Filters   SearchFilters
	Page      int
	Limit     int
	SortBy    string
	SortOrder string // "asc" or "desc"
}

// HasKeyword reports whether ranked matching applies.
func (r *SearchRequest) HasKeyword() bool {
	return r.Keyword != ""
}

// Pagination describes one result page.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// SearchResult is a ranked page of questions.
type SearchResult struct {
	Questions  []*Question `json:"questions"`
	Pagination Pagination  `json:"pagination"`
}

// SubjectCount pairs a subject name with its live active-question count.
type SubjectCount struct {
	Name  string `json:"name" bson:"name"`
	Count int64  `json:"count" bson:"count"`
}

// FilterOptions is the current universe of selectable filter values.
type FilterOptions struct {
	Years     []int               `json:"years"`     // descending
	ExamTypes []string            `json:"examTypes"` // ascending
	Subjects  []SubjectCount      `json:"subjects"`  // by name ascending
	Topics    map[string][]string `json:"topics"`    // subject -> sorted topics
}

// YearCount and FacetCount are aggregation rows; the _id key mirrors the
// grouping key in the API response.
type YearCount struct {
	Year  int   `json:"_id" bson:"_id"`
	Count int64 `json:"count" bson:"count"`
}

type FacetCount struct {
	Label string `json:"_id" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}

// Statistics summarizes the active question set.
type Statistics struct {
	Total        int64        `json:"total"`
	ByYear       []YearCount  `json:"byYear"`
	ByExamType   []FacetCount `json:"byExamType"`
	BySubject    []FacetCount `json:"bySubject"` // by count descending, top 10
	ByDifficulty []FacetCount `json:"byDifficulty"`
	WithAnswers  int64        `json:"withAnswers"`
	Verified     int64        `json:"verified"`
}
