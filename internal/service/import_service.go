package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"pyqbank/internal/apperr"
	"pyqbank/internal/cache"
	"pyqbank/internal/model"
	"pyqbank/internal/repository"
)

const (
	previewRows  = 10
	maxRowErrors = 20
)

// ImportRow is one externally-sourced spreadsheet row. Scalar fields arrive as
// strings so that type problems ("year: banana") surface as row validation
// errors instead of decode failures. Keywords and tags are comma-separated.
type ImportRow struct {
	Year          string            `json:"year"`
	ExamType      string            `json:"examType"`
	ExamName      string            `json:"examName"`
	Subject       string            `json:"subject"`
	Topic         string            `json:"topic"`
	SubTopic      string            `json:"subTopic"`
	QuestionText  string            `json:"questionText"`
	Options       map[string]string `json:"options"`
	CorrectAnswer string            `json:"correctAnswer"`
	Explanation   string            `json:"explanation"`
	Difficulty    string            `json:"difficulty"`
	Marks         string            `json:"marks"`
	PaperNumber   string            `json:"paperNumber"`
	Keywords      string            `json:"keywords"`
	Tags          string            `json:"tags"`
}

// RowError reports the validation failures of one rejected row. Row numbers are
// 1-based and account for the header row.
type RowError struct {
	Row    int      `json:"row"`
	Errors []string `json:"errors"`
}

// ImportStats summarizes the valid rows of a batch for UI display.
type ImportStats struct {
	ByExamType map[string]int `json:"byExamType"`
	BySubject  map[string]int `json:"bySubject"`
	ByYear     map[int]int    `json:"byYear"`
}

// ImportValidation is the phase-1 result: the batch is partitioned, staged, and
// summarized, but nothing is committed yet.
type ImportValidation struct {
	TotalRows    int               `json:"totalRows"`
	ValidRows    int               `json:"validRows"`
	InvalidRows  int               `json:"invalidRows"`
	Preview      []*model.Question `json:"preview"`
	Errors       []RowError        `json:"errors"`
	TempFileName string            `json:"tempFileName"`
	Stats        ImportStats       `json:"stats"`
}

// ImportFailure is one document rejected at commit time.
type ImportFailure struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ImportResult is the phase-2 outcome.
type ImportResult struct {
	TotalAttempted       int             `json:"totalAttempted"`
	SuccessfullyImported int             `json:"successfullyImported"`
	Failed               int             `json:"failed"`
	Errors               []ImportFailure `json:"errors"`
}

// ImportService validates and commits externally-sourced question batches in
// two phases. Row validation is independent per row: a malformed row never
// blocks the rest of the batch.
type ImportService struct {
	questions repository.QuestionRepo
	subjects  repository.SubjectRepo
	staging   cache.ImportStaging
	facets    cache.FacetCache
}

func NewImportService(questions repository.QuestionRepo, subjects repository.SubjectRepo, staging cache.ImportStaging, facets cache.FacetCache) *ImportService {
	return &ImportService{
		questions: questions,
		subjects:  subjects,
		staging:   staging,
		facets:    facets,
	}
}

// Validate checks every row against the question invariants and the active
// subject vocabulary, stages the valid rows, and returns the partition.
func (s *ImportService) Validate(ctx context.Context, rows []ImportRow, createdBy string) (*ImportValidation, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: file is empty or invalid format", apperr.ErrParse)
	}

	names, err := s.subjects.ActiveNames(ctx)
	if err != nil {
		return nil, err
	}
	validSubjects := make(map[string]bool, len(names))
	for _, n := range names {
		validSubjects[n] = true
	}

	valid := make([]*model.Question, 0, len(rows))
	var rowErrors []RowError
	stats := ImportStats{
		ByExamType: map[string]int{},
		BySubject:  map[string]int{},
		ByYear:     map[int]int{},
	}

	for i, row := range rows {
		// +2: rows are 1-based and row 1 is the header
		rowNumber := i + 2
		q, errs := buildRow(row, validSubjects, names, createdBy)
		if len(errs) > 0 {
			rowErrors = append(rowErrors, RowError{Row: rowNumber, Errors: errs})
			continue
		}
		valid = append(valid, q)
		stats.ByExamType[string(q.ExamType)]++
		stats.BySubject[q.Subject]++
		stats.ByYear[q.Year]++
	}

	tempFileName := fmt.Sprintf("import_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
	if len(valid) > 0 {
		if err := s.staging.Put(ctx, tempFileName, valid); err != nil {
			return nil, err
		}
	}

	preview := valid
	if len(preview) > previewRows {
		preview = preview[:previewRows]
	}
	reported := rowErrors
	if len(reported) > maxRowErrors {
		reported = reported[:maxRowErrors]
	}
	if reported == nil {
		reported = []RowError{}
	}

	return &ImportValidation{
		TotalRows:    len(rows),
		ValidRows:    len(valid),
		InvalidRows:  len(rowErrors),
		Preview:      preview,
		Errors:       reported,
		TempFileName: tempFileName,
		Stats:        stats,
	}, nil
}

// Confirm commits a staged batch with an unordered insert; per-document
// constraint violations are reported, not raised.
func (s *ImportService) Confirm(ctx context.Context, tempFileName string) (*ImportResult, error) {
	staged, err := s.staging.Get(ctx, tempFileName)
	if err != nil {
		return nil, err
	}
	if staged == nil {
		return nil, fmt.Errorf("%w: staged import %q", apperr.ErrNotFound, tempFileName)
	}

	inserted, failures, err := s.questions.InsertMany(ctx, staged)
	if err != nil {
		return nil, err
	}

	if err := s.staging.Delete(ctx, tempFileName); err != nil {
		log.Printf("staged import cleanup failed for %s: %v", tempFileName, err)
	}
	s.invalidateFacets()

	result := &ImportResult{
		TotalAttempted:       len(staged),
		SuccessfullyImported: inserted,
		Failed:               len(failures),
		Errors:               []ImportFailure{},
	}
	for i, f := range failures {
		if i >= maxRowErrors {
			break
		}
		result.Errors = append(result.Errors, ImportFailure{Row: f.Index + 1, Error: f.Message})
	}
	return result, nil
}

// Cancel discards a staged batch. Cancelling an unknown or expired batch is not
// an error.
func (s *ImportService) Cancel(ctx context.Context, tempFileName string) error {
	return s.staging.Delete(ctx, tempFileName)
}

func (s *ImportService) invalidateFacets() {
	if s.facets == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.facets.Invalidate(ctx); err != nil {
		log.Printf("facet cache invalidation failed: %v", err)
	}
}

// buildRow validates one row in isolation and, when clean, materializes the
// question it describes. The error strings are shown to operators verbatim.
func buildRow(row ImportRow, validSubjects map[string]bool, subjectNames []string, createdBy string) (*model.Question, []string) {
	var errs []string

	year := 0
	if strings.TrimSpace(row.Year) == "" {
		errs = append(errs, "Year is required")
	} else {
		var err error
		year, err = strconv.Atoi(strings.TrimSpace(row.Year))
		if err != nil || year < model.MinYear || year > model.MaxYear {
			errs = append(errs, fmt.Sprintf("Year must be between %d and %d", model.MinYear, model.MaxYear))
		}
	}

	examType := strings.ToLower(strings.TrimSpace(row.ExamType))
	if examType == "" {
		errs = append(errs, "Exam type is required")
	} else if !model.ExamType(examType).Valid() {
		errs = append(errs, "Exam type must be one of: "+strings.Join(model.ExamTypes, ", "))
	}

	subject := strings.TrimSpace(row.Subject)
	if subject == "" {
		errs = append(errs, "Subject is required")
	} else if !validSubjects[subject] {
		errs = append(errs, "Invalid subject. Valid subjects: "+strings.Join(subjectNames, ", "))
	}

	questionText := strings.TrimSpace(row.QuestionText)
	if questionText == "" {
		errs = append(errs, "Question text is required")
	} else if len(questionText) > model.MaxQuestionTextLen {
		errs = append(errs, fmt.Sprintf("Question text cannot exceed %d characters", model.MaxQuestionTextLen))
	}

	if strings.TrimSpace(row.ExamName) == "" {
		errs = append(errs, "Exam name is required")
	}
	if len(row.Options) < model.MinOptions {
		errs = append(errs, fmt.Sprintf("At least %d options are required", model.MinOptions))
	}
	if strings.TrimSpace(row.CorrectAnswer) == "" {
		errs = append(errs, "Correct answer is required")
	}
	if len(row.Explanation) > model.MaxExplanationLen {
		errs = append(errs, fmt.Sprintf("Explanation cannot exceed %d characters", model.MaxExplanationLen))
	}

	difficulty := strings.ToLower(strings.TrimSpace(row.Difficulty))
	if difficulty != "" && !model.Difficulty(difficulty).Valid() {
		errs = append(errs, "Difficulty must be one of: "+strings.Join(model.Difficulties, ", "))
	}

	marks := 1
	if strings.TrimSpace(row.Marks) != "" {
		var err error
		marks, err = strconv.Atoi(strings.TrimSpace(row.Marks))
		if err != nil || marks < 0 || marks > model.MaxMarks {
			errs = append(errs, fmt.Sprintf("Marks must be between 0 and %d", model.MaxMarks))
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	options := make(map[string]string, len(row.Options))
	for label, text := range row.Options {
		options[strings.ToUpper(strings.TrimSpace(label))] = strings.TrimSpace(text)
	}

	return &model.Question{
		Year:          year,
		ExamType:      model.ExamType(examType),
		ExamName:      strings.TrimSpace(row.ExamName),
		Subject:       subject,
		Topic:         strings.TrimSpace(row.Topic),
		SubTopic:      strings.TrimSpace(row.SubTopic),
		QuestionText:  questionText,
		Options:       options,
		CorrectAnswer: strings.TrimSpace(row.CorrectAnswer),
		Explanation:   strings.TrimSpace(row.Explanation),
		Difficulty:    model.Difficulty(difficulty),
		Marks:         marks,
		PaperNumber:   strings.TrimSpace(row.PaperNumber),
		Keywords:      splitList(row.Keywords),
		Tags:          splitList(row.Tags),
		CreatedBy:     createdBy,
		UpdatedBy:     createdBy,
	}, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.ToLower(strings.TrimSpace(p)); v != "" {
			out = append(out, v)
		}
	}
	return out
}
