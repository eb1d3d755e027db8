package service

import (
	"context"
	"log"
	"time"

	"pyqbank/internal/apperr"
	"pyqbank/internal/cache"
	"pyqbank/internal/model"
	"pyqbank/internal/repository"
)

// QuestionService handles single-question lifecycle operations.
type QuestionService struct {
	questions repository.QuestionRepo
	facets    cache.FacetCache
}

func NewQuestionService(questions repository.QuestionRepo, facets cache.FacetCache) *QuestionService {
	return &QuestionService{
		questions: questions,
		facets:    facets,
	}
}

// UpdateQuestionInput is a partial update; nil fields are left untouched.
// Immutable and derived fields (questionId, createdBy, counters,
// searchableText) have no representation here and therefore cannot be written.
type UpdateQuestionInput struct {
	Year              *int                    `json:"year"`
	ExamType          *string                 `json:"examType"`
	ExamName          *string                 `json:"examName"`
	Subject           *string                 `json:"subject"`
	Topic             *string                 `json:"topic"`
	SubTopic          *string                 `json:"subTopic"`
	QuestionText      *string                 `json:"questionText"`
	Options           map[string]string       `json:"options"`
	CorrectAnswer     *string                 `json:"correctAnswer"`
	Explanation       *string                 `json:"explanation"`
	Difficulty        *string                 `json:"difficulty"`
	Marks             *int                    `json:"marks"`
	NegativeMarks     *float64                `json:"negativeMarks"`
	PaperNumber       *string                 `json:"paperNumber"`
	Tags              []string                `json:"tags"`
	Keywords          []string                `json:"keywords"`
	QuestionImages    []string                `json:"questionImages"`
	ExplanationImages []string                `json:"explanationImages"`
	ExplanationVideos []model.VideoAttachment `json:"explanationVideos"`
}

// Create persists a new question owned by createdBy. Client-supplied values for
// generated or counter fields are discarded.
func (s *QuestionService) Create(ctx context.Context, q *model.Question, createdBy string) (*model.Question, error) {
	q.QuestionID = ""
	q.ViewCount = 0
	q.AttemptCount = 0
	q.CorrectAttemptCount = 0
	q.BookmarkCount = 0
	q.IsVerified = false
	q.VerifiedBy = ""
	q.VerifiedAt = nil
	q.CreatedBy = createdBy
	q.UpdatedBy = createdBy
	q.CreatedAt = time.Time{}
	if q.Marks == 0 {
		q.Marks = 1
	}

	if err := s.questions.Create(ctx, q); err != nil {
		return nil, err
	}
	s.invalidateFacets()
	return q, nil
}

// Get fetches an active question and bumps its view counter. The increment is
// fire and forget: the response never waits for it and a failed increment is
// only logged, so view counts are best-effort.
func (s *QuestionService) Get(ctx context.Context, id string) (*model.Question, error) {
	q, err := s.questions.GetByQuestionID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, apperr.ErrNotFound
	}

	go func() {
		viewCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.questions.IncrementViewCount(viewCtx, id); err != nil {
			log.Printf("view count increment failed for %s: %v", id, err)
		}
	}()

	return q, nil
}

// Update applies a partial update and repersists, which recomputes the derived
// fields in the store layer.
func (s *QuestionService) Update(ctx context.Context, id string, in UpdateQuestionInput, updatedBy string) (*model.Question, error) {
	q, err := s.questions.GetByQuestionID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, apperr.ErrNotFound
	}

	applyUpdate(q, in)
	q.UpdatedBy = updatedBy

	if err := s.questions.Replace(ctx, q); err != nil {
		return nil, err
	}
	s.invalidateFacets()
	return q, nil
}

func applyUpdate(q *model.Question, in UpdateQuestionInput) {
	if in.Year != nil {
		q.Year = *in.Year
	}
	if in.ExamType != nil {
		q.ExamType = model.ExamType(*in.ExamType)
	}
	if in.ExamName != nil {
		q.ExamName = *in.ExamName
	}
	if in.Subject != nil {
		q.Subject = *in.Subject
	}
	if in.Topic != nil {
		q.Topic = *in.Topic
	}
	if in.SubTopic != nil {
		q.SubTopic = *in.SubTopic
	}
	if in.QuestionText != nil {
		q.QuestionText = *in.QuestionText
	}
	if in.Options != nil {
		q.Options = in.Options
	}
	if in.CorrectAnswer != nil {
		q.CorrectAnswer = *in.CorrectAnswer
	}
	if in.Explanation != nil {
		q.Explanation = *in.Explanation
	}
	if in.Difficulty != nil {
		q.Difficulty = model.Difficulty(*in.Difficulty)
	}
	if in.Marks != nil {
		q.Marks = *in.Marks
	}
	if in.NegativeMarks != nil {
		q.NegativeMarks = *in.NegativeMarks
	}
	if in.PaperNumber != nil {
		q.PaperNumber = *in.PaperNumber
	}
	if in.Tags != nil {
		q.Tags = in.Tags
	}
	if in.Keywords != nil {
		q.Keywords = in.Keywords
	}
	if in.QuestionImages != nil {
		q.QuestionImages = in.QuestionImages
	}
	if in.ExplanationImages != nil {
		q.ExplanationImages = in.ExplanationImages
	}
	if in.ExplanationVideos != nil {
		q.ExplanationVideos = in.ExplanationVideos
	}
}

// Delete soft-deletes: the record is excluded from public queries but retained.
func (s *QuestionService) Delete(ctx context.Context, id, by string) error {
	if err := s.questions.SoftDelete(ctx, id, by); err != nil {
		return err
	}
	s.invalidateFacets()
	return nil
}

// BulkDelete soft-deletes a set of questions and reports how many matched.
func (s *QuestionService) BulkDelete(ctx context.Context, ids []string, by string) (int64, error) {
	n, err := s.questions.SoftDeleteMany(ctx, ids, by)
	if err != nil {
		return 0, err
	}
	s.invalidateFacets()
	return n, nil
}

// ToggleVerification flips the editorial sign-off flag.
func (s *QuestionService) ToggleVerification(ctx context.Context, id, adminID string) (*model.Question, error) {
	q, err := s.questions.GetByQuestionID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, apperr.ErrNotFound
	}

	q.IsVerified = !q.IsVerified
	if q.IsVerified {
		now := time.Now()
		q.VerifiedBy = adminID
		q.VerifiedAt = &now
	} else {
		q.VerifiedBy = ""
		q.VerifiedAt = nil
	}
	q.UpdatedBy = adminID

	if err := s.questions.Replace(ctx, q); err != nil {
		return nil, err
	}
	s.invalidateFacets()
	return q, nil
}

// Duplicate copies a question under a fresh questionId. The copy starts
// unverified with zeroed counters.
func (s *QuestionService) Duplicate(ctx context.Context, id, adminID string) (*model.Question, error) {
	src, err := s.questions.GetByQuestionID(ctx, id)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, apperr.ErrNotFound
	}

	dup := *src
	dup.QuestionID = ""
	return s.Create(ctx, &dup, adminID)
}

// RecordAttempt counts one attempt; correct attempts feed the success rate.
func (s *QuestionService) RecordAttempt(ctx context.Context, id string, correct bool) error {
	return s.questions.RecordAttempt(ctx, id, correct)
}

// ToggleBookmark adjusts the bookmark counter up or down, floored at zero.
func (s *QuestionService) ToggleBookmark(ctx context.Context, id string, increment bool) error {
	delta := 1
	if !increment {
		delta = -1
	}
	return s.questions.AdjustBookmarkCount(ctx, id, delta)
}

// Random picks one active question matching the optional filters.
func (s *QuestionService) Random(ctx context.Context, f model.SearchFilters) (*model.Question, error) {
	q, err := s.questions.Random(ctx, f)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, apperr.ErrNotFound
	}
	return q, nil
}

func (s *QuestionService) invalidateFacets() {
	if s.facets == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.facets.Invalidate(ctx); err != nil {
		log.Printf("facet cache invalidation failed: %v", err)
	}
}
