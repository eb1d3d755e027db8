package model

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"pyqbank/internal/apperr"
)

// ExamType is the exam stage a question was asked in.
type ExamType string

const (
	ExamPrelims  ExamType = "prelims"
	ExamMains    ExamType = "mains"
	ExamOptional ExamType = "optional"
)

func (e ExamType) Valid() bool {
	switch e {
	case ExamPrelims, ExamMains, ExamOptional:
		return true
	}
	return false
}

// ExamTypes lists the accepted values, for validation messages.
var ExamTypes = []string{string(ExamPrelims), string(ExamMains), string(ExamOptional)}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

var Difficulties = []string{string(DifficultyEasy), string(DifficultyMedium), string(DifficultyHard)}

// OptionLabels is the fixed label alphabet for answer options, in display order.
var OptionLabels = []string{"A", "B", "C", "D", "E", "F"}

const (
	MinYear            = 2000
	MaxYear            = 2035
	MaxQuestionTextLen = 15000
	MaxExplanationLen  = 10000
	MaxMarks           = 250
	MinOptions         = 2
	MaxOptions         = 6
)

// VideoAttachment is an externally hosted video; URLs and asset ids are stored verbatim.
type VideoAttachment struct {
	URL          string `json:"url" bson:"url"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty" bson:"thumbnailUrl,omitempty"`
	Title        string `json:"title,omitempty" bson:"title,omitempty"`
	Duration     int    `json:"duration,omitempty" bson:"duration,omitempty"` // seconds
	PublicID     string `json:"publicId,omitempty" bson:"publicId,omitempty"`
}

// Question is a previous-year exam question. QuestionID is the public key; the
// Mongo _id is never exposed.
type Question struct {
	QuestionID string `json:"questionId" bson:"questionId"`

	Year     int      `json:"year" bson:"year"`
	ExamType ExamType `json:"examType" bson:"examType"`
	ExamName string   `json:"examName" bson:"examName"`
	Subject  string   `json:"subject" bson:"subject"`
	Topic    string   `json:"topic,omitempty" bson:"topic,omitempty"`
	SubTopic string   `json:"subTopic,omitempty" bson:"subTopic,omitempty"`

	QuestionText  string            `json:"questionText" bson:"questionText"`
	Options       map[string]string `json:"options" bson:"options"`
	CorrectAnswer string            `json:"correctAnswer" bson:"correctAnswer"`
	Explanation   string            `json:"explanation,omitempty" bson:"explanation,omitempty"`

	QuestionImages    []string          `json:"questionImages,omitempty" bson:"questionImages,omitempty"`
	ExplanationImages []string          `json:"explanationImages,omitempty" bson:"explanationImages,omitempty"`
	ExplanationVideos []VideoAttachment `json:"explanationVideos,omitempty" bson:"explanationVideos,omitempty"`

	Difficulty     Difficulty `json:"difficulty,omitempty" bson:"difficulty,omitempty"`
	Marks          int        `json:"marks,omitempty" bson:"marks,omitempty"`
	NegativeMarks  float64    `json:"negativeMarks,omitempty" bson:"negativeMarks,omitempty"`
	PaperNumber    string     `json:"paperNumber,omitempty" bson:"paperNumber,omitempty"`
	SourceDocument string     `json:"sourceDocument,omitempty" bson:"sourceDocument,omitempty"`
	QuestionNumber int        `json:"questionNumber,omitempty" bson:"questionNumber,omitempty"`

	Tags     []string `json:"tags,omitempty" bson:"tags,omitempty"`
	Keywords []string `json:"keywords,omitempty" bson:"keywords,omitempty"`

	// Derived from the text fields before every write; excluded from responses.
	SearchableText string `json:"-" bson:"searchableText"`
	// Derived: explanation present. Stored as a flag so it is filterable.
	HasAnswer bool `json:"hasAnswer" bson:"hasAnswer"`

	IsActive   bool       `json:"isActive" bson:"isActive"`
	IsVerified bool       `json:"isVerified" bson:"isVerified"`
	VerifiedBy string     `json:"verifiedBy,omitempty" bson:"verifiedBy,omitempty"`
	VerifiedAt *time.Time `json:"verifiedAt,omitempty" bson:"verifiedAt,omitempty"`

	ViewCount           int `json:"viewCount" bson:"viewCount"`
	AttemptCount        int `json:"attemptCount" bson:"attemptCount"`
	CorrectAttemptCount int `json:"correctAttemptCount" bson:"correctAttemptCount"`
	BookmarkCount       int `json:"bookmarkCount" bson:"bookmarkCount"`

	CreatedBy string    `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	UpdatedBy string    `json:"updatedBy,omitempty" bson:"updatedBy,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// NewQuestionID generates a public question id of the form Q-<millis>-<random8>.
func NewQuestionID() string {
	return fmt.Sprintf("Q-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// ComputeSearchableText builds the normalized search blob from the current text
// fields: lowercase, punctuation replaced by spaces, whitespace collapsed. Field
// order is fixed so repeated saves with unchanged fields are idempotent.
func (q *Question) ComputeSearchableText() string {
	parts := make([]string, 0, 6+len(q.Tags)+len(q.Keywords)+len(q.Options))
	for _, s := range []string{q.QuestionText, q.Explanation, q.Subject, q.Topic, q.SubTopic, q.ExamName} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	parts = append(parts, q.Tags...)
	parts = append(parts, q.Keywords...)
	for _, label := range OptionLabels {
		if v, ok := q.Options[label]; ok && v != "" {
			parts = append(parts, v)
		}
	}
	return normalizeSearchText(strings.Join(parts, " "))
}

func normalizeSearchText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Validate checks the write-time invariants. It returns a *apperr.ValidationError
// listing every violation, so callers can surface all failures at once.
func (q *Question) Validate() error {
	ve := &apperr.ValidationError{}

	if strings.TrimSpace(q.QuestionText) == "" {
		ve.Add("questionText", "Question text is required")
	} else if len(q.QuestionText) > MaxQuestionTextLen {
		ve.Add("questionText", "Question text cannot exceed %d characters", MaxQuestionTextLen)
	}
	if q.Year < MinYear || q.Year > MaxYear {
		ve.Add("year", "Year must be between %d and %d", MinYear, MaxYear)
	}
	if !q.ExamType.Valid() {
		ve.Add("examType", "Exam type must be one of: %s", strings.Join(ExamTypes, ", "))
	}
	if strings.TrimSpace(q.ExamName) == "" {
		ve.Add("examName", "Exam name is required")
	}
	if strings.TrimSpace(q.Subject) == "" {
		ve.Add("subject", "Subject is required")
	}
	if strings.TrimSpace(q.CorrectAnswer) == "" {
		ve.Add("correctAnswer", "Correct answer is required")
	}
	if len(q.Explanation) > MaxExplanationLen {
		ve.Add("explanation", "Explanation cannot exceed %d characters", MaxExplanationLen)
	}
	if q.Difficulty != "" && !q.Difficulty.Valid() {
		ve.Add("difficulty", "Difficulty must be one of: %s", strings.Join(Difficulties, ", "))
	}
	if q.Marks < 0 || q.Marks > MaxMarks {
		ve.Add("marks", "Marks must be between 0 and %d", MaxMarks)
	}
	if q.NegativeMarks < 0 {
		ve.Add("negativeMarks", "Negative marks cannot be negative")
	}
	validateOptions(q.Options, ve)

	if ve.Empty() {
		return nil
	}
	return ve
}

func validateOptions(options map[string]string, ve *apperr.ValidationError) {
	if len(options) < MinOptions {
		ve.Add("options", "At least %d options are required", MinOptions)
		return
	}
	if len(options) > MaxOptions {
		ve.Add("options", "At most %d options are allowed", MaxOptions)
	}
	for _, label := range OptionLabels {
		if text, ok := options[label]; ok && strings.TrimSpace(text) == "" {
			ve.Add("options", "Option %s text is required", label)
		}
	}
	for label := range options {
		if !validOptionLabel(label) {
			ve.Add("options", "Invalid option label %q, must be one of: %s", label, strings.Join(OptionLabels, ", "))
		}
	}
}

func validOptionLabel(label string) bool {
	for _, l := range OptionLabels {
		if l == label {
			return true
		}
	}
	return false
}

// SuccessRate is correct attempts over total attempts, in percent.
func (q *Question) SuccessRate() float64 {
	if q.AttemptCount == 0 {
		return 0
	}
	rate := float64(q.CorrectAttemptCount) / float64(q.AttemptCount) * 100
	return math.Round(rate*100) / 100
}
