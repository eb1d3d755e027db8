package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyqbank/internal/apperr"
)

func validQuestion() *Question {
	return &Question{
		Year:          2021,
		ExamType:      ExamPrelims,
		ExamName:      "UPSC CSE",
		Subject:       "Polity",
		Topic:         "Constitution",
		QuestionText:  "Which Article deals with the Right to Equality?",
		Options:       map[string]string{"A": "Article 14", "B": "Article 19", "C": "Article 21", "D": "Article 32"},
		CorrectAnswer: "A",
		Explanation:   "Articles 14 to 18 deal with the Right to Equality.",
	}
}

func TestNewQuestionID(t *testing.T) {
	id := NewQuestionID()
	assert.True(t, strings.HasPrefix(id, "Q-"))

	parts := strings.SplitN(id, "-", 3)
	require.Len(t, parts, 3)
	assert.Len(t, parts[2], 8)

	assert.NotEqual(t, id, NewQuestionID())
}

func TestComputeSearchableText(t *testing.T) {
	q := validQuestion()
	q.Tags = []string{"fundamental-rights"}
	q.Keywords = []string{"equality"}

	got := q.ComputeSearchableText()

	assert.Equal(t, strings.ToLower(got), got, "must be lowercase")
	assert.NotContains(t, got, "?")
	assert.NotContains(t, got, "-")
	assert.NotContains(t, got, "  ", "whitespace must be collapsed")
	assert.Contains(t, got, "which article deals with the right to equality")
	assert.Contains(t, got, "fundamental rights")
	assert.Contains(t, got, "article 32")
}

func TestComputeSearchableTextIdempotent(t *testing.T) {
	q := validQuestion()
	first := q.ComputeSearchableText()
	q.SearchableText = first
	assert.Equal(t, first, q.ComputeSearchableText())
}

func TestComputeSearchableTextOptionOrderFixed(t *testing.T) {
	q := validQuestion()
	got := q.ComputeSearchableText()
	// option values appear in label order regardless of map iteration
	idxA := strings.Index(got, "article 14")
	idxD := strings.Index(got, "article 32")
	require.GreaterOrEqual(t, idxA, 0)
	require.GreaterOrEqual(t, idxD, 0)
	assert.Less(t, idxA, idxD)
}

func TestValidateAcceptsValidQuestion(t *testing.T) {
	assert.NoError(t, validQuestion().Validate())
}

func TestValidateRejectsTooFewOptions(t *testing.T) {
	q := validQuestion()
	q.Options = map[string]string{"A": "only one"}

	err := q.Validate()
	require.Error(t, err)

	ve, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Messages(), "At least 2 options are required")
}

func TestValidateRejectsBadFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Question)
		field  string
	}{
		{"year too small", func(q *Question) { q.Year = 1999 }, "year"},
		{"year too large", func(q *Question) { q.Year = 2036 }, "year"},
		{"bad exam type", func(q *Question) { q.ExamType = "board" }, "examType"},
		{"empty question text", func(q *Question) { q.QuestionText = "  " }, "questionText"},
		{"missing correct answer", func(q *Question) { q.CorrectAnswer = "" }, "correctAnswer"},
		{"bad difficulty", func(q *Question) { q.Difficulty = "brutal" }, "difficulty"},
		{"marks out of range", func(q *Question) { q.Marks = 251 }, "marks"},
		{"bad option label", func(q *Question) { q.Options["X"] = "nope" }, "options"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validQuestion()
			tt.mutate(q)

			err := q.Validate()
			require.Error(t, err)

			ve, ok := apperr.AsValidation(err)
			require.True(t, ok)
			fields := make([]string, len(ve.Fields))
			for i, f := range ve.Fields {
				fields[i] = f.Field
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestValidateCollectsAllViolations(t *testing.T) {
	q := validQuestion()
	q.Year = 1800
	q.ExamType = "nope"
	q.QuestionText = ""

	err := q.Validate()
	require.Error(t, err)

	ve, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.GreaterOrEqual(t, len(ve.Fields), 3)
}

func TestSuccessRate(t *testing.T) {
	q := &Question{}
	assert.Zero(t, q.SuccessRate())

	q.AttemptCount = 3
	q.CorrectAttemptCount = 1
	assert.InDelta(t, 33.33, q.SuccessRate(), 0.01)

	// wrong answers must dilute the rate
	q.AttemptCount = 4
	assert.InDelta(t, 25.0, q.SuccessRate(), 0.01)
}
