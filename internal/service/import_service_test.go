package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyqbank/internal/apperr"
	"pyqbank/internal/model"
	"pyqbank/internal/repository"
)

var testSubjects = []string{"Geography", "History", "Polity"}

func validImportRow() ImportRow {
	return ImportRow{
		Year:          "2021",
		ExamType:      "prelims",
		ExamName:      "UPSC CSE",
		Subject:       "Polity",
		Topic:         "Constitution",
		QuestionText:  "Which part of the Constitution deals with Fundamental Rights?",
		Options:       map[string]string{"A": "Part II", "B": "Part III", "C": "Part IV", "D": "Part V"},
		CorrectAnswer: "B",
		Explanation:   "Part III, Articles 12 to 35.",
		Keywords:      "fundamental rights, constitution",
		Tags:          "polity-basics",
	}
}

func newImportService(qr *fakeQuestionRepo, staging *memStaging) *ImportService {
	return NewImportService(qr, &fakeSubjectRepo{names: testSubjects}, staging, &memFacetCache{})
}

func TestValidateEmptyBatch(t *testing.T) {
	svc := newImportService(newFakeQuestionRepo(), newMemStaging())

	_, err := svc.Validate(context.Background(), nil, "admin-1")
	assert.ErrorIs(t, err, apperr.ErrParse)
}

func TestValidatePartitionsRows(t *testing.T) {
	staging := newMemStaging()
	svc := newImportService(newFakeQuestionRepo(), staging)

	bad := validImportRow()
	bad.Year = "1999"

	rows := []ImportRow{validImportRow(), bad, validImportRow()}
	v, err := svc.Validate(context.Background(), rows, "admin-1")
	require.NoError(t, err)

	assert.Equal(t, 3, v.TotalRows)
	assert.Equal(t, 2, v.ValidRows)
	assert.Equal(t, 1, v.InvalidRows)
	require.Len(t, v.Errors, 1)
	// row 2 of the data is spreadsheet row 3 (header is row 1)
	assert.Equal(t, 3, v.Errors[0].Row)
	assert.Contains(t, v.Errors[0].Errors, "Year must be between 2000 and 2035")

	assert.Equal(t, 2, v.Stats.ByExamType["prelims"])
	assert.Equal(t, 2, v.Stats.BySubject["Polity"])
	assert.Equal(t, 2, v.Stats.ByYear[2021])

	staged, err := staging.Get(context.Background(), v.TempFileName)
	require.NoError(t, err)
	assert.Len(t, staged, 2)
}

func TestValidateBadRowNeverBlocksBatch(t *testing.T) {
	svc := newImportService(newFakeQuestionRepo(), newMemStaging())

	corrupt := ImportRow{Year: "banana"}
	rows := []ImportRow{corrupt, validImportRow()}

	v, err := svc.Validate(context.Background(), rows, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, 1, v.ValidRows)
	assert.Equal(t, 1, v.InvalidRows)
}

func TestValidateCapsPreviewAndErrors(t *testing.T) {
	svc := newImportService(newFakeQuestionRepo(), newMemStaging())

	rows := make([]ImportRow, 0, 40)
	for i := 0; i < 15; i++ {
		rows = append(rows, validImportRow())
	}
	for i := 0; i < 25; i++ {
		bad := validImportRow()
		bad.QuestionText = ""
		rows = append(rows, bad)
	}

	v, err := svc.Validate(context.Background(), rows, "admin-1")
	require.NoError(t, err)

	assert.Equal(t, 15, v.ValidRows)
	assert.Equal(t, 25, v.InvalidRows)
	assert.Len(t, v.Preview, previewRows)
	assert.Len(t, v.Errors, maxRowErrors)
}

func TestValidateRowMessages(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ImportRow)
		want   string
	}{
		{"missing year", func(r *ImportRow) { r.Year = "" }, "Year is required"},
		{"year not a number", func(r *ImportRow) { r.Year = "banana" }, "Year must be between 2000 and 2035"},
		{"unknown exam type", func(r *ImportRow) { r.ExamType = "board" }, "Exam type must be one of: prelims, mains, optional"},
		{"unknown subject", func(r *ImportRow) { r.Subject = "Astrology" }, "Invalid subject. Valid subjects: " + strings.Join(testSubjects, ", ")},
		{"one option", func(r *ImportRow) { r.Options = map[string]string{"A": "only"} }, "At least 2 options are required"},
		{"no answer", func(r *ImportRow) { r.CorrectAnswer = "" }, "Correct answer is required"},
		{"bad difficulty", func(r *ImportRow) { r.Difficulty = "impossible" }, "Difficulty must be one of: easy, medium, hard"},
		{"bad marks", func(r *ImportRow) { r.Marks = "-5" }, "Marks must be between 0 and 250"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := validImportRow()
			tt.mutate(&row)
			_, errs := buildRow(row, subjectSet(), testSubjects, "admin-1")
			assert.Contains(t, errs, tt.want)
		})
	}
}

func TestBuildRowNormalizes(t *testing.T) {
	row := validImportRow()
	row.ExamType = "  PRELIMS "
	row.Marks = ""
	row.Options = map[string]string{" a ": " Part II ", "B": "Part III"}
	row.Keywords = " Fundamental Rights ,, CONSTITUTION "

	q, errs := buildRow(row, subjectSet(), testSubjects, "admin-1")
	require.Empty(t, errs)

	assert.Equal(t, model.ExamPrelims, q.ExamType)
	assert.Equal(t, 1, q.Marks)
	assert.Equal(t, "Part II", q.Options["A"])
	assert.Equal(t, []string{"fundamental rights", "constitution"}, q.Keywords)
	assert.Equal(t, "admin-1", q.CreatedBy)
}

func TestConfirmCommitsStagedBatch(t *testing.T) {
	qr := newFakeQuestionRepo()
	staging := newMemStaging()
	svc := newImportService(qr, staging)

	v, err := svc.Validate(context.Background(), []ImportRow{validImportRow(), validImportRow()}, "admin-1")
	require.NoError(t, err)

	result, err := svc.Confirm(context.Background(), v.TempFileName)
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalAttempted)
	assert.Equal(t, 2, result.SuccessfullyImported)
	assert.Equal(t, 0, result.Failed)
	assert.Empty(t, result.Errors)

	// staged batch is gone: a second confirm must not double-insert
	_, err = svc.Confirm(context.Background(), v.TempFileName)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestConfirmReportsPartialFailures(t *testing.T) {
	qr := newFakeQuestionRepo()
	qr.insertManyFn = func(qs []*model.Question) (int, []repository.BulkWriteFailure, error) {
		return len(qs) - 1, []repository.BulkWriteFailure{{Index: 1, Message: "duplicate key"}}, nil
	}
	staging := newMemStaging()
	svc := newImportService(qr, staging)

	v, err := svc.Validate(context.Background(), []ImportRow{validImportRow(), validImportRow()}, "admin-1")
	require.NoError(t, err)

	result, err := svc.Confirm(context.Background(), v.TempFileName)
	require.NoError(t, err)

	assert.Equal(t, 1, result.SuccessfullyImported)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].Row)
	assert.Equal(t, "duplicate key", result.Errors[0].Error)
}

func TestConfirmUnknownBatch(t *testing.T) {
	svc := newImportService(newFakeQuestionRepo(), newMemStaging())

	_, err := svc.Confirm(context.Background(), "import_123_deadbeef")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestConfirmInsertErrorKeepsBatchStaged(t *testing.T) {
	qr := newFakeQuestionRepo()
	qr.insertManyFn = func([]*model.Question) (int, []repository.BulkWriteFailure, error) {
		return 0, nil, errors.New("connection reset")
	}
	staging := newMemStaging()
	svc := newImportService(qr, staging)

	v, err := svc.Validate(context.Background(), []ImportRow{validImportRow()}, "admin-1")
	require.NoError(t, err)

	_, err = svc.Confirm(context.Background(), v.TempFileName)
	require.Error(t, err)

	staged, err := staging.Get(context.Background(), v.TempFileName)
	require.NoError(t, err)
	assert.Len(t, staged, 1, "batch must survive a failed commit for retry")
}

func TestCancelIsIdempotent(t *testing.T) {
	staging := newMemStaging()
	svc := newImportService(newFakeQuestionRepo(), staging)

	v, err := svc.Validate(context.Background(), []ImportRow{validImportRow()}, "admin-1")
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(context.Background(), v.TempFileName))
	require.NoError(t, svc.Cancel(context.Background(), v.TempFileName))
	assert.NoError(t, svc.Cancel(context.Background(), "never-existed"))
}

func TestTempFileNameFormat(t *testing.T) {
	svc := newImportService(newFakeQuestionRepo(), newMemStaging())

	v, err := svc.Validate(context.Background(), []ImportRow{validImportRow()}, "admin-1")
	require.NoError(t, err)

	parts := strings.Split(v.TempFileName, "_")
	require.Len(t, parts, 3)
	assert.Equal(t, "import", parts[0])
	_, err = strconv.ParseInt(parts[1], 10, 64)
	assert.NoError(t, err)
	assert.Len(t, parts[2], 8)
}

func subjectSet() map[string]bool {
	set := make(map[string]bool, len(testSubjects))
	for _, n := range testSubjects {
		set[n] = true
	}
	return set
}
