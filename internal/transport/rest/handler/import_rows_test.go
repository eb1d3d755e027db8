package handler

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyqbank/internal/apperr"
)

const sampleCSV = `year,examType,examName,subject,questionText,optionA,optionB,correctAnswer,keywords
2021,prelims,UPSC CSE,Polity,Which Article guarantees equality?,Article 14,Article 19,A,"equality, rights"
2019,mains,UPSC CSE,History,Discuss the Revolt of 1857.,Yes,No,A,revolt
`

func TestParseCSVRows(t *testing.T) {
	rows, err := parseCSVRows(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "2021", rows[0].Year)
	assert.Equal(t, "prelims", rows[0].ExamType)
	assert.Equal(t, "Polity", rows[0].Subject)
	assert.Equal(t, map[string]string{"A": "Article 14", "B": "Article 19"}, rows[0].Options)
	assert.Equal(t, "equality, rights", rows[0].Keywords)

	assert.Equal(t, "History", rows[1].Subject)
}

func TestParseCSVRowsMissingColumnsAreEmpty(t *testing.T) {
	rows, err := parseCSVRows(strings.NewReader("year,subject\n2020,Polity\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2020", rows[0].Year)
	assert.Empty(t, rows[0].QuestionText)
	assert.Nil(t, rows[0].Options)
}

func TestParseCSVRowsHeaderOnly(t *testing.T) {
	_, err := parseCSVRows(strings.NewReader("year,subject\n"))
	assert.ErrorIs(t, err, apperr.ErrParse)
}

func TestParseCSVRowsMalformed(t *testing.T) {
	_, err := parseCSVRows(strings.NewReader("year,subject\n\"unterminated,Polity\n"))
	assert.ErrorIs(t, err, apperr.ErrParse)
}

func TestDecodeImportRowsJSON(t *testing.T) {
	body := `{"rows":[{"year":"2021","subject":"Polity","options":{"A":"x","B":"y"}}]}`
	r := httptest.NewRequest("POST", "/v1/admin/questions/import/validate", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")

	rows, err := decodeImportRows(r)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2021", rows[0].Year)
	assert.Equal(t, "y", rows[0].Options["B"])
}

func TestDecodeImportRowsRawCSV(t *testing.T) {
	r := httptest.NewRequest("POST", "/v1/admin/questions/import/validate", strings.NewReader(sampleCSV))
	r.Header.Set("Content-Type", "text/csv")

	rows, err := decodeImportRows(r)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestDecodeImportRowsMultipart(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "questions.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	r := httptest.NewRequest("POST", "/v1/admin/questions/import/validate", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())

	rows, err := decodeImportRows(r)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestDecodeImportRowsRejectsNonCSVUpload(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "questions.xlsx")
	require.NoError(t, err)
	_, err = fw.Write([]byte("not a csv"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	r := httptest.NewRequest("POST", "/v1/admin/questions/import/validate", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())

	_, err = decodeImportRows(r)
	assert.ErrorIs(t, err, apperr.ErrParse)
}

func TestDecodeImportRowsBadJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/v1/admin/questions/import/validate", strings.NewReader("{not json"))
	r.Header.Set("Content-Type", "application/json")

	_, err := decodeImportRows(r)
	assert.ErrorIs(t, err, apperr.ErrParse)
}
