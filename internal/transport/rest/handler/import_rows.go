package handler

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"pyqbank/internal/apperr"
	"pyqbank/internal/service"
)

const maxImportBody = 10 << 20 // 10MB

// decodeImportRows turns the request into importer rows. JSON bodies carry
// rows directly; CSV uploads (raw or multipart "file" field) are parsed here
// so the import service never deals with file formats.
func decodeImportRows(r *http.Request) ([]service.ImportRow, error) {
	contentType := r.Header.Get("Content-Type")

	switch {
	case strings.Contains(contentType, "multipart/form-data"):
		if err := r.ParseMultipartForm(maxImportBody); err != nil {
			return nil, fmt.Errorf("%w: %v", apperr.ErrParse, err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("%w: file field is required", apperr.ErrParse)
		}
		defer file.Close()
		if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
			return nil, fmt.Errorf("%w: only CSV files are supported", apperr.ErrParse)
		}
		return parseCSVRows(file)

	case strings.Contains(contentType, "text/csv"):
		return parseCSVRows(io.LimitReader(r.Body, maxImportBody))

	default:
		var req struct {
			Rows []service.ImportRow `json:"rows"`
		}
		if err := json.NewDecoder(io.LimitReader(r.Body, maxImportBody)).Decode(&req); err != nil {
			return nil, fmt.Errorf("%w: %v", apperr.ErrParse, err)
		}
		return req.Rows, nil
	}
}

// parseCSVRows maps a headered CSV stream onto import rows. Option columns are
// named optionA..optionF. A malformed file aborts the whole call; that is the
// parse-error contract, row-level problems are the importer's job.
func parseCSVRows(r io.Reader) ([]service.ImportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrParse, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: file is empty or invalid format", apperr.ErrParse)
	}

	header := records[0]
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	field := func(record []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	rows := make([]service.ImportRow, 0, len(records)-1)
	for _, record := range records[1:] {
		row := service.ImportRow{
			Year:          field(record, "year"),
			ExamType:      field(record, "examType"),
			ExamName:      field(record, "examName"),
			Subject:       field(record, "subject"),
			Topic:         field(record, "topic"),
			SubTopic:      field(record, "subTopic"),
			QuestionText:  field(record, "questionText"),
			CorrectAnswer: field(record, "correctAnswer"),
			Explanation:   field(record, "explanation"),
			Difficulty:    field(record, "difficulty"),
			Marks:         field(record, "marks"),
			PaperNumber:   field(record, "paperNumber"),
			Keywords:      field(record, "keywords"),
			Tags:          field(record, "tags"),
		}
		options := map[string]string{}
		for _, label := range []string{"A", "B", "C", "D", "E", "F"} {
			if v := strings.TrimSpace(field(record, "option"+label)); v != "" {
				options[label] = v
			}
		}
		if len(options) > 0 {
			row.Options = options
		}
		rows = append(rows, row)
	}
	return rows, nil
}
