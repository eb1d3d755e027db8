package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"pyqbank/internal/model"
	"pyqbank/internal/service"
	"pyqbank/internal/transport/rest/middleware"
)

// AdminHandler serves the authenticated content-management endpoints.
type AdminHandler struct {
	questionSvc *service.QuestionService
	importSvc   *service.ImportService
}

func NewAdminHandler(questionSvc *service.QuestionService, importSvc *service.ImportService) *AdminHandler {
	return &AdminHandler{
		questionSvc: questionSvc,
		importSvc:   importSvc,
	}
}

// Create handles POST /v1/admin/questions
func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var q model.Question
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.questionSvc.Create(r.Context(), &q, middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, "Question created successfully", created)
}

// Update handles PUT /v1/admin/questions/{id}
func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var in service.UpdateQuestionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.questionSvc.Update(r.Context(), id, in, middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "Question updated successfully", updated)
}

// Delete handles DELETE /v1/admin/questions/{id}
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.questionSvc.Delete(r.Context(), id, middleware.GetUserID(r.Context())); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "Question deleted successfully", nil)
}

// BulkDelete handles POST /v1/admin/questions/bulk-delete
func (h *AdminHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		QuestionIDs []string `json:"questionIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.QuestionIDs) == 0 {
		writeError(w, http.StatusBadRequest, "questionIds is required")
		return
	}

	deleted, err := h.questionSvc.BulkDelete(r.Context(), req.QuestionIDs, middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "Questions deleted successfully", map[string]int64{"deleted": deleted})
}

// Verify handles PATCH /v1/admin/questions/{id}/verify
func (h *AdminHandler) Verify(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	q, err := h.questionSvc.ToggleVerification(r.Context(), id, middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "Verification updated", q)
}

// Duplicate handles POST /v1/admin/questions/{id}/duplicate
func (h *AdminHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	dup, err := h.questionSvc.Duplicate(r.Context(), id, middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, "Question duplicated successfully", dup)
}

// ImportValidate handles POST /v1/admin/questions/import/validate. Rows arrive
// either as JSON or as an uploaded CSV file; parsing the file is transport
// glue, the importer itself only sees rows.
func (h *AdminHandler) ImportValidate(w http.ResponseWriter, r *http.Request) {
	rows, err := decodeImportRows(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	report, err := h.importSvc.Validate(r.Context(), rows, middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "File validated successfully", report)
}

// ImportConfirm handles POST /v1/admin/questions/import/confirm
func (h *AdminHandler) ImportConfirm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TempFileName string `json:"tempFileName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TempFileName == "" {
		writeError(w, http.StatusBadRequest, "tempFileName is required")
		return
	}

	result, err := h.importSvc.Confirm(r.Context(), req.TempFileName)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "Questions imported successfully", result)
}

// ImportCancel handles POST /v1/admin/questions/import/cancel
func (h *AdminHandler) ImportCancel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TempFileName string `json:"tempFileName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TempFileName == "" {
		writeError(w, http.StatusBadRequest, "tempFileName is required")
		return
	}

	if err := h.importSvc.Cancel(r.Context(), req.TempFileName); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "Import cancelled successfully", nil)
}
