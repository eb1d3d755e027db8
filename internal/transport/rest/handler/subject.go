package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"pyqbank/internal/service"
)

// SubjectHandler serves the subject taxonomy endpoints.
type SubjectHandler struct {
	subjectSvc *service.SubjectService
}

func NewSubjectHandler(subjectSvc *service.SubjectService) *SubjectHandler {
	return &SubjectHandler{subjectSvc: subjectSvc}
}

// List handles GET /v1/subjects
func (h *SubjectHandler) List(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.subjectSvc.GetActive(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "Subjects retrieved successfully", map[string]interface{}{"subjects": subjects})
}

// Topics handles GET /v1/subjects/{name}/topics
func (h *SubjectHandler) Topics(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	topics, err := h.subjectSvc.GetTopics(r.Context(), name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "Topics retrieved successfully", map[string]interface{}{"topics": topics})
}

// Seed handles POST /v1/admin/subjects/seed. One-time bootstrap; returns a
// conflict when the taxonomy already exists.
func (h *SubjectHandler) Seed(w http.ResponseWriter, r *http.Request) {
	inserted, err := h.subjectSvc.Seed(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, "Subjects seeded successfully", map[string]int{"inserted": inserted})
}
