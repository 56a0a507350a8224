package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"cpainsight/internal/memory"
	"cpainsight/internal/model"
	"cpainsight/internal/service"
)

// StudentHandler handles per-student record and query endpoints
type StudentHandler struct {
	store       memory.Store
	analysisSvc *service.AnalysisService
	narrative   *service.NarrativeService
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(store memory.Store, analysisSvc *service.AnalysisService, narrative *service.NarrativeService) *StudentHandler {
	return &StudentHandler{
		store:       store,
		analysisSvc: analysisSvc,
		narrative:   narrative,
	}
}

// GetRecords handles GET /v1/students/{studentId}/records
func (h *StudentHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	studentID := mux.Vars(r)["studentId"]

	records, err := h.store.Records(r.Context(), studentID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if records == nil {
		writeError(w, http.StatusNotFound, "no records for student")
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// queryRequest is the POST /query body: the structured query plus the
// original free-text question for the narrative stage.
type queryRequest struct {
	UserQuery string                `json:"userQuery"`
	Query     model.StructuredQuery `json:"query"`
}

// Query handles POST /v1/students/{studentId}/query
func (h *StudentHandler) Query(w http.ResponseWriter, r *http.Request) {
	studentID := mux.Vars(r)["studentId"]

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query.QueryType == "" {
		req.Query.QueryType = model.QueryGeneralPerformance
	}

	summary, err := h.analysisSvc.Analyze(r.Context(), studentID, req.Query)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	narrative, err := h.narrative.Narrate(r.Context(), summary, req.UserQuery)
	if err == nil {
		summary.Narrative = narrative
	}

	writeJSON(w, http.StatusOK, summary)
}

// GetSummary handles GET /v1/students/{studentId}/summary, returning the
// last consolidated analysis for the student.
func (h *StudentHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	studentID := mux.Vars(r)["studentId"]

	summary, err := h.store.Summary(r.Context(), studentID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if summary == nil {
		writeError(w, http.StatusNotFound, "no analysis for student")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
