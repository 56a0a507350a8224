package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"cpainsight/internal/cleaner"
	"cpainsight/internal/service"
)

// DatasetHandler handles dataset ingestion endpoints
type DatasetHandler struct {
	ingestSvc *service.IngestService
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(ingestSvc *service.IngestService) *DatasetHandler {
	return &DatasetHandler{ingestSvc: ingestSvc}
}

// Upload handles POST /v1/datasets. The body is the raw long-format CSV
// export; the response reports what was cleaned and loaded, tagged with a
// generated dataset ID for client-side correlation.
func (h *DatasetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	rows, err := cleaner.ReadLongCSV(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid CSV: "+err.Error())
		return
	}

	records, err := h.ingestSvc.Ingest(r.Context(), rows)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"datasetId": uuid.New().String(),
		"rawRows":   len(rows),
		"records":   len(records),
		"students":  service.Students(records),
	})
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
