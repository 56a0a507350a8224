package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"cpainsight/internal/memory"
	"cpainsight/internal/service"
	"cpainsight/internal/transport/rest/handler"
)

// Container holds all dependencies for the router
type Container struct {
	IngestService   *service.IngestService
	AnalysisService *service.AnalysisService
	Narrative       *service.NarrativeService
	Store           memory.Store
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	datasetHandler := handler.NewDatasetHandler(c.IngestService)
	studentHandler := handler.NewStudentHandler(c.Store, c.AnalysisService, c.Narrative)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/datasets", datasetHandler.Upload).Methods("POST", "OPTIONS")
	v1.HandleFunc("/students/{studentId}/records", studentHandler.GetRecords).Methods("GET", "OPTIONS")
	v1.HandleFunc("/students/{studentId}/query", studentHandler.Query).Methods("POST", "OPTIONS")
	v1.HandleFunc("/students/{studentId}/summary", studentHandler.GetSummary).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
