package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"pyqbank/internal/service"
	"pyqbank/internal/transport/rest/handler"
	"pyqbank/internal/transport/rest/middleware"
)

// Container holds all dependencies for the router
type Container struct {
	SearchService   *service.SearchService
	QuestionService *service.QuestionService
	FacetService    *service.FacetService
	ImportService   *service.ImportService
	SubjectService  *service.SubjectService
	JWTSecret       string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	questionHandler := handler.NewQuestionHandler(c.SearchService, c.QuestionService, c.FacetService)
	adminHandler := handler.NewAdminHandler(c.QuestionService, c.ImportService)
	subjectHandler := handler.NewSubjectHandler(c.SubjectService)

	authMW := middleware.NewAuthMiddleware(c.JWTSecret)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/questions/search", questionHandler.Search).Methods("GET", "OPTIONS")
	v1.HandleFunc("/questions/filters/options", questionHandler.FilterOptions).Methods("GET", "OPTIONS")
	v1.HandleFunc("/questions/statistics", questionHandler.Statistics).Methods("GET", "OPTIONS")
	v1.HandleFunc("/questions/random", questionHandler.Random).Methods("GET", "OPTIONS")
	v1.HandleFunc("/questions/{id}", questionHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/questions/{id}/attempt", questionHandler.RecordAttempt).Methods("POST", "OPTIONS")
	v1.HandleFunc("/questions/{id}/bookmark", questionHandler.ToggleBookmark).Methods("POST", "OPTIONS")
	v1.HandleFunc("/subjects", subjectHandler.List).Methods("GET", "OPTIONS")
	v1.HandleFunc("/subjects/{name}/topics", subjectHandler.Topics).Methods("GET", "OPTIONS")

	// Admin routes (require admin auth)
	adminRoutes := v1.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(authMW.RequireAdmin)

	adminRoutes.HandleFunc("/questions", adminHandler.Create).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/questions/bulk-delete", adminHandler.BulkDelete).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/questions/import/validate", adminHandler.ImportValidate).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/questions/import/confirm", adminHandler.ImportConfirm).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/questions/import/cancel", adminHandler.ImportCancel).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/questions/{id}", adminHandler.Update).Methods("PUT", "OPTIONS")
	adminRoutes.HandleFunc("/questions/{id}", adminHandler.Delete).Methods("DELETE", "OPTIONS")
	adminRoutes.HandleFunc("/questions/{id}/verify", adminHandler.Verify).Methods("PATCH", "OPTIONS")
	adminRoutes.HandleFunc("/questions/{id}/duplicate", adminHandler.Duplicate).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/subjects/seed", subjectHandler.Seed).Methods("POST", "OPTIONS")

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
			allowedMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
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
