package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"invoice-extractor/internal/config"
	"invoice-extractor/internal/logger"
)

func SetupRouter(extractor Extractor, cfg *config.Config) *mux.Router {
	router := mux.NewRouter()

	extractionHandler := NewExtractionHandler(extractor, cfg.Source.Table)

	api := router.PathPrefix("/api/v1").Subrouter()

	api.Use(loggingMiddleware)
	api.Use(jsonContentTypeMiddleware)

	api.HandleFunc("/extractions", extractionHandler.StartExtraction).Methods(http.MethodPost)
	api.HandleFunc("/tables/{table}/schema", extractionHandler.GetTableSchema).Methods(http.MethodGet)

	router.HandleFunc("/health", healthCheckHandler).Methods(http.MethodGet)

	return router
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
	log := logger.WithComponent("http")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info().
			Str("remote", r.RemoteAddr).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	})
}

func jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status": "healthy",
	}
	respondWithJSON(w, http.StatusOK, response)
}

type ErrorResponse struct {
	Error string `json:"error"`
}
