package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"invoice-extractor/internal/classification"
	"invoice-extractor/internal/logger"
	"invoice-extractor/internal/models"
	"invoice-extractor/internal/probe"
	"invoice-extractor/internal/repositories"
	"invoice-extractor/internal/services"
)

// Extractor runs extractions and schema probes
type Extractor interface {
	Extract(ctx context.Context, table string, direction models.Direction) (*models.BatchResult, error)
	ProbeSchema(ctx context.Context, table string) (*models.ProbeReport, error)
}

type ExtractionHandler struct {
	extractor    Extractor
	defaultTable string
	log          zerolog.Logger
}

func NewExtractionHandler(extractor Extractor, defaultTable string) *ExtractionHandler {
	return &ExtractionHandler{
		extractor:    extractor,
		defaultTable: defaultTable,
		log:          logger.WithComponent("handlers"),
	}
}

type extractionRequest struct {
	Table     string `json:"table"`
	Direction string `json:"direction"`
}

func (h *ExtractionHandler) StartExtraction(w http.ResponseWriter, r *http.Request) {
	var request extractionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}
	}

	table := request.Table
	if table == "" {
		table = h.defaultTable
	}

	direction, err := classification.ParseDirection(request.Direction)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.extractor.Extract(r.Context(), table, direction)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRunInProgress):
			respondWithError(w, http.StatusConflict, "Extraction for this table is already in progress")
		case errors.Is(err, repositories.ErrInvalidTableName):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.log.Error().Err(err).Str("table", table).Msg("Extraction failed")
			respondWithError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	status := http.StatusOK
	if result.Stopped {
		status = http.StatusPartialContent
	}
	respondWithJSON(w, status, result)
}

func (h *ExtractionHandler) GetTableSchema(w http.ResponseWriter, r *http.Request) {
	table := mux.Vars(r)["table"]
	if table == "" {
		respondWithError(w, http.StatusBadRequest, "Table is required")
		return
	}

	report, err := h.extractor.ProbeSchema(r.Context(), table)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrInvalidTableName):
			respondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, probe.ErrSchemaUnavailable):
			respondWithError(w, http.StatusServiceUnavailable, err.Error())
		default:
			respondWithError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	respondWithJSON(w, http.StatusOK, report)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Error marshaling JSON response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
