package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/prism-insight/prism-cli/internal/ingest"
	"github.com/prism-insight/prism-cli/internal/model"
	"github.com/prism-insight/prism-cli/internal/stats"
	"github.com/prism-insight/prism-cli/internal/store"
	"github.com/prism-insight/prism-cli/pkg/llm"
)

// errorBody is the JSON error envelope shared by every endpoint.
type errorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Warn("write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]errorBody{"error": {Code: code, Message: message}})
}

// writeStoreError maps store failures; anything but a missing dataset is a 500.
func writeStoreError(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", message)
		return
	}
	zap.L().Error("store operation failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "INTERNAL", "Internal server error")
}

// writeLLMError maps classified generation failures onto HTTP statuses.
func writeLLMError(w http.ResponseWriter, err error) {
	llmErr, ok := llm.AsError(err)
	if !ok {
		zap.L().Error("llm generation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, string(llm.CodeUnknown), "Analysis failed")
		return
	}

	var status int
	switch llmErr.Code {
	case llm.CodeTimeout:
		status = http.StatusGatewayTimeout
	case llm.CodeRateLimit:
		status = http.StatusTooManyRequests
	case llm.CodeAuth:
		status = http.StatusServiceUnavailable
	case llm.CodeInputTooLarge:
		status = http.StatusRequestEntityTooLarge
	case llm.CodeProvider:
		status = http.StatusBadGateway
	default:
		status = http.StatusInternalServerError
	}

	zap.L().Warn("llm generation failed",
		zap.String("code", string(llmErr.Code)),
		zap.Bool("retryable", llmErr.Retryable),
		zap.Error(err),
	)
	writeJSON(w, status, map[string]errorBody{"error": {
		Code:      string(llmErr.Code),
		Message:   llmErr.Message,
		Retryable: llmErr.Retryable,
	}})
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *apiServer) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Could not parse multipart upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Could not read upload")
		return
	}

	rows, err := ingest.ReadUpload(header.Filename, data)
	if err != nil {
		switch {
		case errors.Is(err, ingest.ErrUnsupportedFormat):
			writeError(w, http.StatusBadRequest, "UNSUPPORTED_FORMAT", "Only .csv and .xlsx files are supported")
		case errors.Is(err, ingest.ErrNotUTF8):
			writeError(w, http.StatusBadRequest, "INVALID_ENCODING", "File must be UTF-8 encoded")
		case errors.Is(err, ingest.ErrEmptyDataset):
			writeError(w, http.StatusBadRequest, "EMPTY_DATASET", "Dataset has no data rows")
		default:
			writeError(w, http.StatusBadRequest, "PARSE_ERROR", "Could not parse file")
		}
		return
	}

	dataset, err := s.store.CreateDataset(r.Context(), header.Filename, rows)
	if err != nil {
		writeStoreError(w, err, "Dataset not found")
		return
	}

	zap.L().Info("dataset uploaded",
		zap.String("dataset_id", dataset.ID),
		zap.String("filename", dataset.Filename),
		zap.Int("rows", dataset.Rows),
	)
	writeJSON(w, http.StatusCreated, dataset)
}

func (s *apiServer) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	datasets, err := s.store.ListDatasets(r.Context(), store.ListFilter{})
	if err != nil {
		writeStoreError(w, err, "Dataset not found")
		return
	}
	if datasets == nil {
		datasets = []model.Dataset{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"datasets": datasets})
}

func (s *apiServer) handleGetDataset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "datasetID")
	dataset, err := s.store.GetDataset(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "Dataset not found")
		return
	}
	writeJSON(w, http.StatusOK, dataset)
}

func (s *apiServer) handleDeleteDataset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "datasetID")
	if err := s.store.DeleteDataset(r.Context(), id); err != nil {
		writeStoreError(w, err, "Dataset not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "dataset_id": id})
}

func (s *apiServer) handleStats(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "datasetID")

	dataset, err := s.store.GetDataset(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "Dataset not found")
		return
	}
	rows, err := s.store.GetRows(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "Dataset not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"dataset": dataset,
		"stats":   stats.ProfileDataset(rows),
	})
}
