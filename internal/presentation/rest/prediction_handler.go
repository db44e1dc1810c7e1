package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bibbank/fraud-predictor/internal/application/dto"
	"github.com/bibbank/fraud-predictor/internal/application/usecase"
)

const maxBodyBytes = 64 << 10

// PredictionHandler serves the JSON prediction API.
type PredictionHandler struct {
	predictFraud   *usecase.PredictFraud
	deriveFeatures *usecase.DeriveFeatures
	logger         *slog.Logger
}

// NewPredictionHandler creates a new JSON API handler.
func NewPredictionHandler(
	predictFraud *usecase.PredictFraud,
	deriveFeatures *usecase.DeriveFeatures,
	logger *slog.Logger,
) *PredictionHandler {
	return &PredictionHandler{
		predictFraud:   predictFraud,
		deriveFeatures: deriveFeatures,
		logger:         logger,
	}
}

// RegisterRoutes registers the API endpoints on the provided ServeMux.
func (h *PredictionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/predictions", h.Predict)
	mux.HandleFunc("POST /api/v1/features", h.Features)
}

// Predict handles POST /api/v1/predictions.
func (h *PredictionHandler) Predict(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	resp, err := h.predictFraud.Execute(r.Context(), req)
	if err != nil {
		h.writeUseCaseError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Features handles POST /api/v1/features.
func (h *PredictionHandler) Features(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	resp, err := h.deriveFeatures.Execute(r.Context(), req)
	if err != nil {
		h.writeUseCaseError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *PredictionHandler) decode(w http.ResponseWriter, r *http.Request) (dto.TransactionRequest, bool) {
	var req dto.TransactionRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.logger.Debug("rejected request body", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return dto.TransactionRequest{}, false
	}

	return req, true
}

func (h *PredictionHandler) writeUseCaseError(w http.ResponseWriter, r *http.Request, err error) {
	var inputErr *dto.InputError
	if errors.As(err, &inputErr) {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:  dto.ErrInvalidInput.Error(),
			Fields: inputErr.Fields,
		})
		return
	}

	h.logger.Error("prediction failed", "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "prediction failed")
}
