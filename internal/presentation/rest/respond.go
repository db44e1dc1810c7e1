package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/bibbank/fraud-predictor/internal/application/dto"
)

// ErrorResponse is the JSON body of every non-2xx API response.
type ErrorResponse struct {
	Error  string           `json:"error"`
	Fields []dto.FieldError `json:"fields,omitempty"`
}

var internalErrorBody = []byte(`{"error":"internal error"}` + "\n")

// writeJSON encodes v before touching the response so an unencodable value
// becomes a 500 instead of a status line with an empty body.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err, "status", status)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write(internalErrorBody)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
