package rest

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		value      interface{}
		name       string
		wantError  string
		status     int
		wantStatus int
	}{
		{name: "encodable", value: ErrorResponse{Error: "bad"}, status: http.StatusTeapot, wantStatus: http.StatusTeapot, wantError: "bad"},
		{name: "infinite float", value: map[string]float64{"distance": math.Inf(1)}, status: http.StatusOK, wantStatus: http.StatusInternalServerError, wantError: "internal error"},
		{name: "NaN float", value: map[string]float64{"distance": math.NaN()}, status: http.StatusOK, wantStatus: http.StatusInternalServerError, wantError: "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			writeJSON(rec, tt.status, tt.value)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			var resp ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.wantError, resp.Error)
		})
	}
}
