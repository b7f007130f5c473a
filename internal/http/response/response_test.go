package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/listenupapp/bestsellers/internal/errors"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSuccess(t *testing.T) {
	w := httptest.NewRecorder()

	Success(w, map[string]int{"records": 550}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	body := decode(t, w)
	assert.Equal(t, float64(EnvelopeVersion), body["v"])
	assert.Equal(t, true, body["success"])
	assert.Equal(t, map[string]any{"records": float64(550)}, body["data"])
	assert.NotContains(t, body, "error")
}

func TestTooManyRequests(t *testing.T) {
	w := httptest.NewRecorder()

	TooManyRequests(w, "slow down", nil)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, map[string]any{"code": "RATE_LIMITED", "message": "slow down"}, body["error"])
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "schema mismatch",
			err:        fmt.Errorf("reload: %w", domainerrors.SchemaMismatch("csv is missing required columns: Genre")),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "SCHEMA_MISMATCH",
			wantMsg:    "csv is missing required columns: Genre",
		},
		{
			name:       "validation",
			err:        domainerrors.Validation("bad year"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION",
			wantMsg:    "bad year",
		},
		{
			name:       "unknown",
			err:        fmt.Errorf("disk exploded"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL",
			wantMsg:    "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			HandleError(w, tt.err, nil)

			assert.Equal(t, tt.wantStatus, w.Code)
			errBody, ok := decode(t, w)["error"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, errBody["code"])
			assert.Equal(t, tt.wantMsg, errBody["message"])
		})
	}
}
