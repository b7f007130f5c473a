package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByCode(t *testing.T) {
	err := SchemaMismatchf("missing columns: %v", []string{"Genre"})

	assert.True(t, Is(err, ErrSchemaMismatch))
	assert.False(t, Is(err, ErrInvalidRecord))

	wrapped := fmt.Errorf("load dataset: %w", err)
	assert.True(t, Is(wrapped, ErrSchemaMismatch))
}

func TestError_WithCause(t *testing.T) {
	cause := New("disk on fire")
	err := ErrInternal.WithCause(cause)

	assert.Equal(t, "internal error: disk on fire", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, ErrInternal.Unwrap(), "sentinel must not be mutated")
}

func TestError_WithDetails(t *testing.T) {
	err := ErrInvalidRecord.WithDetails(map[string]any{"row": 3})

	assert.Equal(t, CodeInvalidRecord, err.Code)
	assert.Equal(t, map[string]any{"row": 3}, err.Details)
	assert.Nil(t, ErrInvalidRecord.Details)
}

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeValidation, http.StatusBadRequest},
		{CodeSchemaMismatch, http.StatusUnprocessableEntity},
		{CodeInvalidRecord, http.StatusUnprocessableEntity},
		{CodeUnavailable, http.StatusServiceUnavailable},
		{CodeInternal, http.StatusInternalServerError},
		{Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}
