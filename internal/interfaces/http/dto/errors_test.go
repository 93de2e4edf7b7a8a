package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeHasChildren, http.StatusUnprocessableEntity},
		{ErrCodeHasProducts, http.StatusUnprocessableEntity},
		{ErrCodeInvalidUndoToken, http.StatusBadRequest},
		{ErrCodeUndoTokenMismatch, http.StatusBadRequest},
		{ErrCodeDeleteFailed, http.StatusInternalServerError},
		{ErrCodeRestoreFailed, http.StatusInternalServerError},
		{"SOMETHING_UNMAPPED", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.status, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode("NOT_FOUND"))
	assert.Equal(t, ErrCodeInvalidUndoToken, NormalizeErrorCode("INVALID_UNDO_TOKEN"))
	assert.Equal(t, ErrCodeUndoTokenMismatch, NormalizeErrorCode("UNDO_TOKEN_MISMATCH"))
	assert.Equal(t, ErrCodeValidation, NormalizeErrorCode("INVALID_SKU"))
	// already-normalized and unknown codes pass through
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode(ErrCodeNotFound))
	assert.Equal(t, "CUSTOM_CODE", NormalizeErrorCode("CUSTOM_CODE"))
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-1", []ValidationDetail{
		{Field: "sku", Message: "This field is required"},
	})

	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 1)
}
