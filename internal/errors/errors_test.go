package errors

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeAlreadyExists, http.StatusConflict},
		{CodeDuplicateRecord, http.StatusConflict},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeInvalidCredentials, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeValidation, http.StatusBadRequest},
		{CodeInternal, http.StatusInternalServerError},
		{Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestError_IsByCode(t *testing.T) {
	err := DuplicateRecord("you already have Sanchin Kata at Kyu 10")

	assert.True(t, errors.Is(err, ErrDuplicateRecord))
	assert.False(t, errors.Is(err, ErrAlreadyExists))

	wrapped := fmt.Errorf("create form: %w", err)
	assert.True(t, errors.Is(wrapped, ErrDuplicateRecord))
	assert.Equal(t, CodeDuplicateRecord, CodeOf(wrapped))
}

func TestWithCause_KeepsCodeAndCause(t *testing.T) {
	err := Unauthorized("invalid session").WithCause(io.ErrUnexpectedEOF)

	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "invalid session: unexpected EOF", err.Error())
}

func TestCodeOf_PlainError(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(io.EOF))
}

func TestFieldErrors(t *testing.T) {
	fields := map[string]string{"name": "is required"}
	err := fmt.Errorf("update: %w", ValidationWithDetails("validation failed", fields))
	assert.Equal(t, fields, FieldErrors(err))

	assert.Nil(t, FieldErrors(NotFound("form not found")))
	assert.Nil(t, FieldErrors(ErrValidation))
}

func TestWithDetails_DoesNotMutate(t *testing.T) {
	withDetails := ErrDuplicateRecord.WithDetails(map[string]string{"rank_number": "7"})

	assert.Nil(t, ErrDuplicateRecord.Details)
	assert.NotNil(t, withDetails.Details)
	assert.Equal(t, CodeDuplicateRecord, withDetails.Code)
}
