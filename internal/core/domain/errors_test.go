package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_IsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("update: %w", ErrBookNotFound)

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrValidation))

	derr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, "Book not found", derr.Message)
	assert.Equal(t, http.StatusNotFound, derr.HTTPStatus())
}

func TestError_WithCause(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := Upload("upload failed").WithCause(cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrUpload)
	assert.Equal(t, "upload failed: dial tcp: timeout", err.Error())
}

func TestCode_HTTPStatus(t *testing.T) {
	tests := map[Code]int{
		CodeValidation:   http.StatusBadRequest,
		CodeConflict:     http.StatusConflict,
		CodeUnauthorized: http.StatusUnauthorized,
		CodeInvalidToken: http.StatusUnauthorized,
		CodeTokenExpired: http.StatusUnauthorized,
		CodeNotFound:     http.StatusNotFound,
		CodeRateLimited:  http.StatusTooManyRequests,
		CodeUpload:       http.StatusNotImplemented,
		CodeInternal:     http.StatusInternalServerError,
		Code("other"):    http.StatusInternalServerError,
	}
	for code, want := range tests {
		assert.Equal(t, want, code.HTTPStatus(), code)
	}
}
