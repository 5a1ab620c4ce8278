package utils

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorMessage(t *testing.T) {
	base := errors.New("boom")
	err := E(CodeStorageFailed, "IngestionService.Process", "failed to download source object", base)

	assert.Equal(t, "IngestionService.Process: failed to download source object: boom", err.Error())
	assert.ErrorIs(t, err, base)
}

func TestIsCodeAndCodeOf(t *testing.T) {
	err := E(CodeTranscodeFailed, "op", "msg", nil)

	assert.True(t, IsCode(err, CodeTranscodeFailed))
	assert.False(t, IsCode(err, CodeStorageFailed))
	assert.Equal(t, CodeTranscodeFailed, CodeOf(err))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
	assert.False(t, IsCode(errors.New("plain"), CodeInternal))
}

func TestRetryable(t *testing.T) {
	assert.False(t, Retryable(E(CodeInvalidEvent, "", "", nil)))
	assert.False(t, Retryable(E(CodeUnsupportedFormat, "", "", nil)))
	assert.True(t, Retryable(E(CodeStorageFailed, "", "", nil)))
	assert.True(t, Retryable(E(CodeTranscodeFailed, "", "", nil)))
	assert.True(t, Retryable(E(CodeTranscriptionFailed, "", "", nil)))
	assert.True(t, Retryable(errors.New("plain")))
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		code Code
		want int
	}{
		{CodeInvalidEvent, http.StatusBadRequest},
		{CodeInvalidArgument, http.StatusBadRequest},
		{CodeUnsupportedFormat, http.StatusUnsupportedMediaType},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeNotFound, http.StatusNotFound},
		{CodeTimeout, http.StatusGatewayTimeout},
		{CodeStorageFailed, http.StatusBadGateway},
		{CodeTranscriptionFailed, http.StatusBadGateway},
		{CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(E(tc.code, "", "", nil)), string(tc.code))
	}
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain")))
}
