package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  *Error
		want int
	}{
		{ValidationError("bad"), http.StatusBadRequest},
		{NotFoundError("gone"), http.StatusNotFound},
		{RateLimitedError("slow down"), http.StatusTooManyRequests},
		{UnavailableError("down", nil), http.StatusServiceUnavailable},
		{InternalError("boom", nil), http.StatusInternalServerError},
		{&Error{Type: "mystery"}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.HTTPStatus(), tt.err.Type)
	}
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ValidationError("bad").LogLevel())
	assert.Equal(t, slog.LevelDebug, RateLimitedError("slow down").LogLevel())
	assert.Equal(t, slog.LevelWarn, UnavailableError("down", nil).LogLevel())
	assert.Equal(t, slog.LevelError, InternalError("boom", nil).LogLevel())
}

func TestError_Message(t *testing.T) {
	assert.Equal(t, "validation: Text is required", ValidationError("Text is required").Error())

	cause := stderrors.New("connection refused")
	assert.Equal(t, "unavailable: store down: connection refused", UnavailableError("store down", cause).Error())
}

func TestToResponse_WithContext(t *testing.T) {
	resp := UnavailableError("Analysis could not be saved", nil).
		WithContext("sentiment", "positive").
		WithContext("score", 5).
		ToResponse()

	assert.Equal(t, "Analysis could not be saved", resp.Error)
	assert.Equal(t, TypeUnavailable, resp.Type)
	assert.Equal(t, map[string]any{"sentiment": "positive", "score": 5}, resp.Context)
}

func TestAsStructuredError(t *testing.T) {
	assert.Nil(t, AsStructuredError(nil))

	orig := NotFoundError("nope")
	wrapped := fmt.Errorf("handler: %w", orig)
	assert.Same(t, orig, AsStructuredError(wrapped))

	plain := stderrors.New("plain")
	got := AsStructuredError(plain)
	assert.Equal(t, TypeInternal, got.Type)
	assert.ErrorIs(t, got, plain)
}
