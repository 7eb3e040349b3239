package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{Validation("bad range"), http.StatusBadRequest},
		{Parse("bad timestamp"), http.StatusUnprocessableEntity},
		{Load("missing file"), http.StatusInternalServerError},
		{RateLimit("slow down"), http.StatusTooManyRequests},
		{NotFound("nope"), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.StatusCode)
		})
	}
}

func TestHasCode(t *testing.T) {
	cause := stderrors.New("no such file")
	loadErr := LoadWrap(cause, "open dataset")
	wrapped := fmt.Errorf("startup: %w", loadErr)

	assert.True(t, HasCode(wrapped, CodeLoad))
	assert.False(t, HasCode(wrapped, CodeParse))
	assert.False(t, HasCode(cause, CodeLoad))
	assert.ErrorIs(t, wrapped, cause)

	nested := LoadWrap(ParseWrap(cause, "line 3"), "read dataset")
	assert.True(t, HasCode(nested, CodeParse))
}

func TestWriteError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	w := httptest.NewRecorder()

	WriteError(w, logger, Validation("start must not be after end"), "req-1")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code      string `json:"code"`
			Message   string `json:"message"`
			RequestID string `json:"request_id"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Equal(t, "req-1", body.Error.RequestID)
}

func TestWriteError_PlainError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	w := httptest.NewRecorder()

	WriteError(w, logger, stderrors.New("boom"), "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWriteSuccessWithNotice(t *testing.T) {
	w := httptest.NewRecorder()

	WriteSuccessWithNotice(w, []int{1, 2}, "range reset", map[string]string{"Cache-Control": "no-store"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "range reset", body["notice"])
}

func TestWriteSuccess_UnencodableData(t *testing.T) {
	w := httptest.NewRecorder()

	WriteSuccessWithNotice(w, map[string]float64{"total": math.Inf(1)}, "", map[string]string{"Cache-Control": "no-store"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Header().Get("Cache-Control"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, CodeInternal, body.Error.Code)
}
