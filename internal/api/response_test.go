package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/courseloop/coursegw/internal/domain"
	"github.com/courseloop/coursegw/internal/searchsvc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusOK, map[string]string{"key": "value"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var result map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)
	assert.Equal(t, "value", result["key"])
}

func TestJSON_NilData(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusNoContent, nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Empty(t, w.Body.String())
}

func TestError(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, http.StatusBadRequest, "invalid input")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var result ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)
	assert.Equal(t, "invalid input", result.Error)
	assert.Empty(t, result.Detail)
}

func TestErrorWithDetail(t *testing.T) {
	w := httptest.NewRecorder()

	ErrorWithDetail(w, http.StatusBadGateway, "search-service error 500", "index unavailable")

	assert.Equal(t, http.StatusBadGateway, w.Code)

	var result ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)
	assert.Equal(t, "search-service error 500", result.Error)
	assert.Equal(t, "index unavailable", result.Detail)
}

func TestDomainErrorToHTTP(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, http.StatusOK},
		{"validation error", domain.ErrMissingCourseID, http.StatusBadRequest},
		{"transport error", domain.NewDomainError(domain.ErrCodeTransport, "unreachable"), http.StatusInternalServerError},
		{"upstream error", domain.NewDomainError(domain.ErrCodeUpstream, "bad response"), http.StatusBadGateway},
		{"generation error", domain.ErrEmptyAnswer, http.StatusBadGateway},
		{"not configured", domain.NewDomainError(domain.ErrCodeNotConfigured, "no generation backend"), http.StatusNotImplemented},
		{"internal error", domain.NewDomainError(domain.ErrCodeInternalError, "internal"), http.StatusInternalServerError},
		{"unknown domain error", domain.NewDomainError("UNKNOWN", "unknown"), http.StatusInternalServerError},
		{"wrapped domain error", fmt.Errorf("retrieval failed: %w", domain.NewDomainError(domain.ErrCodeTransport, "unreachable")), http.StatusInternalServerError},
		{"non-domain error", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DomainErrorToHTTP(tt.err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestHandleError_Upstream(t *testing.T) {
	w := httptest.NewRecorder()

	HandleError(w, fmt.Errorf("retrieval failed: %w", &searchsvc.UpstreamError{Status: 500, Body: "index unavailable"}))

	assert.Equal(t, http.StatusBadGateway, w.Code)

	var result ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)
	assert.Equal(t, "search-service error 500", result.Error)
	assert.Equal(t, "index unavailable", result.Detail)
}

func TestHandleError_Validation(t *testing.T) {
	w := httptest.NewRecorder()

	HandleError(w, domain.ErrMissingCourseID)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var result ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)
	assert.Contains(t, result.Error, "courseId is required")
}
