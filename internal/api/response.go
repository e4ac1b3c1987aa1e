package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/courseloop/coursegw/internal/domain"
	"github.com/courseloop/coursegw/internal/searchsvc"
)

// ErrorResponse represents an error API response. Detail carries the raw
// upstream body when the failure came from a backend.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// JSON writes a JSON response with the given status code
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Error writes an error JSON response
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Error: message})
}

// ErrorWithDetail writes an error JSON response carrying upstream detail
func ErrorWithDetail(w http.ResponseWriter, status int, message, detail string) {
	JSON(w, status, ErrorResponse{Error: message, Detail: detail})
}

// DomainErrorToHTTP maps domain error codes to HTTP status codes
func DomainErrorToHTTP(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *domain.DomainError
	if !errors.As(err, &domainErr) {
		return http.StatusInternalServerError
	}

	switch domainErr.Code {
	case domain.ErrCodeValidation:
		return http.StatusBadRequest
	case domain.ErrCodeTransport:
		return http.StatusInternalServerError
	case domain.ErrCodeUpstream, domain.ErrCodeGeneration:
		return http.StatusBadGateway
	case domain.ErrCodeNotConfigured:
		return http.StatusNotImplemented
	case domain.ErrCodeInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// HandleError writes an appropriate error response based on the error type.
// Upstream failures surface the backend's status and body rather than a
// synthesized message; transport failures collapse to a fixed internal error.
func HandleError(w http.ResponseWriter, err error) {
	var upstreamErr *searchsvc.UpstreamError
	if errors.As(err, &upstreamErr) {
		ErrorWithDetail(w, http.StatusBadGateway,
			fmt.Sprintf("search-service error %d", upstreamErr.Status), upstreamErr.Body)
		return
	}

	Error(w, DomainErrorToHTTP(err), err.Error())
}
