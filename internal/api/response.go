package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gobuild-crm/vishnu/internal/domain"
)

// ErrorResponse represents an error API response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// JSON writes a JSON response with the given status code
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Success writes the payload as the response body. Success payloads are
// emitted flat, matching the error shape {error, details}.
func Success(w http.ResponseWriter, status int, data interface{}) {
	JSON(w, status, data)
}

// Error writes an error JSON response
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Error: message})
}

// ErrorWithDetails writes an error JSON response with an operator hint
func ErrorWithDetails(w http.ResponseWriter, status int, message, details string) {
	JSON(w, status, ErrorResponse{Error: message, Details: details})
}

// DomainErrorToHTTP maps domain errors to HTTP status codes
func DomainErrorToHTTP(err error) int {
	if err == nil {
		return http.StatusOK
	}

	domainErr, ok := err.(*domain.DomainError)
	if !ok {
		return http.StatusInternalServerError
	}

	switch domainErr.Code {
	case domain.ErrCodeInvalidQuery:
		return http.StatusBadRequest
	case domain.ErrCodeValidation:
		return http.StatusBadRequest
	case domain.ErrCodeUnsupportedFormat:
		return http.StatusBadRequest
	case domain.ErrCodeExtractionFailure:
		return http.StatusUnprocessableEntity
	case domain.ErrCodeEmbeddingProvider:
		return http.StatusBadGateway
	case domain.ErrCodeGenerationProvider:
		return http.StatusBadGateway
	case domain.ErrCodeVectorStore:
		return http.StatusBadGateway
	case domain.ErrCodeConfiguration:
		return http.StatusInternalServerError
	case domain.ErrCodeInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// HandleError writes an appropriate error response based on the error type.
// Known misconfiguration signatures get a short operator hint instead of
// the raw error text.
func HandleError(w http.ResponseWriter, err error) {
	status := DomainErrorToHTTP(err)
	message, details := describeError(err)
	ErrorWithDetails(w, status, message, details)
}

func describeError(err error) (message, details string) {
	text := err.Error()

	switch {
	case strings.Contains(text, "OPENAI_API_KEY"):
		return "OpenAI API key not configured", "Set VISHNU_OPENAI_API_KEY in the environment"
	case strings.Contains(text, "DATABASE_URL"):
		return "Database not configured", "Set VISHNU_DATABASE_URL in the environment"
	case strings.Contains(text, "vector_records"):
		return "Vector index not found", "Run the database migrations to create the vector_records table"
	}

	if domainErr, ok := err.(*domain.DomainError); ok {
		if domainErr.Err != nil {
			return domainErr.Message, domainErr.Err.Error()
		}
		return domainErr.Message, ""
	}
	return text, ""
}
