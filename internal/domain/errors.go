package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeInvalidQuery       = "INVALID_QUERY"
	ErrCodeUnsupportedFormat  = "UNSUPPORTED_FORMAT"
	ErrCodeExtractionFailure  = "EXTRACTION_FAILURE"
	ErrCodeEmbeddingProvider  = "EMBEDDING_PROVIDER_ERROR"
	ErrCodeVectorStore        = "VECTOR_STORE_ERROR"
	ErrCodeGenerationProvider = "GENERATION_PROVIDER_ERROR"
	ErrCodeConfiguration      = "CONFIGURATION_ERROR"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrEmptyQuery        = NewDomainError(ErrCodeInvalidQuery, "query text is required")
	ErrMissingFile       = NewDomainError(ErrCodeValidation, "no file provided")
	ErrMissingDocumentID = NewDomainError(ErrCodeValidation, "document id is required")
	ErrInvalidChunkSize  = NewDomainError(ErrCodeValidation, "chunk size must be positive")
	ErrOverlapTooLarge   = NewDomainError(ErrCodeValidation, "chunk overlap must be non-negative and smaller than chunk size")
	ErrEmptyDocumentText = NewDomainError(ErrCodeExtractionFailure, "document contains no extractable text")
)

// Configuration errors
var (
	ErrMissingOpenAIKey    = NewDomainError(ErrCodeConfiguration, "OPENAI_API_KEY is not configured")
	ErrMissingDatabaseURL  = NewDomainError(ErrCodeConfiguration, "DATABASE_URL is not configured")
	ErrStorageNotAvailable = NewDomainError(ErrCodeConfiguration, "object storage is not configured")
)

// NewUnsupportedFormatError reports a file type the extractor has no routine for.
func NewUnsupportedFormatError(fileType string) *DomainError {
	return NewDomainError(ErrCodeUnsupportedFormat, fmt.Sprintf("unsupported file type: %q", fileType))
}

// NewExtractionError wraps a failure from a format-specific extraction routine.
func NewExtractionError(fileType string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeExtractionFailure, fmt.Sprintf("failed to extract text from %s file", fileType), err)
}

// NewEmbeddingError wraps a failure from the embedding provider.
func NewEmbeddingError(err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeEmbeddingProvider, "embedding provider call failed", err)
}

// NewVectorStoreError wraps a failure from the vector index.
func NewVectorStoreError(op string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeVectorStore, fmt.Sprintf("vector store %s failed", op), err)
}

// NewGenerationError wraps a failure from the answer-generation provider.
func NewGenerationError(err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeGenerationProvider, "answer generation failed", err)
}
