package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Predefined error types for common scenarios
var (
	ErrInvalidRequest   = New(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format")
	ErrMissingParameter = New(http.StatusBadRequest, "MISSING_PARAMETER", "Required parameter is missing")
	ErrNotFound         = New(http.StatusNotFound, "NOT_FOUND", "Resource not found")
	ErrInternalServer   = New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
)

// FromError maps an engine error to the API error that should be returned to
// the caller. Fatal input-content errors are 422s because retrying the same
// upload cannot succeed; only corrected input can.
func FromError(err error) *APIError {
	var (
		missingHeader *MissingHeaderError
		emptyDataset  *EmptyDatasetError
		unreadable    *UnreadableFileError
		appErr        *AppError
	)

	switch {
	case stderrors.As(err, &missingHeader):
		return NewWithDetails(http.StatusUnprocessableEntity, "MISSING_HEADER", missingHeader.Error(),
			map[string]interface{}{"file": missingHeader.File, "columns": missingHeader.Columns})
	case stderrors.As(err, &emptyDataset):
		return NewWithDetails(http.StatusUnprocessableEntity, "EMPTY_DATASET", emptyDataset.Error(),
			map[string]interface{}{"file": emptyDataset.File})
	case stderrors.As(err, &unreadable):
		return NewWithDetails(http.StatusUnprocessableEntity, "UNREADABLE_FILE", unreadable.Error(),
			map[string]interface{}{"file": unreadable.File})
	case stderrors.As(err, &appErr) && appErr.Type == ErrTypeValidation:
		return New(http.StatusBadRequest, "VALIDATION_FAILED", appErr.Message)
	default:
		return ErrInternalServer
	}
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   *APIError `json:"error"`
}

// NewErrorResponse creates a new error response
func NewErrorResponse(err *APIError) *ErrorResponse {
	return &ErrorResponse{
		Success: false,
		Error:   err,
	}
}

// Render implements the render.Renderer interface
func (e *ErrorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return e.Error.Render(w, r)
}
