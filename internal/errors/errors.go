package errors

import (
	"fmt"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeParsing    ErrorType = "PARSING"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeStorage    ErrorType = "STORAGE"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeConfig     ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// MissingHeaderError reports that a required column group was not found
// within the header-scan window of an input file. The file is unusable and
// the whole report run aborts.
type MissingHeaderError struct {
	File    string
	Columns []string
}

func (e *MissingHeaderError) Error() string {
	return fmt.Sprintf("could not find the header row in the %s file; it must contain a row with the columns: %s",
		e.File, strings.Join(e.Columns, ", "))
}

// NewMissingHeaderError creates a missing-header error for the named file
// and its required column names.
func NewMissingHeaderError(file string, columns []string) *MissingHeaderError {
	return &MissingHeaderError{File: file, Columns: columns}
}

// EmptyDatasetError reports that a header row was found but no data rows
// survived row-level validation.
type EmptyDatasetError struct {
	File string
}

func (e *EmptyDatasetError) Error() string {
	return fmt.Sprintf("the %s file contains no valid data rows; check the file content and format", e.File)
}

// NewEmptyDatasetError creates an empty-dataset error for the named file.
func NewEmptyDatasetError(file string) *EmptyDatasetError {
	return &EmptyDatasetError{File: file}
}

// UnreadableFileError reports that the spreadsheet-reading collaborator
// could not produce a grid at all.
type UnreadableFileError struct {
	File  string
	Cause error
}

func (e *UnreadableFileError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to read %q; ensure it is a valid CSV or XLSX file: %v", e.File, e.Cause)
	}
	return fmt.Sprintf("failed to read %q; ensure it is a valid CSV or XLSX file", e.File)
}

func (e *UnreadableFileError) Unwrap() error { return e.Cause }

// NewUnreadableFileError creates an unreadable-file error for the named file.
func NewUnreadableFileError(file string, cause error) *UnreadableFileError {
	return &UnreadableFileError{File: file, Cause: cause}
}
