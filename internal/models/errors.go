package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes forming the closed failure taxonomy of the catalog core.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeMalformedPayload    = "MALFORMED_PAYLOAD"
	CodeUnsupportedFileType = "UNSUPPORTED_FILE_TYPE"
	CodeStorageWrite        = "STORAGE_WRITE_ERROR"
	CodePersistenceConflict = "PERSISTENCE_CONFLICT"
	CodeNotFound            = "NOT_FOUND"
	CodeInternal            = "INTERNAL_ERROR"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors
func NewNotFoundError(resource string, key interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %v not found", resource, key),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewMalformedPayloadError(message string, err error) *AppError {
	return &AppError{
		Code:    CodeMalformedPayload,
		Message: message,
		Err:     err,
	}
}

func NewUnsupportedFileTypeError(message string) *AppError {
	return &AppError{
		Code:    CodeUnsupportedFileType,
		Message: message,
	}
}

func NewStorageWriteError(err error) *AppError {
	return &AppError{
		Code:    CodeStorageWrite,
		Message: "Failed to write asset to storage",
		Err:     err,
	}
}

func NewPersistenceConflictError(err error) *AppError {
	return &AppError{
		Code:    CodePersistenceConflict,
		Message: "Failed to persist record",
		Err:     err,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// IsCode reports whether err is an AppError carrying the given code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// StatusForError maps the error taxonomy to an HTTP status.
func StatusForError(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeValidation, CodeMalformedPayload:
		return fiber.StatusBadRequest
	case CodeUnsupportedFileType:
		return fiber.StatusUnsupportedMediaType
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodePersistenceConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	var appErr *AppError
	if errors.As(err, &appErr) {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
		if appErr.Err != nil {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
