// Package apperr builds and inspects the categorized errors shared by every layer.
package apperr

import (
	"errors"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to categorized errors.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeInvalidIdentifier = "INVALID_IDENTIFIER"
	CodeForeignKey        = "FOREIGN_KEY_VIOLATION"
	CodeUnique            = "UNIQUE_VIOLATION"
	CodeCheck             = "CHECK_VIOLATION"
	CodeNotNull           = "NOT_NULL_VIOLATION"
	CodeInternal          = "INTERNAL_ERROR"
)

// Validation reports a malformed or missing request field.
func Validation(message string) *goerrors.Error {
	return goerrors.New(message, goerrors.CategoryValidation).WithTextCode(CodeValidation)
}

// FromValidation wraps a rule violation (typically ozzo-validation errors).
func FromValidation(err error) *goerrors.Error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, err.Error()).WithTextCode(CodeValidation)
}

// NotFound reports a missing entity.
func NotFound(message string) *goerrors.Error {
	return goerrors.New(message, goerrors.CategoryNotFound).WithTextCode(CodeNotFound)
}

// Internal wraps an infrastructure failure.
func Internal(err error, message string) *goerrors.Error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, message).WithTextCode(CodeInternal)
}

// CategoryOf returns the category of the first categorized error in the chain,
// or CategoryInternal when there is none.
func CategoryOf(err error) goerrors.Category {
	var e *goerrors.Error
	if errors.As(err, &e) {
		return e.Category
	}
	return goerrors.CategoryInternal
}

// Is reports whether err carries the given category.
func Is(err error, category goerrors.Category) bool {
	if err == nil {
		return false
	}
	return CategoryOf(err) == category
}

// TextCode returns the text code of the first categorized error in the chain.
func TextCode(err error) string {
	var e *goerrors.Error
	if errors.As(err, &e) && e.TextCode != "" {
		return e.TextCode
	}
	return CodeInternal
}

// Message returns the client facing message. Uncategorized errors never leak their text.
func Message(err error) string {
	var e *goerrors.Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "internal server error"
}

// HTTPStatus maps a categorized error to a response status.
func HTTPStatus(err error) int {
	switch CategoryOf(err) {
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
