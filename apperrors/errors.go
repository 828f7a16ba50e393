// Package apperrors defines the error taxonomy shared by the store,
// service and HTTP layers.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	CodeValidation  = "VALIDATION"
	CodeNotFound    = "NOT_FOUND"
	CodeUpload      = "UPLOAD"
	CodeRateLimited = "RATE_LIMITED"
	CodeInternal    = "INTERNAL"
)

// AppError carries a code, a message safe to show to callers and the
// underlying cause.
type AppError struct {
	code    string
	message string
	err     error
}

func (e *AppError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s", e.message, e.err.Error())
	}
	return e.message
}

// Code returns the error code.
func (e *AppError) Code() string {
	return e.code
}

// Message returns the caller-facing message without the wrapped cause.
func (e *AppError) Message() string {
	return e.message
}

func (e *AppError) Unwrap() error {
	return e.err
}

// New creates an AppError.
func New(code, message string, err error) *AppError {
	return &AppError{code: code, message: message, err: err}
}

func Validation(message string) error {
	return New(CodeValidation, message, nil)
}

func NotFound(message string) error {
	return New(CodeNotFound, message, nil)
}

func Upload(message string) error {
	return New(CodeUpload, message, nil)
}

// Internal wraps an unexpected failure. The message is what gets logged,
// callers only ever see a generic text.
func Internal(message string, err error) error {
	return New(CodeInternal, message, err)
}

// CodeOf returns the code of err, CodeInternal for foreign errors.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.code
	}
	return CodeInternal
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}

// HTTPStatus maps err to a response status code.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeValidation, CodeUpload:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the text to put in an error response.
func PublicMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.code != CodeInternal {
		return appErr.message
	}
	return "Something went wrong"
}
