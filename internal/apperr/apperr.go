// Package apperr defines the service error taxonomy and its HTTP mapping.
package apperr

import (
	"errors"
	"net/http"
)

// Code classifies an error for HTTP status mapping
type Code int

const (
	CodeValidation Code = iota + 1
	CodeNotFound
	CodeForbidden
	CodeConflict
	CodeUpload
	CodeDelete
	CodeMalformedURL
	CodeStorage
)

// Error is a classified application error
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status returns the HTTP status code for the error
func (e *Error) Status() int {
	switch e.Code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeForbidden:
		return http.StatusForbidden
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Code: CodeForbidden, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Code: CodeConflict, Message: msg}
}

func Upload(err error) *Error {
	return &Error{Code: CodeUpload, Message: "image upload failed", Err: err}
}

func Delete(err error) *Error {
	return &Error{Code: CodeDelete, Message: "image delete failed", Err: err}
}

func MalformedURL(msg string) *Error {
	return &Error{Code: CodeMalformedURL, Message: msg}
}

func Storage(err error) *Error {
	return &Error{Code: CodeStorage, Message: "storage operation failed", Err: err}
}

// CodeOf returns the code of err, or 0 when err carries no taxonomy code
func CodeOf(err error) Code {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return 0
}

// StatusOf returns the HTTP status for err, defaulting to 500 for
// unclassified errors
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Status()
	}
	return http.StatusInternalServerError
}
