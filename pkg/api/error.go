package api

import (
	"errors"
	"net/http"
)

// Error represents an error that occurred while handling a request.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

func NewBadRequestError(message string) *Error {
	return &Error{StatusCode: http.StatusBadRequest, Message: message}
}

func NewNotFoundError(message string) *Error {
	return &Error{StatusCode: http.StatusNotFound, Message: message}
}

func NewInternalServerError(message string) *Error {
	return &Error{StatusCode: http.StatusInternalServerError, Message: message}
}

// StatusCode returns the status carried by err, or 500 when err is not an *Error.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return http.StatusInternalServerError
}
