package serverutils

import "fmt"

// HTTPError carries a status code chosen by the service layer up to the
// error handler middleware.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

func NewBadRequest(message string) *HTTPError {
	return &HTTPError{Code: 400, Message: message}
}

func NewUnauthorized(message string) *HTTPError {
	return &HTTPError{Code: 401, Message: message}
}

func NewForbidden(message string) *HTTPError {
	return &HTTPError{Code: 403, Message: message}
}

func NewNotFound(message string) *HTTPError {
	return &HTTPError{Code: 404, Message: message}
}

func NewConflict(message string) *HTTPError {
	return &HTTPError{Code: 409, Message: message}
}

func NewUnprocessable(message string) *HTTPError {
	return &HTTPError{Code: 422, Message: message}
}
