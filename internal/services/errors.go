// Path: internal/services/errors.go
package services

import "fmt"

// AppError is a custom error type that includes an HTTP status code.
// Business-rule violations carry 4xx codes; storage failures carry 500 and
// keep the underlying error for logging.
type AppError struct {
	Code    int    `json:"-"`
	Message string `json:"message"`
	Details string `json:"details"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("AppError: %s (Code: %d, Details: %s)", e.Message, e.Code, e.Details)
}

func (e *AppError) Unwrap() error {
	return e.Err
}
