package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeValidation  ErrorType = "validation"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeAuth        ErrorType = "auth"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error represents an API error with type information
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	return e.Message
}

// APIErrorBody is the error shape the backend returns for non-2xx responses
type APIErrorBody struct {
	Detail     string `json:"detail"`
	Message    string `json:"message,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
}

// FromResponse builds an Error from a non-2xx HTTP response body.
// The message is the body's detail if present, else its message, else a
// synthesized "HTTP <status>: <statusText>" line. Empty or non-JSON bodies
// are tolerated.
func FromResponse(statusCode int, body []byte) *Error {
	message := fmt.Sprintf("HTTP %d: %s", statusCode, http.StatusText(statusCode))

	var apiErr APIErrorBody
	if len(body) > 0 && json.Unmarshal(body, &apiErr) == nil {
		if apiErr.Detail != "" {
			message = apiErr.Detail
		} else if apiErr.Message != "" {
			message = apiErr.Message
		}
	}

	return &Error{
		Type:    typeForStatus(statusCode),
		Message: message,
		Code:    statusCode,
	}
}

// NewNetworkError wraps a transport failure that never produced a response
func NewNetworkError(err error) *Error {
	return &Error{
		Type:    ErrorTypeNetwork,
		Message: fmt.Sprintf("network error: %v", err),
		Code:    0,
	}
}

// NewParsingError wraps a malformed success-path body
func NewParsingError(statusCode int, err error) *Error {
	return &Error{
		Type:    ErrorTypeParsing,
		Message: fmt.Sprintf("failed to parse response: %v", err),
		Code:    statusCode,
	}
}

// NewValidationError reports a locally detected precondition failure that
// never reached the network
func NewValidationError(message string) *Error {
	return &Error{
		Type:    ErrorTypeValidation,
		Message: message,
		Code:    0,
	}
}

func typeForStatus(statusCode int) ErrorType {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrorTypeAuth
	case http.StatusNotFound:
		return ErrorTypeNotFound
	case http.StatusTooManyRequests:
		return ErrorTypeRateLimit
	}
	if statusCode >= 500 {
		return ErrorTypeServerError
	}
	return ErrorTypeUnknown
}

// IsRetryable checks if an error type should be retried
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeNetwork, ErrorTypeRateLimit, ErrorTypeServerError:
		return true
	case ErrorTypeValidation, ErrorTypeAuth, ErrorTypeNotFound, ErrorTypeParsing:
		return false
	default:
		return false
	}
}

// IsRetryableStatusCode checks if an HTTP status code indicates a retryable error
func IsRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case 0: // Network error
		return true
	case 429: // Too Many Requests
		return true
	case 401, 403, 404: // Client errors that won't change
		return false
	default:
		return statusCode >= 500
	}
}
