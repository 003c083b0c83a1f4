package models

import (
	"fmt"
	"net/http"
)

// ErrorKind categorizes a failed chat exchange.
type ErrorKind int

const (
	ErrorKindTransport ErrorKind = iota // Request never produced an HTTP response
	ErrorKindStatus                     // Non-2xx HTTP status
	ErrorKindMalformed                  // 2xx with a body that is not valid JSON
)

// String returns the string representation of ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindTransport:
		return "Transport"
	case ErrorKindStatus:
		return "Status"
	case ErrorKindMalformed:
		return "Malformed"
	default:
		return "Unknown"
	}
}

// ExchangeError is returned by the chat client when a turn fails.
// Message is shown to the user as-is.
type ExchangeError struct {
	Kind       ErrorKind `json:"kind"`
	StatusCode int       `json:"status_code,omitempty"`
	Message    string    `json:"message"`
}

// Error implements the error interface
func (e *ExchangeError) Error() string {
	return e.Message
}

// NewTransportError wraps a network-level failure.
func NewTransportError(err error) *ExchangeError {
	return &ExchangeError{
		Kind:    ErrorKindTransport,
		Message: err.Error(),
	}
}

// NewStatusError builds the error for a non-2xx reply. serverMessage is the
// "error" field of the body; when empty a generic status message is used.
func NewStatusError(statusCode int, serverMessage string) *ExchangeError {
	msg := serverMessage
	if msg == "" {
		msg = fmt.Sprintf("HTTP error! status: %d", statusCode)
	}
	return &ExchangeError{
		Kind:       ErrorKindStatus,
		StatusCode: statusCode,
		Message:    msg,
	}
}

// NewMalformedError reports a success status whose body could not be decoded.
func NewMalformedError(err error) *ExchangeError {
	return &ExchangeError{
		Kind:       ErrorKindMalformed,
		StatusCode: http.StatusOK,
		Message:    fmt.Sprintf("malformed response: %v", err),
	}
}

// NewTooLargeError reports a reply body longer than limit bytes.
func NewTooLargeError(statusCode int, limit int) *ExchangeError {
	return &ExchangeError{
		Kind:       ErrorKindMalformed,
		StatusCode: statusCode,
		Message:    fmt.Sprintf("response too large: more than %d bytes", limit),
	}
}

// ModelErrorType categorizes backend model provider failures.
type ModelErrorType int

const (
	ModelErrorTransient ModelErrorType = iota // Network, timeout, 5xx
	ModelErrorRateLimit                       // 429
	ModelErrorFatal                           // Other 4xx, bad config
)

// String returns the string representation of ModelErrorType
func (t ModelErrorType) String() string {
	switch t {
	case ModelErrorTransient:
		return "Transient"
	case ModelErrorRateLimit:
		return "RateLimit"
	case ModelErrorFatal:
		return "Fatal"
	default:
		return "Unknown"
	}
}

// ModelError is returned by the backend LLM clients.
type ModelError struct {
	Type      ModelErrorType `json:"type"`
	Retryable bool           `json:"retryable"`
	Message   string         `json:"message"`
}

// Error implements the error interface
func (e *ModelError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// NewTransientModelError creates a retryable transient error
func NewTransientModelError(message string) *ModelError {
	return &ModelError{Type: ModelErrorTransient, Retryable: true, Message: message}
}

// NewRateLimitModelError creates a rate limit error
func NewRateLimitModelError(message string) *ModelError {
	return &ModelError{Type: ModelErrorRateLimit, Retryable: true, Message: message}
}

// NewFatalModelError creates a non-retryable error
func NewFatalModelError(message string) *ModelError {
	return &ModelError{Type: ModelErrorFatal, Retryable: false, Message: message}
}
