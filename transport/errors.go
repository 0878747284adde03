// Package transport implements the request dispatch pipeline for the Algolia
// REST API: host selection, credential attachment, retry across hosts,
// response classification, and async task polling.
package transport

import (
	"errors"
	"fmt"
	nethttp "net/http"
)

// ErrorType identifies the category of a client error
type ErrorType string

const (
	// ConfigError indicates missing or invalid client configuration
	ConfigError ErrorType = "config"
	// NetworkError indicates a transport-level failure (no HTTP response obtained)
	NetworkError ErrorType = "network"
	// HTTPError indicates a non-2xx HTTP response
	HTTPError ErrorType = "http"
	// DecodeError indicates a malformed request or response body
	DecodeError ErrorType = "decode"
)

// ClientError is the common contract for all errors produced by the pipeline
type ClientError interface {
	error
	Type() ErrorType
}

// configError represents a configuration fault detected before any network attempt
type configError struct {
	message string
}

// NewConfigError creates a configuration error. Configuration faults are
// fatal and never consume retry budget.
func NewConfigError(message string) ClientError {
	return &configError{message: message}
}

func (e *configError) Error() string {
	return fmt.Sprintf("config error: %s", e.message)
}

func (e *configError) Type() ErrorType {
	return ConfigError
}

// networkError represents a transport-level failure
type networkError struct {
	message string
	err     error
}

// NewNetworkError creates a network error wrapping the transport cause
func NewNetworkError(message string, err error) ClientError {
	return &networkError{message: message, err: err}
}

func (e *networkError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("network error: %s: %v", e.message, e.err)
	}
	return fmt.Sprintf("network error: %s", e.message)
}

func (e *networkError) Type() ErrorType {
	return NetworkError
}

func (e *networkError) Unwrap() error {
	return e.err
}

// httpError represents a non-2xx response from the service
type httpError struct {
	message    string
	statusCode int
	body       []byte
}

// NewHTTPError creates an HTTP error carrying the status code and raw body
func NewHTTPError(message string, statusCode int, body []byte) ClientError {
	return &httpError{message: message, statusCode: statusCode, body: body}
}

func (e *httpError) Error() string {
	return fmt.Sprintf("HTTP error: %s (status %d)", e.message, e.statusCode)
}

func (e *httpError) Type() ErrorType {
	return HTTPError
}

// StatusCode returns the HTTP status code of the failed response
func (e *httpError) StatusCode() int {
	return e.statusCode
}

// Body returns the raw response body of the failed response
func (e *httpError) Body() []byte {
	return e.body
}

// decodeError represents a malformed body on either side of the wire
type decodeError struct {
	message string
	err     error
}

// NewDecodeError creates a decode error. Decode failures are terminal and
// never coerced to an empty body.
func NewDecodeError(message string, err error) ClientError {
	return &decodeError{message: message, err: err}
}

func (e *decodeError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("decode error: %s: %v", e.message, e.err)
	}
	return fmt.Sprintf("decode error: %s", e.message)
}

func (e *decodeError) Type() ErrorType {
	return DecodeError
}

func (e *decodeError) Unwrap() error {
	return e.err
}

// IsErrorType checks if an error is a ClientError of the given type
func IsErrorType(err error, errorType ErrorType) bool {
	if err == nil {
		return false
	}
	var clientErr ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type() == errorType
	}
	return false
}

// IsHTTPStatusError checks if an error is an HTTP error with the given status code
func IsHTTPStatusError(err error, statusCode int) bool {
	if err == nil {
		return false
	}
	var he *httpError
	if errors.As(err, &he) {
		return he.statusCode == statusCode
	}
	return false
}

// IsSuccessStatus reports whether the status code is in the 2xx range
func IsSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

// IsRetryable reports whether an attempt outcome may be retried against the
// next host in the failover sequence. Transport failures and 429/5xx
// statuses qualify; every other outcome is terminal.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var he *httpError
	if errors.As(err, &he) {
		return he.statusCode == nethttp.StatusTooManyRequests || he.statusCode >= 500
	}
	return IsErrorType(err, NetworkError)
}
