// Package errors provides standardized error handling for mangaread.
// It defines the error kinds the reader and server care about and helper
// functions for consistent creation, wrapping, and classification.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package functions that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// NotFound means the requested page or metadata resource does not exist.
	NotFound
	// TransportFailure means the connection or RPC exchange itself failed.
	TransportFailure
	// DecodeFailure means a payload arrived but could not be decoded.
	DecodeFailure
	// InvalidConfig means the configuration failed validation.
	InvalidConfig
)

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// FetchError represents a failure to retrieve a page or metadata from the
// remote page source. Index is -1 for metadata fetches.
type FetchError struct {
	ApplicationError
	index int
}

// NewFetchError creates a new fetch error for the given page index.
func NewFetchError(msg string, index int, kind ErrorKind, err error) *FetchError {
	return &FetchError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		index: index,
	}
}

// Error returns the fetch error message
func (e *FetchError) Error() string {
	if e.index >= 0 {
		if e.err != nil {
			return fmt.Sprintf("%s: page %d: %v", e.msg, e.index, e.err)
		}
		return fmt.Sprintf("%s: page %d", e.msg, e.index)
	}
	return e.ApplicationError.Error()
}

// Index returns the page index associated with the error
func (e *FetchError) Index() int {
	return e.index
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: InvalidConfig,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: Unknown,
	}
}

// KindOf returns the kind carried by the first kinded error in the chain,
// or Unknown if there is none.
func KindOf(err error) ErrorKind {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Kind()
	}
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return cfgErr.Kind()
	}
	var appErr *ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Kind()
	}
	return Unknown
}

// IsNotFound checks if the error is a missing page or metadata resource
func IsNotFound(err error) bool {
	return KindOf(err) == NotFound
}

// IsTransportFailure checks if the error is a connection-level failure
func IsTransportFailure(err error) bool {
	return KindOf(err) == TransportFailure
}

// IsDecodeFailure checks if the error is a malformed payload
func IsDecodeFailure(err error) bool {
	return KindOf(err) == DecodeFailure
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	return KindOf(err) == InvalidConfig
}
