package domain

import (
	"errors"
	"fmt"
)

// Error types for domain-specific errors
type ErrorType string

const (
	ErrorTypeValidation  ErrorType = "validation"
	ErrorTypeTooLarge    ErrorType = "payload_too_large"
	ErrorTypeUnsupported ErrorType = "unsupported_type"
	ErrorTypeConversion  ErrorType = "conversion"
	ErrorTypeCompression ErrorType = "compression"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeConfig      ErrorType = "config"
	ErrorTypeIO          ErrorType = "io"
)

// DomainError represents a domain-specific error with context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewError creates a new domain error
func NewError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func ValidationError(message string, err error) *DomainError {
	return NewError(ErrorTypeValidation, message, err)
}

func PayloadTooLargeError(message string, err error) *DomainError {
	return NewError(ErrorTypeTooLarge, message, err)
}

func UnsupportedTypeError(message string, err error) *DomainError {
	return NewError(ErrorTypeUnsupported, message, err)
}

func ConversionError(message string, err error) *DomainError {
	return NewError(ErrorTypeConversion, message, err)
}

func CompressionError(message string, err error) *DomainError {
	return NewError(ErrorTypeCompression, message, err)
}

func NotFoundError(message string, err error) *DomainError {
	return NewError(ErrorTypeNotFound, message, err)
}

func ConfigError(message string, err error) *DomainError {
	return NewError(ErrorTypeConfig, message, err)
}

func IOError(message string, err error) *DomainError {
	return NewError(ErrorTypeIO, message, err)
}

// TypeOf reports the domain error type of err, unwrapping as needed.
// Non-domain errors classify as conversion failures, the catch-all 500 class.
func TypeOf(err error) ErrorType {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Type
	}
	return ErrorTypeConversion
}
