package client

import (
	"errors"
	"fmt"
)

// TransportError is a network failure or a non-2xx response
type TransportError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("catalog %s: HTTP error status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("catalog %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError is a 2xx response whose envelope reports success=false
type APIError struct {
	Endpoint string
	Message  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog %s: %s", e.Endpoint, e.Message)
}

// DecodeError is a response body that is not the expected JSON
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("catalog %s: malformed response: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Error classes used in log fields
const (
	ClassTransport = "transport"
	ClassAPI       = "api"
	ClassDecode    = "decode"
	ClassUnknown   = "unknown"
)

// ErrorClass names the taxonomy bucket of err
func ErrorClass(err error) string {
	var te *TransportError
	var ae *APIError
	var de *DecodeError
	switch {
	case errors.As(err, &te):
		return ClassTransport
	case errors.As(err, &ae):
		return ClassAPI
	case errors.As(err, &de):
		return ClassDecode
	default:
		return ClassUnknown
	}
}

// IsCatalogError reports whether err is one of the catalog error classes
func IsCatalogError(err error) bool {
	return err != nil && ErrorClass(err) != ClassUnknown
}
