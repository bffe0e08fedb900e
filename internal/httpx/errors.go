package httpx

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	ErrCodeTransport ErrorCode = "transport"
	ErrCodeStatus    ErrorCode = "http_status"
	ErrCodeDecode    ErrorCode = "invalid_json"
	ErrCodeCanceled  ErrorCode = "canceled"
	ErrCodeUnknown   ErrorCode = "unknown"
)

var (
	ErrTransport = errors.New("request failed")
	ErrDecode    = errors.New("invalid JSON in response")
)

// APIError is a non-2xx response. Body is the raw response text.
type APIError struct {
	Status int
	Body   string
	// Fallback replaces "Failed" in the message when Body is empty.
	Fallback string
}

func (e *APIError) Error() string {
	if e.Body != "" {
		return e.Body
	}
	prefix := e.Fallback
	if prefix == "" {
		prefix = "Failed"
	}
	return fmt.Sprintf("%s (%d)", prefix, e.Status)
}

// WithFallback returns err with the empty-body message prefix of its
// *APIError replaced. Other errors are returned unchanged.
func WithFallback(err error, fallback string) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	cp := *apiErr
	cp.Fallback = fallback
	return &cp
}

// Code classifies err for logging.
func Code(err error) ErrorCode {
	var apiErr *APIError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &apiErr):
		return ErrCodeStatus
	case errors.Is(err, ErrDecode):
		return ErrCodeDecode
	case errors.Is(err, ErrTransport):
		if isCanceled(err) {
			return ErrCodeCanceled
		}
		return ErrCodeTransport
	default:
		return ErrCodeUnknown
	}
}

// Message turns err into the text shown to the user. fallback is used when
// err carries no text of its own.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
