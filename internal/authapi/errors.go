package authapi

import (
	"errors"
	"fmt"
)

// Fallback messages shown when the API did not supply one
const (
	MessageTransportFailure = "Failed to fetch"
	MessageRequestFailed    = "Request failed"
)

// ErrMalformedResponse is returned when the response body is not a JSON envelope
var ErrMalformedResponse = errors.New("malformed response body")

// TransportError means the request could not complete
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to send request to %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RejectionError means the API answered but refused the request, either with
// a non-2xx status or with isSuccess: false
type RejectionError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *RejectionError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = MessageRequestFailed
	}
	if e.Err != nil {
		return fmt.Sprintf("request rejected (status %d): %s: %v", e.StatusCode, msg, e.Err)
	}
	return fmt.Sprintf("request rejected (status %d): %s", e.StatusCode, msg)
}

func (e *RejectionError) Unwrap() error {
	return e.Err
}

// UserMessage converts an error from this package into the text shown to the
// user: the API message when present, a generic fallback otherwise
func UserMessage(err error) string {
	var rejection *RejectionError
	if errors.As(err, &rejection) {
		if rejection.Message != "" {
			return rejection.Message
		}
		return MessageRequestFailed
	}

	var transport *TransportError
	if errors.As(err, &transport) {
		return MessageTransportFailure
	}

	if errors.Is(err, ErrMalformedResponse) {
		return MessageRequestFailed
	}

	return MessageTransportFailure
}
