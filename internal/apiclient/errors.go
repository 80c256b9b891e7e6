package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed API call.
type Kind int

const (
	// KindTransport covers network failures, timeouts and cancelled requests.
	KindTransport Kind = iota + 1
	// KindAuthorization covers 401 and 403 answers.
	KindAuthorization
	// KindUnexpected covers any other status, HTML pages and undecodable bodies.
	KindUnexpected
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindAuthorization:
		return "authorization"
	case KindUnexpected:
		return "unexpected"
	default:
		return "unknown"
	}
}

// htmlMessage is shown when a proxy or misconfigured base URL answers with a web page.
const htmlMessage = "Server returned HTML instead of JSON. Please check API endpoint."

// Error is returned by every Client method that fails.
type Error struct {
	Op        string
	Kind      Kind
	Status    int
	RequestID string
	HTML      bool
	Err       error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("api %s: %s", e.Op, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// UserMessage returns a short operator-facing description.
func (e *Error) UserMessage() string {
	switch {
	case e.HTML:
		return htmlMessage
	case e.Status == http.StatusForbidden:
		return "Access forbidden. Please check your credentials or API permissions."
	case e.Status == http.StatusUnauthorized:
		return "Authentication required. Please sign in again."
	case e.Kind == KindTransport:
		return "Server is unreachable."
	default:
		return fmt.Sprintf("Unexpected server response (status %d).", e.Status)
	}
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return 0
}

// IsForbiddenOrUnreachable reports whether err means the server could not be
// reached or refused access. The two cases are handled the same way by callers.
func IsForbiddenOrUnreachable(err error) bool {
	switch KindOf(err) {
	case KindTransport, KindAuthorization:
		return true
	default:
		return false
	}
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
