package op

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed request so callers (notably the bulk
// engine's retry executor) don't have to sniff status codes out of
// rendered message strings.
type ErrorKind int

const (
	// KindTransient covers network failures, timeouts, and 5xx responses.
	// Retrying these may succeed.
	KindTransient ErrorKind = iota

	// KindClient covers 4xx responses — a malformed or rejected request.
	// Retrying cannot succeed.
	KindClient
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindClient:
		return "client-error"
	default:
		return "unknown"
	}
}

// RequestError is the structured failure returned by every Client method.
// Status is 0 when the request never produced an HTTP response (connection
// failure, timeout).
type RequestError struct {
	Status  int
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("API error %d: %s", e.Status, e.Message)
	}
	return e.Message
}

func (e *RequestError) Unwrap() error { return e.Err }

// statusHints give actionable context for the 4xx codes users hit most.
// Recovered behavior: the remote instance returns terse error bodies, so
// the client annotates them.
var statusHints = map[int]string{
	400: "The request was malformed. Check field names and value types.",
	401: "Authentication failed. Verify OPENPROJECT_API_KEY.",
	403: "Permission denied. The API key's user lacks access to this resource.",
	404: "Resource not found. Verify the ID and that the API user can see it.",
	422: "The resource could not be processed. A field value is invalid or a required field is missing.",
}

// newStatusError builds a RequestError from an HTTP response status and body.
func newStatusError(status int, body string) *RequestError {
	kind := KindTransient
	if status >= 400 && status < 500 {
		kind = KindClient
	}
	msg := body
	if hint, ok := statusHints[status]; ok {
		msg = fmt.Sprintf("%s (%s)", body, hint)
	}
	return &RequestError{Status: status, Kind: kind, Message: msg}
}

// newTransportError wraps a failure that never produced an HTTP response.
func newTransportError(err error) *RequestError {
	return &RequestError{Kind: KindTransient, Message: err.Error(), Err: err}
}

// IsRetryable reports whether err represents a transient failure worth
// retrying. Errors that don't carry a classification (plain transport
// errors) are treated as transient.
func IsRetryable(err error) bool {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Kind == KindTransient
	}
	return true
}
