// Package resilience holds the error taxonomy shared by the registry
// clients and the retry policy used by callers that sit above them. The
// registry client itself never retries; callers decide.
package resilience

import (
	"errors"
	"net"
	"strings"
	"syscall"
)

// TransientError marks a failure that is safe to retry at a higher
// layer: network timeouts, connection drops, upstream 5xx.
type TransientError struct {
	Err        error
	StatusCode int
}

func (e *TransientError) Error() string { return e.Err.Error() }

func (e *TransientError) Unwrap() error { return e.Err }

// NewTransientError wraps err as transient with an optional HTTP status.
func NewTransientError(err error, statusCode int) *TransientError {
	return &TransientError{Err: err, StatusCode: statusCode}
}

// MalformedQueryError marks a filter expression the upstream rejected.
// It indicates a programming error in the caller-built query, never a
// transient condition, so it is propagated rather than absorbed.
type MalformedQueryError struct {
	Dataset string
	Detail  string
}

func (e *MalformedQueryError) Error() string {
	return "malformed query against " + e.Dataset + ": " + e.Detail
}

// IsTransient reports whether err (or anything in its chain) is
// retryable: an explicit TransientError, a net timeout, or one of the
// usual connection-level failures.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var te *TransientError
	if errors.As(err, &te) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	// Wrapped client errors lose their type; fall back to message checks.
	msg := strings.ToLower(err.Error())
	for _, p := range []string{
		"connection reset by peer",
		"broken pipe",
		"temporary failure in name resolution",
		"no such host",
		"tls handshake timeout",
		"i/o timeout",
	} {
		if strings.Contains(msg, p) {
			return true
		}
	}

	return false
}

// IsMalformedQuery reports whether err carries a MalformedQueryError.
func IsMalformedQuery(err error) bool {
	var mq *MalformedQueryError
	return errors.As(err, &mq)
}

// IsTransientHTTPStatus reports whether an HTTP status code indicates a
// server-side condition worth retrying.
func IsTransientHTTPStatus(statusCode int) bool {
	switch statusCode {
	case 408, 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
