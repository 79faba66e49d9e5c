// Error taxonomy for completion attempts. Every failure that crosses the
// router boundary is collapsed into one of these kinds so callers and clients
// can react without inspecting transport details.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/matiasleandrokruk/vocable/internal/infra/aiconfig"
)

// ErrorKind is the closed set of completion failure categories.
type ErrorKind string

const (
	// KindUnreachable: the provider endpoint could not be reached or did not
	// serve a completion (connection refused, DNS failure, 5xx).
	KindUnreachable ErrorKind = "provider_unreachable"
	// KindAuthFailed: the provider rejected the configured credential (401/403).
	KindAuthFailed ErrorKind = "provider_auth_failed"
	// KindMalformedResponse: the provider answered but the body did not match
	// the expected schema.
	KindMalformedResponse ErrorKind = "provider_malformed_response"
	// KindTimeout: the attempt exceeded its deadline or the caller went away.
	KindTimeout ErrorKind = "provider_timeout"
	// KindConfigurationMissing: no routing configuration has been stored yet.
	KindConfigurationMissing ErrorKind = "configuration_missing"
)

// Error is a classified completion failure. It wraps the underlying cause so
// logs keep the detail while callers switch on Kind.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// classified wraps err under the given kind, preserving an existing
// classification if one is already present.
func classified(kind ErrorKind, err error) *Error {
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	return &Error{Kind: kind, Err: err}
}

// KindOf extracts the classification from err, defaulting to unreachable for
// anything that escaped classification.
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	if errors.Is(err, aiconfig.ErrNotConfigured) {
		return KindConfigurationMissing
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindTimeout
	}
	return KindUnreachable
}

// classifyTransport maps an http.Client error to a kind. Deadline and
// cancellation dominate: a request torn down by its context reports as a
// timeout even when the net layer wraps it.
func classifyTransport(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Error{Kind: KindTimeout, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, Err: err}
	}
	return &Error{Kind: KindUnreachable, Err: err}
}

// classifyStatus maps a non-2xx provider status to a kind.
func classifyStatus(code int, body string) *Error {
	err := fmt.Errorf("status %d: %s", code, truncate(body, 200))
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &Error{Kind: KindAuthFailed, Err: err}
	default:
		return &Error{Kind: KindUnreachable, Err: err}
	}
}

// truncate caps s at n bytes for log and error hygiene.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
