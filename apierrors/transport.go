package apierrors

import (
	"context"
	"errors"
	"net"
)

// FromTransportError classifies an error returned by http.Client.Do into an
// *HTTPTimeoutError or an *HTTPConnectionError. Cancellation by the caller's
// context is returned unchanged.
func FromTransportError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &HTTPTimeoutError{Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &HTTPTimeoutError{Err: err}
	}
	return &HTTPConnectionError{Err: err}
}
