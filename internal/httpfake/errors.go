package httpfake

import "net"

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

// ErrTimeout is a net.Error reporting a timeout.
var ErrTimeout net.Error = timeoutError{}
