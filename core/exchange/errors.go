package exchange

import (
	"errors"
	"fmt"
)

var (
	// ErrResponseCommitted is returned when an operation needs an uncommitted response.
	ErrResponseCommitted = errors.New("response already committed")
	// ErrWriterUnavailable is returned when text output is flushed after the binary stream was used.
	ErrWriterUnavailable = errors.New("response writer unavailable")
	// ErrFlushFailed is returned when buffered output cannot reach the client.
	ErrFlushFailed = errors.New("failed to flush response")
	// ErrWebContextAlreadySet is returned by a second SetWebContext call.
	ErrWebContextAlreadySet = errors.New("web context already set")
	// ErrNilWebContext is returned when SetWebContext is called with nil.
	ErrNilWebContext = errors.New("web context is nil")
)

// TransportError reports a failure talking to the client. The request cannot
// continue after one.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("exchange %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is or wraps a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

func transportErr(op string, err error) error {
	return &TransportError{Op: op, Err: err}
}
