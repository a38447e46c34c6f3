package cookie

import (
	"errors"
	"fmt"
)

// Error variables define cookie codec failures.
var (
	// ErrInvalidName indicates the cookie name is empty or not an RFC 7230 token.
	ErrInvalidName = errors.New("invalid cookie name")

	// ErrInvalidPath indicates the path attribute contains forbidden octets.
	ErrInvalidPath = errors.New("invalid cookie path")

	// ErrInvalidDomain indicates the domain attribute contains forbidden octets.
	ErrInvalidDomain = errors.New("invalid cookie domain")

	// ErrCookieNotFound indicates the requested cookie doesn't exist in the request.
	ErrCookieNotFound = errors.New("cookie not found in request")
)

// ErrCookieTooLarge indicates the cookie exceeds the maximum allowed size.
type ErrCookieTooLarge struct {
	Name string
	Size int
	Max  int
}

// Error implements the error interface.
func (e ErrCookieTooLarge) Error() string {
	return fmt.Sprintf("cookie %q size %d exceeds maximum %d bytes", e.Name, e.Size, e.Max)
}
