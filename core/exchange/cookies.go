package exchange

import (
	"fmt"

	"github.com/dmitrymomot/webbridge/core/cookie"
	"github.com/dmitrymomot/webbridge/core/logger"
)

// Cookies returns the incoming cookies in the order the client sent them.
// Each carries only its name and value.
func (e *Exchange) Cookies() []*cookie.Cookie {
	if e.inCookies == nil {
		e.inCookies = cookie.Parse(e.request.Header)
	}
	return e.inCookies
}

// Cookie finds an incoming cookie by name, ignoring case. The first match wins.
func (e *Exchange) Cookie(name string) (*cookie.Cookie, bool) {
	return cookie.Lookup(e.Cookies(), name)
}

// AddCookie appends a Set-Cookie header for c. Attributes c leaves unset are
// filled from the configured defaults first. The header is built by hand so
// every attribute, SameSite and Expires included, reaches the client.
func (e *Exchange) AddCookie(c *cookie.Cookie) error {
	if c == nil {
		return fmt.Errorf("add cookie: %w", cookie.ErrInvalidName)
	}
	e.cookies.Apply(c)

	if err := c.Validate(e.cookies.MaxSize); err != nil {
		e.logger.WarnContext(e.request.Context(), "cookie rejected",
			logger.Component("exchange"),
			logger.Key("cookie", c.Name),
			logger.Error(err),
		)
		return err
	}

	if e.IsResponseStarted() {
		return transportErr("add cookie", ErrResponseCommitted)
	}
	e.rw.Header().Add("Set-Cookie", c.String())
	return nil
}
