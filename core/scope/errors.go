package scope

import "errors"

var (
	// ErrInvalidTier is returned for a Tier outside Page..Application.
	ErrInvalidTier = errors.New("invalid attribute scope")
	// ErrNoSession is returned when the session tier is addressed explicitly but the request has no session.
	ErrNoSession = errors.New("no session for the current request")
	// ErrReleased is returned by a page context after Release.
	ErrReleased = errors.New("page context released")
	// ErrNotInitialized is returned by a page context that was never bound to a request.
	ErrNotInitialized = errors.New("page context not initialized")
	// ErrMissingStore is returned when Initialize is called without request or application stores.
	ErrMissingStore = errors.New("request and application stores are required")
)
