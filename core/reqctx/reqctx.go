package reqctx

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrymomot/webbridge/core/exchange"
	"github.com/dmitrymomot/webbridge/core/mapping"
	"github.com/dmitrymomot/webbridge/core/scope"
)

// ErrNilExchange is returned by New without an exchange.
var ErrNilExchange = errors.New("exchange is nil")

type pageContextKey struct{}

// RequestContext is the engine context of one request. It implements
// exchange.WebContext.
type RequestContext struct {
	ex       *exchange.Exchange
	resolver *mapping.Resolver
	webRoot  string

	mu          sync.RWMutex
	compress    bool
	attachments map[any]any
}

// Option configures a RequestContext.
type Option func(*RequestContext)

// WithResolver sets the resolver used by ResolvePath.
func WithResolver(r *mapping.Resolver) Option {
	return func(rc *RequestContext) {
		rc.resolver = r
	}
}

// WithWebRoot overrides the web root reported by the container.
func WithWebRoot(root string) Option {
	return func(rc *RequestContext) {
		rc.webRoot = root
	}
}

// WithCompressWhitespace sets the initial whitespace compression flag.
func WithCompressWhitespace(enabled bool) Option {
	return func(rc *RequestContext) {
		rc.compress = enabled
	}
}

// New creates the context for ex and attaches it as the exchange's web context.
func New(ex *exchange.Exchange, opts ...Option) (*RequestContext, error) {
	if ex == nil {
		return nil, ErrNilExchange
	}

	rc := &RequestContext{
		ex:          ex,
		attachments: make(map[any]any),
	}
	if c := ex.Container(); c != nil {
		rc.webRoot = c.WebRoot()
	}
	for _, opt := range opts {
		opt(rc)
	}

	if err := ex.SetWebContext(rc); err != nil {
		return nil, fmt.Errorf("attach request context: %w", err)
	}
	return rc, nil
}

// Exchange returns the exchange of this request.
func (rc *RequestContext) Exchange() *exchange.Exchange {
	return rc.ex
}

// WebRoot returns the absolute web root directory, or "".
func (rc *RequestContext) WebRoot() string {
	return rc.webRoot
}

// CompressWhitespace reports whether text output is whitespace-compressed.
func (rc *RequestContext) CompressWhitespace() bool {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return rc.compress
}

// SetCompressWhitespace changes the flag; it applies from the next flush.
func (rc *RequestContext) SetCompressWhitespace(enabled bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.compress = enabled
}

// ResolvePath maps a logical path the engine could not map itself.
func (rc *RequestContext) ResolvePath(logical string) (mapping.Entry, bool) {
	if rc.resolver == nil {
		return mapping.Entry{}, false
	}
	return rc.resolver.Resolve(logical)
}

// Attachment returns the adjunct stored under key.
func (rc *RequestContext) Attachment(key any) (any, bool) {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	v, ok := rc.attachments[key]
	return v, ok
}

// HasAttachment reports whether an adjunct is stored under key.
func (rc *RequestContext) HasAttachment(key any) bool {
	_, ok := rc.Attachment(key)
	return ok
}

// PutAttachment stores v under key, replacing any previous value.
func (rc *RequestContext) PutAttachment(key, v any) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.attachments[key] = v
}

// AttachOnce returns the adjunct under key, calling create to build it when
// absent. Concurrent callers for the same key see a single create call.
// A failed create stores nothing.
func (rc *RequestContext) AttachOnce(key any, create func() (any, error)) (any, error) {
	if v, ok := rc.Attachment(key); ok {
		return v, nil
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()

	if v, ok := rc.attachments[key]; ok {
		return v, nil
	}
	v, err := create()
	if err != nil {
		return nil, err
	}
	rc.attachments[key] = v
	return v, nil
}

// PageContext returns the page context of this request, creating and
// initializing it on first use.
func (rc *RequestContext) PageContext() (*scope.PageContext, error) {
	v, err := rc.AttachOnce(pageContextKey{}, func() (any, error) {
		sess, ok := rc.ex.Session()
		if !ok {
			sess = nil
		}
		pc := scope.New()
		if err := pc.Initialize(rc.ex.RequestAttributes(), sess, rc.ex.Application()); err != nil {
			return nil, fmt.Errorf("initialize page context: %w", err)
		}
		return pc, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*scope.PageContext), nil
}

// Release releases the page context if one was created. It is safe to call
// more than once.
func (rc *RequestContext) Release() {
	rc.mu.Lock()
	v, ok := rc.attachments[pageContextKey{}]
	delete(rc.attachments, pageContextKey{})
	rc.mu.Unlock()

	if ok {
		v.(*scope.PageContext).Release()
	}
}
