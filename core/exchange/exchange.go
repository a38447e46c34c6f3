package exchange

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/webbridge/core/cookie"
	"github.com/dmitrymomot/webbridge/core/decoder"
	"github.com/dmitrymomot/webbridge/core/scope"
)

// DefaultChunkSize is the read size used when streaming files to the client.
const DefaultChunkSize = 32 << 10

// Container is the host that owns the web root and application attributes.
type Container interface {
	RealPath(logical string) (string, bool)
	WebRoot() string
	Attributes() scope.Store
}

// SessionProvider looks up the session of a request. A request without a
// session is normal and reported as false.
type SessionProvider interface {
	Session(r *http.Request) (scope.Store, bool)
}

// WebContext is the engine's per-request context, attached after construction.
type WebContext interface {
	CompressWhitespace() bool
}

// Exchange adapts one net/http request/response pair for the engine.
// It is private to its request and must not be shared.
type Exchange struct {
	id       uuid.UUID
	request  *http.Request
	rw       *responseWriter
	owner    any
	logger   *slog.Logger
	decoder  *decoder.Decoder
	cookies  cookie.Config
	chunk    int
	fallback language.Tag

	container Container
	sessions  SessionProvider

	webContext WebContext
	attrs      *scope.MapStore
	appAttrs   scope.Store

	sessionOnce sync.Once
	session     scope.Store
	hasSession  bool

	text         *TextWriter
	status       int
	binary       bool
	forwarded    bool
	bodyConsumed bool
	bodyRead     bool
	body         Body
	inCookies    []*cookie.Cookie

	mu      sync.Mutex
	uploads []decoder.Upload
}

// Option configures an Exchange.
type Option func(*Exchange)

// WithContainer sets the host container.
func WithContainer(c Container) Option {
	return func(e *Exchange) {
		e.container = c
	}
}

// WithSessions sets the session provider.
func WithSessions(p SessionProvider) Option {
	return func(e *Exchange) {
		e.sessions = p
	}
}

// WithDecoder sets the body decoder used by FormMap.
func WithDecoder(d *decoder.Decoder) Option {
	return func(e *Exchange) {
		if d != nil {
			e.decoder = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Exchange) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithOwner records the handler that created the exchange.
func WithOwner(owner any) Option {
	return func(e *Exchange) {
		e.owner = owner
	}
}

// WithCookieConfig sets defaults applied to outgoing cookies and their size limit.
func WithCookieConfig(cfg cookie.Config) Option {
	return func(e *Exchange) {
		e.cookies = cfg
		if e.cookies.MaxSize <= 0 {
			e.cookies.MaxSize = cookie.MaxCookieSize
		}
	}
}

// WithMaxCookieSize sets the maximum serialized size of an outgoing cookie.
func WithMaxCookieSize(n int) Option {
	return func(e *Exchange) {
		if n > 0 {
			e.cookies.MaxSize = n
		}
	}
}

// WithChunkSize sets the read size used by SendFile.
func WithChunkSize(n int) Option {
	return func(e *Exchange) {
		if n > 0 {
			e.chunk = n
		}
	}
}

// WithDefaultLocale sets the locale reported when the client sends no Accept-Language.
func WithDefaultLocale(tag language.Tag) Option {
	return func(e *Exchange) {
		e.fallback = tag
	}
}

// New wraps w and r.
func New(w http.ResponseWriter, r *http.Request, opts ...Option) *Exchange {
	e := &Exchange{
		id:       uuid.New(),
		request:  r,
		rw:       newResponseWriter(w),
		logger:   slog.Default(),
		cookies:  cookie.DefaultConfig(),
		chunk:    DefaultChunkSize,
		fallback: language.English,
		attrs:    scope.NewMapStore(),
		status:   http.StatusOK,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.decoder == nil {
		e.decoder = decoder.New(decoder.WithLogger(e.logger))
	}
	if e.container != nil {
		e.appAttrs = e.container.Attributes()
	}
	if e.appAttrs == nil {
		e.appAttrs = scope.NewMapStore()
	}
	return e
}

// ID returns the unique identifier of this exchange.
func (e *Exchange) ID() uuid.UUID {
	return e.id
}

// Owner returns the value passed to WithOwner.
func (e *Exchange) Owner() any {
	return e.owner
}

// Request returns the wrapped request.
func (e *Exchange) Request() *http.Request {
	return e.request
}

// Container returns the host container, or nil.
func (e *Exchange) Container() Container {
	return e.container
}

// Logger returns the exchange logger.
func (e *Exchange) Logger() *slog.Logger {
	return e.logger
}

// SetWebContext attaches the engine context. It may be called once.
func (e *Exchange) SetWebContext(wc WebContext) error {
	if wc == nil {
		return ErrNilWebContext
	}
	if e.webContext != nil {
		return ErrWebContextAlreadySet
	}
	e.webContext = wc
	return nil
}

// WebContext returns the attached engine context, or nil.
func (e *Exchange) WebContext() WebContext {
	return e.webContext
}

func (e *Exchange) compressWhitespace() bool {
	return e.webContext != nil && e.webContext.CompressWhitespace()
}
