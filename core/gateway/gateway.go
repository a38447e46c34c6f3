package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/webbridge/core/cookie"
	"github.com/dmitrymomot/webbridge/core/decoder"
	"github.com/dmitrymomot/webbridge/core/exchange"
	"github.com/dmitrymomot/webbridge/core/logger"
	"github.com/dmitrymomot/webbridge/core/mapping"
	"github.com/dmitrymomot/webbridge/core/reqctx"
	"github.com/dmitrymomot/webbridge/core/session"
)

// Engine runs one request against its exchange.
type Engine interface {
	Execute(ctx context.Context, rc *reqctx.RequestContext) error
}

// EngineFunc adapts a function to Engine.
type EngineFunc func(ctx context.Context, rc *reqctx.RequestContext) error

func (f EngineFunc) Execute(ctx context.Context, rc *reqctx.RequestContext) error {
	return f(ctx, rc)
}

// Storage stages uploads and removes them after the request.
type Storage interface {
	decoder.Stager
	Remove(path string) error
}

type requestIDContextKey struct{}

// RequestIDFromContext returns the request ID assigned by the gateway.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDContextKey{}).(string)
	return id, ok
}

// Handler is the container entry point: it builds the exchange and request
// context for every request, runs the engine and always tears down.
type Handler struct {
	engine    Engine
	cfg       Config
	container exchange.Container
	resolver  *mapping.Resolver
	sessions  *session.Manager
	decoder   *decoder.Decoder
	storage   Storage
	cookies   cookie.Config
	logger    *slog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithConfig replaces the gateway settings.
func WithConfig(cfg Config) Option {
	return func(h *Handler) {
		h.cfg = cfg
	}
}

// WithContainer sets the host container. It also backs the mapping resolver.
func WithContainer(c exchange.Container) Option {
	return func(h *Handler) {
		h.container = c
	}
}

// WithSessions enables the session tier.
func WithSessions(m *session.Manager) Option {
	return func(h *Handler) {
		h.sessions = m
	}
}

// WithStorage sets where uploads are staged and how they are removed.
func WithStorage(s Storage) Option {
	return func(h *Handler) {
		h.storage = s
	}
}

// WithDecoder sets the body decoder, overriding the one built from WithStorage.
func WithDecoder(d *decoder.Decoder) Option {
	return func(h *Handler) {
		h.decoder = d
	}
}

// WithCookieConfig sets defaults for outgoing cookies.
func WithCookieConfig(cfg cookie.Config) Option {
	return func(h *Handler) {
		h.cookies = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// New creates a Handler running engine.
func New(engine Engine, opts ...Option) (*Handler, error) {
	if engine == nil {
		return nil, ErrNilEngine
	}

	h := &Handler{
		engine:  engine,
		cfg:     DefaultConfig(),
		cookies: cookie.DefaultConfig(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}

	if h.cfg.RequestIDHeader == "" {
		h.cfg.RequestIDHeader = "X-Request-ID"
	}
	if h.decoder == nil {
		decOpts := []decoder.Option{decoder.WithLogger(h.logger)}
		if h.storage != nil {
			decOpts = append(decOpts, decoder.WithStager(h.storage))
		}
		h.decoder = decoder.New(decOpts...)
	}
	if h.container != nil {
		h.resolver = mapping.NewResolver(h.container, mapping.WithLogger(h.logger))
	}
	return h, nil
}

// Resolver returns the mapping resolver, or nil without a container.
func (h *Handler) Resolver() *mapping.Resolver {
	return h.resolver
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	requestID := h.requestID(r)
	w.Header().Set(h.cfg.RequestIDHeader, requestID)

	ctx := context.WithValue(r.Context(), requestIDContextKey{}, requestID)
	r = r.WithContext(ctx)
	log := h.logger.With(logger.RequestID(requestID))

	exOpts := []exchange.Option{
		exchange.WithOwner(h),
		exchange.WithLogger(log),
		exchange.WithDecoder(h.decoder),
		exchange.WithCookieConfig(h.cookies),
		exchange.WithChunkSize(h.cfg.FileChunkSize),
	}
	if h.container != nil {
		exOpts = append(exOpts, exchange.WithContainer(h.container))
	}

	var ex *exchange.Exchange
	var sessions *session.Provider
	if h.sessions != nil {
		sessions = h.sessions.Provider(ctx, session.CookieWriterFunc(func(c *cookie.Cookie) error {
			return ex.AddCookie(c)
		}))
		exOpts = append(exOpts, exchange.WithSessions(sessions))
	}

	ex = exchange.New(w, r, exOpts...)
	defer h.removeUploads(ctx, log, ex)

	rc, err := reqctx.New(ex,
		reqctx.WithResolver(h.resolver),
		reqctx.WithCompressWhitespace(h.cfg.CompressWhitespace),
	)
	if err == nil {
		err = h.execute(ctx, rc)
		rc.Release()
	}

	if sessions != nil {
		if perr := sessions.Persist(); perr != nil {
			log.ErrorContext(ctx, "session persist failed",
				logger.Component("gateway"),
				logger.Error(perr),
			)
		}
	}

	if err != nil {
		h.fail(ctx, log, ex, err)
	}

	if ferr := ex.Flush(); ferr != nil {
		log.ErrorContext(ctx, "response flush failed",
			logger.Component("gateway"),
			logger.Error(ferr),
		)
	}

	h.logCompleted(ctx, log, ex, time.Since(start))
}

func (h *Handler) requestID(r *http.Request) string {
	if h.cfg.UseExistingRequestID {
		if id := r.Header.Get(h.cfg.RequestIDHeader); id != "" {
			return id
		}
	}
	return uuid.New().String()
}

func (h *Handler) execute(ctx context.Context, rc *reqctx.RequestContext) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrEnginePanic, p)
		}
	}()
	return h.engine.Execute(ctx, rc)
}

// fail logs err and, while the response is still uncommitted, replaces it
// with a generic 500.
func (h *Handler) fail(ctx context.Context, log *slog.Logger, ex *exchange.Exchange, err error) {
	log.ErrorContext(ctx, "request failed",
		logger.Component("gateway"),
		logger.Method(ex.Method()),
		logger.Path(ex.URI()),
		slog.Bool("transport", exchange.IsTransport(err)),
		logger.Error(err),
	)

	if ex.IsResponseStarted() {
		return
	}
	ex.SetHeader("Content-Type", "text/plain; charset=utf-8")
	ex.SetHeader("X-Content-Type-Options", "nosniff")
	ex.SetStatus(http.StatusInternalServerError)
	if serr := ex.SendBytes([]byte(http.StatusText(http.StatusInternalServerError) + "\n")); serr != nil {
		log.ErrorContext(ctx, "error response failed",
			logger.Component("gateway"),
			logger.Error(serr),
		)
	}
}

// removeUploads deletes every staged upload. Failures are logged and ignored.
func (h *Handler) removeUploads(ctx context.Context, log *slog.Logger, ex *exchange.Exchange) {
	remove := os.Remove
	if h.storage != nil {
		remove = h.storage.Remove
	}

	for _, up := range ex.DrainUploads() {
		if err := remove(up.Path); err != nil && !os.IsNotExist(err) {
			log.WarnContext(ctx, "staged upload not removed",
				logger.Component("gateway"),
				logger.Upload(up.Field, up.Path),
				logger.Error(err),
			)
		}
	}
}

func (h *Handler) logCompleted(ctx context.Context, log *slog.Logger, ex *exchange.Exchange, d time.Duration) {
	status := ex.Status()
	attrs := []slog.Attr{
		logger.Component("gateway"),
		logger.Event("response"),
		logger.Method(ex.Method()),
		logger.Path(ex.URI()),
		logger.StatusCode(status),
		logger.BytesOut(ex.BytesWritten()),
		logger.Latency(d),
		logger.Count("uploads", len(ex.Uploads())),
	}

	level := slog.LevelInfo
	switch {
	case status >= 500:
		level = slog.LevelError
	case status >= 400:
		level = slog.LevelWarn
	case d > h.cfg.SlowRequestThreshold && h.cfg.SlowRequestThreshold > 0:
		level = slog.LevelWarn
		attrs = append(attrs, slog.Bool("slow_request", true))
	}

	log.LogAttrs(ctx, level, "request completed", attrs...)
}
