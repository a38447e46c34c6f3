package session

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/webbridge/core/cookie"
	"github.com/dmitrymomot/webbridge/core/logger"
	"github.com/dmitrymomot/webbridge/core/scope"
)

// CookieWriter receives the cookies the session tier emits.
// exchange.Exchange satisfies it.
type CookieWriter interface {
	AddCookie(c *cookie.Cookie) error
}

// CookieWriterFunc adapts a function to CookieWriter.
type CookieWriterFunc func(c *cookie.Cookie) error

// AddCookie calls f(c).
func (f CookieWriterFunc) AddCookie(c *cookie.Cookie) error {
	return f(c)
}

// HeaderCookies writes cookies straight into the headers of w, without
// checking whether the response has started.
func HeaderCookies(w http.ResponseWriter) CookieWriter {
	return CookieWriterFunc(func(c *cookie.Cookie) error {
		w.Header().Add("Set-Cookie", c.String())
		return nil
	})
}

// Provider resolves the session of a single request on first use and
// remembers it for Persist. It satisfies exchange.SessionProvider.
type Provider struct {
	m       *Manager
	ctx     context.Context
	out     CookieWriter
	current *Session
	looked  bool
}

// Provider returns a per-request provider. out receives the cookie of a
// session started or invalidated through the provider.
func (m *Manager) Provider(ctx context.Context, out CookieWriter) *Provider {
	return &Provider{m: m, ctx: ctx, out: out}
}

// Session returns the request's session, starting one when auto start is
// enabled and the request has none.
func (p *Provider) Session(r *http.Request) (scope.Store, bool) {
	if p.current != nil {
		return p.current, true
	}
	if p.looked && !p.m.cfg.AutoStart {
		return nil, false
	}
	p.looked = true

	if s, ok := p.m.Lookup(p.ctx, r); ok {
		p.current = s
		return s, true
	}
	if !p.m.cfg.AutoStart {
		return nil, false
	}

	s, err := p.m.Start(p.ctx, p.out)
	if err != nil {
		p.m.logger.ErrorContext(p.ctx, "session start failed",
			logger.Component("session"),
			logger.Error(err),
		)
		return nil, false
	}
	p.current = s
	return s, true
}

// Current returns the session resolved so far, or nil.
func (p *Provider) Current() *Session {
	return p.current
}

// Invalidate marks the current session for deletion and expires its cookie.
func (p *Provider) Invalidate() {
	if p.current == nil {
		return
	}
	p.current.Invalidate()
	p.m.Expire(p.ctx, p.out)
}

// Persist saves the current session, if any.
func (p *Provider) Persist() error {
	if p.current == nil {
		return nil
	}
	return p.m.Persist(p.ctx, p.current)
}
