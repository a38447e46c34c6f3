package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/webbridge/core/cookie"
	"github.com/dmitrymomot/webbridge/core/logger"
)

// Manager handles session lifecycle including creation, retrieval, and expiration.
// The touchInterval determines how often sessions are automatically extended on access,
// reducing write operations to the store.
type Manager struct {
	store   Store
	cfg     Config
	cookies cookie.Config
	logger  *slog.Logger
}

// NewManager creates a session manager backed by store.
func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		cfg:     defaultConfig(),
		cookies: cookie.Config{Path: "/", HttpOnly: true, SameSite: string(cookie.SameSiteLax)},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TTL returns the session time-to-live duration.
func (m *Manager) TTL() time.Duration {
	return m.cfg.TTL
}

// CookieName returns the name of the session cookie.
func (m *Manager) CookieName() string {
	return m.cfg.CookieName
}

// GetByToken retrieves a session by token and validates expiration.
func (m *Manager) GetByToken(ctx context.Context, token string) (*Session, error) {
	s, err := m.store.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if s.IsExpired() {
		return nil, ErrExpired
	}
	return s, nil
}

// Lookup finds the live session named by the request's session cookie.
// A request without one is reported as false.
func (m *Manager) Lookup(ctx context.Context, r *http.Request) (*Session, bool) {
	c, ok := cookie.Lookup(cookie.Parse(r.Header), m.cfg.CookieName)
	if !ok || c.Value == "" {
		return nil, false
	}

	s, err := m.GetByToken(ctx, c.Value)
	if err != nil {
		if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrExpired) {
			m.logger.WarnContext(ctx, "session lookup failed",
				logger.Component("session"),
				logger.Error(err),
			)
		}
		return nil, false
	}
	return s, true
}

// Start creates a session and hands its cookie to out. The session is saved
// by the next Persist. A cookie out refuses, typically because the response
// is already committed, is logged; the session still serves this request.
func (m *Manager) Start(ctx context.Context, out CookieWriter) (*Session, error) {
	s, err := New(m.cfg.TTL)
	if err != nil {
		return nil, err
	}
	m.setCookie(ctx, out, m.cookie(s.Token, int(m.cfg.TTL.Seconds())))

	m.logger.DebugContext(ctx, "session started",
		logger.Component("session"),
		logger.Key("session_id", s.ID.String()),
	)
	return s, nil
}

// Expire hands out a cookie that removes the session cookie from the client.
func (m *Manager) Expire(ctx context.Context, out CookieWriter) {
	m.setCookie(ctx, out, m.cookie("", -1))
}

func (m *Manager) setCookie(ctx context.Context, out CookieWriter, c *cookie.Cookie) {
	if err := out.AddCookie(c); err != nil {
		m.logger.WarnContext(ctx, "session cookie not sent",
			logger.Component("session"),
			logger.Error(err),
		)
	}
}

func (m *Manager) cookie(value string, maxAge int) *cookie.Cookie {
	c := cookie.New(m.cfg.CookieName, value, cookie.WithMaxAge(maxAge))
	m.cookies.Apply(c)
	return c
}

// Persist handles all session persistence based on session state: deleted
// sessions are removed, modified ones saved, and the rest touched.
func (m *Manager) Persist(ctx context.Context, s *Session) error {
	if s.IsDeleted() {
		if err := m.store.Delete(ctx, s.ID); err != nil && !errors.Is(err, ErrNotFound) {
			return errors.Join(ErrDeleteSession, err)
		}
		return nil
	}

	s.Touch(m.cfg.TTL, m.cfg.TouchInterval)

	if s.IsModified() {
		if err := m.store.Save(ctx, s); err != nil {
			return errors.Join(ErrSaveSession, err)
		}
		s.markSaved()
	}
	return nil
}

// CleanupExpired removes all expired sessions from the store.
// Should be called periodically to prevent store growth.
func (m *Manager) CleanupExpired(ctx context.Context) (int64, error) {
	return m.store.DeleteExpired(ctx)
}
