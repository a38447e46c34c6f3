package session

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/webbridge/core/cookie"
)

// DefaultCookieName is the cookie carrying the session token.
const DefaultCookieName = "WBSESSIONID"

// Config holds session manager configuration.
type Config struct {
	TTL           time.Duration `env:"SESSION_TTL" envDefault:"24h"`           // Session time-to-live (idle timeout)
	TouchInterval time.Duration `env:"SESSION_TOUCH_INTERVAL" envDefault:"5m"` // Min time between activity updates (0 = disabled)
	CookieName    string        `env:"SESSION_COOKIE_NAME" envDefault:"WBSESSIONID"`
	AutoStart     bool          `env:"SESSION_AUTO_START" envDefault:"false"` // Create a session when the engine asks and none exists
}

// defaultConfig returns default configuration.
func defaultConfig() Config {
	return Config{
		TTL:           24 * time.Hour,  // Default idle timeout
		TouchInterval: 5 * time.Minute, // Default throttle for activity updates
		CookieName:    DefaultCookieName,
	}
}

// Option is a functional option for configuring the session manager.
type Option func(*Manager)

// WithConfig replaces the timing and cookie settings.
func WithConfig(cfg Config) Option {
	return func(m *Manager) {
		m.cfg = cfg
		if m.cfg.CookieName == "" {
			m.cfg.CookieName = DefaultCookieName
		}
	}
}

// WithTTL sets the session time-to-live.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.cfg.TTL = ttl
	}
}

// WithTouchInterval sets the minimum time between session activity updates.
// This prevents excessive storage writes.
// Set to 0 to touch on every request.
func WithTouchInterval(interval time.Duration) Option {
	return func(m *Manager) {
		m.cfg.TouchInterval = interval
	}
}

// WithCookieName sets the name of the session cookie.
func WithCookieName(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.cfg.CookieName = name
		}
	}
}

// WithAutoStart makes providers start a session when none exists.
func WithAutoStart(enabled bool) Option {
	return func(m *Manager) {
		m.cfg.AutoStart = enabled
	}
}

// WithCookieConfig sets the attributes of the session cookie.
func WithCookieConfig(cfg cookie.Config) Option {
	return func(m *Manager) {
		m.cookies = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}
