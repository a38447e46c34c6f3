package cookie

// Config provides environment-based defaults for outgoing cookies.
type Config struct {
	Path     string `env:"COOKIE_PATH" envDefault:""`
	Domain   string `env:"COOKIE_DOMAIN" envDefault:""`
	Secure   bool   `env:"COOKIE_SECURE" envDefault:"false"`
	HttpOnly bool   `env:"COOKIE_HTTP_ONLY" envDefault:"false"`
	SameSite string `env:"COOKIE_SAME_SITE" envDefault:""`
	MaxSize  int    `env:"COOKIE_MAX_SIZE" envDefault:"4096"`
}

// DefaultConfig returns a Config that adds no attributes the engine did not ask for.
func DefaultConfig() Config {
	return Config{
		MaxSize: MaxCookieSize,
	}
}

// Options converts the config into default options.
// Only non-zero values produce an option.
func (c Config) Options() []Option {
	opts := make([]Option, 0, 5)
	if c.Path != "" {
		opts = append(opts, WithPath(c.Path))
	}
	if c.Domain != "" {
		opts = append(opts, WithDomain(c.Domain))
	}
	if c.Secure {
		opts = append(opts, WithSecure(true))
	}
	if c.HttpOnly {
		opts = append(opts, WithHTTPOnly(true))
	}
	if c.SameSite != "" {
		opts = append(opts, WithSameSite(SameSite(c.SameSite)))
	}
	return opts
}

// Apply fills attributes the cookie leaves unset from the config defaults.
// Flags already set on the cookie are kept.
func (c Config) Apply(ck *Cookie) {
	defaults := applyOptions(Options{}, c.Options())
	if ck.Path == "" {
		ck.Path = defaults.Path
	}
	if ck.Domain == "" {
		ck.Domain = defaults.Domain
	}
	if ck.SameSite == "" {
		ck.SameSite = defaults.SameSite
	}
	ck.Secure = ck.Secure || defaults.Secure
	ck.HTTPOnly = ck.HTTPOnly || defaults.HTTPOnly
}
