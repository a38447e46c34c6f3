package main

import (
	"time"

	"github.com/dmitrymomot/webbridge/core/cookie"
	"github.com/dmitrymomot/webbridge/core/gateway"
	"github.com/dmitrymomot/webbridge/core/server"
	"github.com/dmitrymomot/webbridge/core/session"
	"github.com/dmitrymomot/webbridge/core/storage"
	"github.com/dmitrymomot/webbridge/integration/database/redis"
)

// Config is the application configuration loaded from the environment.
type Config struct {
	AppName     string `env:"APP_NAME" envDefault:"webbridge"`
	Env         string `env:"APP_ENV" envDefault:"development"` // development, staging or production
	WebRoot     string `env:"WEB_ROOT" envDefault:"./www"`
	AliasesFile string `env:"ALIASES_FILE"`

	// SessionStore selects the session backend: "memory" or "redis".
	SessionStore           string        `env:"SESSION_STORE" envDefault:"memory"`
	SessionCleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"10m"`
	// SharedApplication keeps the application tier in Redis.
	SharedApplication bool `env:"SHARED_APPLICATION" envDefault:"false"`

	BodyLimit   int64 `env:"BODY_LIMIT" envDefault:"4194304"`    // 4MB
	UploadLimit int64 `env:"UPLOAD_LIMIT" envDefault:"33554432"` // 32MB, multipart bodies

	Server  server.Config
	Gateway gateway.Config
	Session session.Config
	Cookie  cookie.Config
	Storage storage.Config
	Redis   redis.Config
}

func (c Config) usesRedis() bool {
	return c.SessionStore == "redis" || c.SharedApplication
}
