package gateway

import "time"

// Config holds gateway settings loaded from the environment.
type Config struct {
	RequestIDHeader      string        `env:"GATEWAY_REQUEST_ID_HEADER" envDefault:"X-Request-ID"`
	UseExistingRequestID bool          `env:"GATEWAY_USE_EXISTING_REQUEST_ID" envDefault:"true"`
	CompressWhitespace   bool          `env:"GATEWAY_COMPRESS_WHITESPACE" envDefault:"false"`
	SlowRequestThreshold time.Duration `env:"GATEWAY_SLOW_REQUEST_THRESHOLD" envDefault:"5s"`
	FileChunkSize        int           `env:"GATEWAY_FILE_CHUNK_SIZE" envDefault:"32768"`
}

// DefaultConfig returns the settings used when no Config is given.
func DefaultConfig() Config {
	return Config{
		RequestIDHeader:      "X-Request-ID",
		UseExistingRequestID: true,
		SlowRequestThreshold: 5 * time.Second,
		FileChunkSize:        32 << 10,
	}
}
