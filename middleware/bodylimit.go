package middleware

import (
	"fmt"
	"io"
	"mime"
	"net/http"
)

// Common size constants for convenience.
const (
	KB int64 = 1024
	MB       = 1024 * KB
	GB       = 1024 * MB
)

// DefaultBodyLimit applies when BodyLimitConfig.MaxSize is not set.
const DefaultBodyLimit = 4 * MB

// BodyLimitConfig configures the request body limit middleware.
type BodyLimitConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(r *http.Request) bool

	// MaxSize is the maximum allowed size in bytes (default: 4MB)
	MaxSize int64

	// ContentTypeLimit overrides MaxSize per media type,
	// e.g. {"multipart/form-data": 32 * MB}.
	ContentTypeLimit map[string]int64

	// DisableContentLengthCheck skips the Content-Length header check
	// and only enforces the limit during body reading
	DisableContentLengthCheck bool
}

// BodyLimit restricts the size of incoming request bodies.
func BodyLimit(cfg BodyLimitConfig) func(http.Handler) http.Handler {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultBodyLimit
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			maxSize := cfg.limitFor(r.Header.Get("Content-Type"))

			if !cfg.DisableContentLengthCheck && r.ContentLength > maxSize {
				tooLarge(w, r.ContentLength, maxSize)
				return
			}

			if r.Body != nil && r.Body != http.NoBody {
				r.Body = http.MaxBytesReader(w, r.Body, maxSize)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (cfg BodyLimitConfig) limitFor(contentType string) int64 {
	if cfg.ContentTypeLimit == nil {
		return cfg.MaxSize
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return cfg.MaxSize
	}
	if limit, ok := cfg.ContentTypeLimit[mediaType]; ok {
		return limit
	}
	return cfg.MaxSize
}

func tooLarge(w http.ResponseWriter, size, limit int64) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Connection", "close")
	w.WriteHeader(http.StatusRequestEntityTooLarge)
	_, _ = io.WriteString(w, fmt.Sprintf("Request body too large. Size: %s, Maximum allowed: %s\n",
		formatBytes(size), formatBytes(limit)))
}

// formatBytes formats bytes into a human-readable string
func formatBytes(bytes int64) string {
	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d bytes", bytes)
	}
}
