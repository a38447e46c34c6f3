// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package loads a .env file on first use (missing files are ignored) and
// uses the caarlos0/env library for parsing environment variables into struct
// fields.
//
// Basic usage:
//
//	import "github.com/dmitrymomot/webbridge/core/config"
//
//	type UploadConfig struct {
//		Dir     string `env:"UPLOAD_DIR"`
//		MaxSize int64  `env:"UPLOAD_MAX_SIZE" envDefault:"0"`
//	}
//
//	func main() {
//		var cfg UploadConfig
//
//		// Load with error handling
//		if err := config.Load(&cfg); err != nil {
//			log.Fatal(err)
//		}
//
//		// Or panic on failure (useful for startup)
//		config.MustLoad(&cfg)
//	}
//
// # Caching Behavior
//
// Each configuration type is loaded only once per application lifetime:
//
//	var cfg1 UploadConfig
//	config.Load(&cfg1) // Loads from environment
//
//	var cfg2 UploadConfig
//	config.Load(&cfg2) // Returns cached value, cfg1 == cfg2
//
// Different types are cached independently. Tests that need a fresh load can
// call Reset.
package config
