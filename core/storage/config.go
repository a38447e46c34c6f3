package storage

// Config provides environment-based configuration for upload staging.
type Config struct {
	Dir      string `env:"UPLOAD_DIR" envDefault:""`
	FileMode uint32 `env:"UPLOAD_FILE_MODE" envDefault:"384"` // 0600
	MaxSize  int64  `env:"UPLOAD_MAX_SIZE" envDefault:"0"`
}
