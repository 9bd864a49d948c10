package config

import "time"

// Config holds runtime settings for the ReadKeeper client.
//
// Fields:
//   - DatabasePath: path of the local SQLite database file.
//   - BookCacheDir: directory holding cached book binaries.
//   - SyncInterval: how often the background full sync runs.
//   - S3*: remote mirror connection settings. S3Endpoint is left empty for
//     AWS proper and set for S3-compatible servers (MinIO etc.).
//
// Units: SyncInterval is a time.Duration (e.g., 5*time.Minute).
type Config struct {
	DatabasePath string
	BookCacheDir string
	SyncInterval time.Duration

	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Prefix    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "readkeeper.db"
	c.BookCacheDir = "books"
	c.SyncInterval = 5 * time.Minute
	c.S3Region = "us-east-1"
	c.S3Bucket = "readkeeper"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
