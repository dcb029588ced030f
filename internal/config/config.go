// Package config handles configuration loading and defaults.
//
// Values are resolved in priority order: defaults, then the user config
// file, then the project config file, then environment variables, then
// CLI flags.
package config

// Default values.
const (
	DefaultStoreFile = "todos.json"
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// Config holds the full configuration for todos.
type Config struct {
	// Paths
	StoreFile  string `toml:"store_file"`
	SchemaFile string `toml:"schema_file"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// setDefaults fills cfg with the built-in defaults.
func setDefaults(cfg *Config) {
	cfg.StoreFile = DefaultStoreFile
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}
