package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Logging LoggingConfig `toml:"logging"`
	Storage StorageConfig `toml:"storage"`
	Parser  ParserConfig  `toml:"parser"`
	Debrief DebriefConfig `toml:"debrief"`
	Metrics MetricsConfig `toml:"metrics"`
}

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	Host                string   `toml:"host"`
	Port                int      `toml:"port"`
	CORSAllowedOrigins  []string `toml:"cors_allowed_origins"`
	ReadTimeoutSeconds  int      `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds int      `toml:"write_timeout_seconds"`
	MaxUploadBytes      int64    `toml:"max_upload_bytes"`
}

// LoggingConfig represents the logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// StorageConfig represents the SQLite storage configuration
type StorageConfig struct {
	Path string `toml:"path"`
}

// ParserConfig represents the IGC parser configuration
type ParserConfig struct {
	// SkipMalformed continues past malformed fix records instead of
	// aborting the parse.
	SkipMalformed bool `toml:"skip_malformed"`
	// AltitudeOffsetM is the default altitude offset, in meters, applied
	// to GeoJSON projections when the request does not carry one.
	AltitudeOffsetM float64 `toml:"altitude_offset_m"`
}

// DebriefConfig represents the LLM flight-debrief configuration
type DebriefConfig struct {
	Enabled        bool   `toml:"enabled"`
	OpenAIAPIKey   string `toml:"openai_api_key"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// MetricsConfig represents the Prometheus metrics configuration
type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:                "0.0.0.0",
			Port:                8080,
			CORSAllowedOrigins:  []string{"*"},
			ReadTimeoutSeconds:  30,
			WriteTimeoutSeconds: 30,
			MaxUploadBytes:      16 << 20, // 16 MB
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Storage: StorageConfig{
			Path: "flightlog.db",
		},
		Parser: ParserConfig{
			SkipMalformed:   false,
			AltitudeOffsetM: 0,
		},
		Debrief: DebriefConfig{
			Enabled:        false,
			Model:          "gpt-4o-mini",
			TimeoutSeconds: 30,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Load loads the configuration from the given TOML file, applying
// defaults for any omitted fields.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage path must not be empty")
	}
	if c.Debrief.Enabled && c.Debrief.OpenAIAPIKey == "" {
		return fmt.Errorf("debrief is enabled but no OpenAI API key is configured")
	}
	return nil
}
