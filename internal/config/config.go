// Package config loads and exposes application configuration (TOML).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Default configuration values used when a field is missing in TOML.
const (
	DefaultConfigPath      = "camera-media.toml"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
	DefaultMaxPayloadBytes = 64 << 20

	// LogLevelEnv overrides the configured log level when set.
	LogLevelEnv = "IMAGE_MCP_LOG_LEVEL"
)

// Config is the root application configuration loaded from TOML.
type Config struct {
	Log    LogConfig    `toml:"log"`
	Decode DecodeConfig `toml:"decode"`
}

// LogConfig holds logging level and format (e.g. level=info, format=text).
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// DecodeConfig bounds what the file-backed fetch layer will hand to the decoder.
type DecodeConfig struct {
	// MaxPayloadBytes rejects payload files larger than this many bytes.
	MaxPayloadBytes int64 `toml:"max_payload_bytes"`

	// DefaultContentType is used when a request names no content type and the
	// file extension is not recognized. Empty means infer from the extension only.
	DefaultContentType string `toml:"default_content_type"`
}

// Defaults returns the configuration used when no file is present.
func Defaults() Config {
	return Config{
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Decode: DecodeConfig{
			MaxPayloadBytes: DefaultMaxPayloadBytes,
		},
	}
}

// Load reads and parses the TOML config file at path and applies default values for missing fields.
//
// A missing file at the default path is not an error; a missing file at an
// explicitly requested path is.
func Load(path string) (Config, error) {
	cfg := Defaults()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}

	if strings.TrimSpace(cfg.Log.Level) == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if strings.TrimSpace(cfg.Log.Format) == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if cfg.Decode.MaxPayloadBytes <= 0 {
		cfg.Decode.MaxPayloadBytes = DefaultMaxPayloadBytes
	}
	applyEnv(&cfg)

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if level := strings.TrimSpace(os.Getenv(LogLevelEnv)); level != "" {
		cfg.Log.Level = level
	}
}
