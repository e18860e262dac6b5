// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests. Some sites
	// refuse bare Go clients, so the default mimics a desktop browser.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ExtractConfig holds settings for the URL metadata extractor.
type ExtractConfig struct {
	HTTPConfig `yaml:",inline"`

	// RatePerSecond caps outbound page fetches (default 1).
	RatePerSecond float64 `json:"rate_per_second" yaml:"rate_per_second"`

	// MaxRetries is the number of retries on HTTP 429 (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// MaxBodyBytes limits how much of a page is read (default 2 MiB).
	MaxBodyBytes int64 `json:"max_body_bytes" yaml:"max_body_bytes"`
}

// LookupConfig holds settings for DOI lookups against the OpenAlex API.
type LookupConfig struct {
	HTTPConfig `yaml:",inline"`

	// Mailto is sent as the mailto parameter for OpenAlex polite-pool access.
	Mailto string `json:"mailto" yaml:"mailto"`

	// APIKey is the optional OpenAlex premium key. It is read from the
	// secrets directory, never from config files.
	APIKey string `json:"-" yaml:"-"`

	// MaxRetries is the number of retries on HTTP 429 (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// LibraryConfig holds settings for the reference library store.
type LibraryConfig struct {
	// Path is the SQLite database file (e.g. "data/library.db").
	Path string `json:"path" yaml:"path"`
}

// ServerMode selects the gin engine mode.
type ServerMode string

const (
	ModeDebug   ServerMode = "debug"
	ModeRelease ServerMode = "release"
	ModeTest    ServerMode = "test"
)

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	// Addr is the listen address (default ":3000").
	Addr string `json:"addr" yaml:"addr"`

	// Mode is the gin mode: debug, release, or test.
	Mode ServerMode `json:"mode" yaml:"mode"`

	// ShutdownTimeout bounds graceful shutdown (default 10s).
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Config groups all component configurations.
type Config struct {
	Server  ServerConfig  `json:"server" yaml:"server"`
	Library LibraryConfig `json:"library" yaml:"library"`
	Extract ExtractConfig `json:"extract" yaml:"extract"`
	Lookup  LookupConfig  `json:"lookup" yaml:"lookup"`
}

// DefaultConfig returns the configuration used when no file or flag
// overrides a value.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":3000",
			Mode:            ModeRelease,
			ShutdownTimeout: 10 * time.Second,
		},
		Library: LibraryConfig{
			Path: "data/library.db",
		},
		Extract: ExtractConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   15 * time.Second,
				UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
			},
			RatePerSecond: 1,
			MaxRetries:    3,
			MaxBodyBytes:  2 << 20,
		},
		Lookup: LookupConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   15 * time.Second,
				UserAgent: "abnt-engine/1.0",
			},
			MaxRetries: 3,
		},
	}
}
