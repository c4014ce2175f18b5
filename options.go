package udf

import (
	"github.com/rs/zerolog"

	"github.com/hyperifyio/udf/internal/config"
)

// Config controls how a Reader locates and post-processes content.
type Config = config.Config

// DefaultConfig returns the configuration for standard UDF documents.
func DefaultConfig() Config { return config.Default() }

// LoadConfig layers the optional YAML or JSON file at path and the UDF_*
// environment variables over DefaultConfig and validates the result.
func LoadConfig(path string) (Config, error) { return config.Load(path) }

// Option customises a Reader.
type Option func(*Reader)

// WithConfig replaces the reader configuration. Options applied after it
// still take effect.
func WithConfig(cfg Config) Option {
	return func(r *Reader) { r.cfg = cfg }
}

// WithLogger sets the logger. The default is the global zerolog logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Reader) { r.log = l }
}

// WithStagingDir makes every read write the payload to a fresh directory
// under dir before parsing it. The directory is removed before the read
// returns. An empty dir means the system temp directory.
func WithStagingDir(dir string) Option {
	return func(r *Reader) {
		r.cfg.Staging = true
		r.cfg.StagingDir = dir
	}
}

// WithMaxPayloadBytes bounds the decompressed payload size. Zero disables
// the bound.
func WithMaxPayloadBytes(n int64) Option {
	return func(r *Reader) { r.cfg.MaxPayloadBytes = n }
}

// WithNormalization applies a Unicode normalization form ("nfc", "nfd",
// "nfkc", "nfkd") to text returned by Content.
func WithNormalization(form string) Option {
	return func(r *Reader) { r.cfg.Normalize = form }
}
