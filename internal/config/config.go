package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hyperifyio/udf/internal/textnorm"
)

const (
	DefaultExtension       = ".udf"
	DefaultMember          = "content.xml"
	DefaultElement         = "content"
	DefaultMaxPayloadBytes = 64 << 20
)

// Config holds runtime configuration for a document reader.
type Config struct {
	// Extension every document path must end with, compared case-sensitively.
	Extension string
	// Member is the archive entry holding the XML payload.
	Member string
	// Element is the local name looked up in the payload.
	Element string
	// MaxPayloadBytes bounds the decompressed member size; 0 disables the check.
	MaxPayloadBytes int64
	// Normalize names a Unicode normalization form applied to the result.
	Normalize string

	// Staging writes the member to disk before parsing instead of parsing
	// it from memory. StagingDir defaults to the system temp directory.
	Staging    bool
	StagingDir string
}

// Default returns the configuration matching the UDF format.
func Default() Config {
	return Config{
		Extension:       DefaultExtension,
		Member:          DefaultMember,
		Element:         DefaultElement,
		MaxPayloadBytes: DefaultMaxPayloadBytes,
	}
}

// Load builds a Config from defaults, the optional file at path and the
// UDF_* environment variables, in that order of increasing precedence.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		fc, err := LoadConfigFile(path)
		if err != nil {
			return cfg, err
		}
		ApplyFileConfig(&cfg, fc)
	}
	ApplyEnvOverrides(&cfg)
	if _, err := Resolve(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate performs minimal schema validation. The normalization form is
// checked by Resolve.
func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Extension) == "" {
		return errors.New("config: extension is required")
	}
	if strings.TrimSpace(cfg.Member) == "" {
		return errors.New("config: member is required")
	}
	if strings.TrimSpace(cfg.Element) == "" {
		return errors.New("config: element is required")
	}
	if cfg.MaxPayloadBytes < 0 {
		return errors.New("config: negative maxPayloadBytes is not allowed")
	}
	return nil
}

// Resolve validates cfg and parses its normalization form.
func Resolve(cfg Config) (textnorm.Form, error) {
	if err := Validate(cfg); err != nil {
		return textnorm.Form{}, err
	}
	form, err := textnorm.Parse(cfg.Normalize)
	if err != nil {
		return textnorm.Form{}, fmt.Errorf("config: %w", err)
	}
	return form, nil
}
