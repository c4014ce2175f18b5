package config

import (
	"os"
	"strconv"
	"strings"
)

// ApplyEnvOverrides overrides cfg fields with environment variables when the
// corresponding variables are set, so env takes precedence over a config file.
// Unparseable numeric or boolean values are ignored.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}

	if v := os.Getenv("UDF_EXTENSION"); v != "" {
		cfg.Extension = v
	}
	if v := os.Getenv("UDF_MEMBER"); v != "" {
		cfg.Member = v
	}
	if v := os.Getenv("UDF_ELEMENT"); v != "" {
		cfg.Element = v
	}
	if v := os.Getenv("UDF_NORMALIZE"); v != "" {
		cfg.Normalize = v
	}
	if v := os.Getenv("UDF_STAGING_DIR"); v != "" {
		cfg.StagingDir = v
	}

	if s := strings.TrimSpace(os.Getenv("UDF_MAX_PAYLOAD_BYTES")); s != "" {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil && n >= 0 {
			cfg.MaxPayloadBytes = n
		}
	}

	setBool := func(dst *bool, envKey string) {
		if s := strings.ToLower(strings.TrimSpace(os.Getenv(envKey))); s != "" {
			switch s {
			case "1", "true", "yes", "on":
				*dst = true
			case "0", "false", "no", "off":
				*dst = false
			}
		}
	}
	setBool(&cfg.Staging, "UDF_STAGING")
}
