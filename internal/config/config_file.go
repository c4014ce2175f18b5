package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the configuration file schema.
type FileConfig struct {
	Extension       string `yaml:"extension" json:"extension"`
	Member          string `yaml:"member" json:"member"`
	Element         string `yaml:"element" json:"element"`
	MaxPayloadBytes *int64 `yaml:"maxPayloadBytes" json:"maxPayloadBytes"`
	Normalize       string `yaml:"normalize" json:"normalize"`

	Staging struct {
		Enable *bool  `yaml:"enable" json:"enable"`
		Dir    string `yaml:"dir" json:"dir"`
	} `yaml:"staging" json:"staging"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays every value the file sets onto cfg. Fields the
// file leaves out keep their current value.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if fc.Extension != "" {
		cfg.Extension = fc.Extension
	}
	if fc.Member != "" {
		cfg.Member = fc.Member
	}
	if fc.Element != "" {
		cfg.Element = fc.Element
	}
	if fc.MaxPayloadBytes != nil {
		cfg.MaxPayloadBytes = *fc.MaxPayloadBytes
	}
	if fc.Normalize != "" {
		cfg.Normalize = fc.Normalize
	}
	if fc.Staging.Enable != nil {
		cfg.Staging = *fc.Staging.Enable
	}
	if fc.Staging.Dir != "" {
		cfg.StagingDir = fc.Staging.Dir
	}
}
