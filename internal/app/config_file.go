package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema. It supplies
// defaults only; explicit flags always win.
type FileConfig struct {
	URL       string `yaml:"url" json:"url"`
	Query     string `yaml:"query" json:"query"`
	QueryLang string `yaml:"queryLang" json:"queryLang"`
	Timeout   int    `yaml:"timeout" json:"timeout"`
	Check     bool   `yaml:"check" json:"check"`
	UserAgent string `yaml:"ua" json:"ua"`
	Verbose   bool   `yaml:"verbose" json:"verbose"`
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

// ApplyFileConfig overlays values from FileConfig into cfg for any fields
// that are currently unset/zero in cfg. Flags should already have been
// parsed; file config fills the gaps they left.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if cfg.URL == "" && fc.URL != "" {
		cfg.URL = fc.URL
	}
	if cfg.Query == "" && fc.Query != "" {
		cfg.Query = fc.Query
	}
	if cfg.QueryLang == "" && fc.QueryLang != "" {
		cfg.QueryLang = fc.QueryLang
	}
	if cfg.TimeoutSeconds == 0 && fc.Timeout > 0 {
		cfg.TimeoutSeconds = fc.Timeout
	}
	if !cfg.CheckMode && fc.Check {
		cfg.CheckMode = true
	}
	if cfg.UserAgent == "" && fc.UserAgent != "" {
		cfg.UserAgent = fc.UserAgent
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}
