package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema. Flags take
// precedence; file values fill in whatever the command line left unset.
type FileConfig struct {
	Query    string        `yaml:"query" json:"query"`
	NumLinks int           `yaml:"numLinks" json:"numLinks"`
	Result   string        `yaml:"result" json:"result"`
	Output   string        `yaml:"output" json:"output"`
	Language string        `yaml:"language" json:"language"`
	Timeout  time.Duration `yaml:"timeout" json:"timeout"`
	Debug    bool          `yaml:"debug" json:"debug"`
	Verbose  bool          `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from fc into cfg for fields the flags
// left at their defaults.
func ApplyFileConfig(cfg *Config, fc FileConfig, defaults Config) {
	if cfg == nil {
		return
	}
	if cfg.Query == defaults.Query && fc.Query != "" {
		cfg.Query = fc.Query
	}
	if cfg.NumLinks == defaults.NumLinks && fc.NumLinks > 0 {
		cfg.NumLinks = fc.NumLinks
	}
	if cfg.ResultMode == defaults.ResultMode && fc.Result != "" {
		cfg.ResultMode = fc.Result
	}
	if cfg.OutputDir == defaults.OutputDir && fc.Output != "" {
		cfg.OutputDir = fc.Output
	}
	if cfg.Language == defaults.Language && fc.Language != "" {
		cfg.Language = fc.Language
	}
	if cfg.Timeout == defaults.Timeout && fc.Timeout > 0 {
		cfg.Timeout = fc.Timeout
	}
	if !cfg.Debug && fc.Debug {
		cfg.Debug = true
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}
