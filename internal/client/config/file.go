package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/projecthub/internal/flagx"
	"github.com/dmitrijs2005/projecthub/internal/timex"
)

// FileConfig is a DTO used exclusively for config file unmarshalling.
// Durations use timex.Duration so files can say "15s" or integer
// nanoseconds. Only keys present in the file override the runtime Config.
type FileConfig struct {
	APIBaseURL     *string         `json:"api_base_url" yaml:"api_base_url"`
	Backend        *string         `json:"backend" yaml:"backend"`
	DataSource     *string         `json:"data_source" yaml:"data_source"`
	RequestTimeout *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	TokenSecret    *string         `json:"token_secret" yaml:"token_secret"`
	TokenTTL       *timex.Duration `json:"token_ttl" yaml:"token_ttl"`
	LogLevel       *string         `json:"log_level" yaml:"log_level"`
	LogFormat      *string         `json:"log_format" yaml:"log_format"`
}

// parseFile overlays cfg with the file named by -c or -config.
// Files ending in .yaml or .yml are read as YAML, anything else as JSON.
// Panics on read or decode errors.
func parseFile(cfg *Config, args []string) {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func (fc *FileConfig) apply(cfg *Config) {
	setString(&cfg.APIBaseURL, fc.APIBaseURL)
	setString(&cfg.Backend, fc.Backend)
	setString(&cfg.DataSource, fc.DataSource)
	setString(&cfg.TokenSecret, fc.TokenSecret)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFormat, fc.LogFormat)
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.TokenTTL != nil {
		cfg.TokenTTL = fc.TokenTTL.Duration
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
