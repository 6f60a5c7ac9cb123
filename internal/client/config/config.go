package config

import (
	"fmt"
	"os"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	BackendRemote = "remote"
	BackendLocal  = "local"
)

// Config holds runtime settings for the projecthub CLI.
//
// Units: RequestTimeout and TokenTTL are time.Duration values.
type Config struct {
	// APIBaseURL is the root of the remote REST API.
	APIBaseURL string
	// Backend selects the gateway: BackendRemote or BackendLocal.
	Backend string
	// DataSource is the SQLite DSN for the session store and the local backend.
	DataSource     string
	RequestTimeout time.Duration

	// TokenSecret and TokenTTL are used by the local backend only.
	TokenSecret string
	TokenTTL    time.Duration

	LogLevel  string
	LogFormat string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "https://backend-node-6lf8.onrender.com/api"
	c.Backend = BackendRemote
	c.DataSource = "projecthub.db"
	c.RequestTimeout = 15 * time.Second
	c.TokenSecret = "projecthub-local-secret"
	c.TokenTTL = 24 * time.Hour
	c.LogLevel = "warn"
	c.LogFormat = "text"
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendRemote:
		if c.APIBaseURL == "" {
			return fmt.Errorf("config: API base URL is required for the %s backend", BackendRemote)
		}
	case BackendLocal:
		if c.TokenSecret == "" {
			return fmt.Errorf("config: token secret is required for the %s backend", BackendLocal)
		}
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}
	if c.DataSource == "" {
		return fmt.Errorf("config: data source is required")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("config: request timeout must be positive, got %s", c.RequestTimeout)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a config file, the environment and command-line flags. Later sources take
// precedence over earlier ones. Invalid configuration panics.
func LoadConfig() *Config {
	return loadFrom(os.Args[1:], envconfig.OsLookuper())
}

func loadFrom(args []string, env envconfig.Lookuper) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg, args)
	parseEnv(cfg, env)
	parseFlags(cfg, args)
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}
