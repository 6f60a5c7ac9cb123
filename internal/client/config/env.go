package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const envPrefix = "PMS_"

// envConfig mirrors Config for environment variables. Unset variables leave
// the pointers nil so earlier layers are kept.
type envConfig struct {
	APIBaseURL     *string        `env:"API_BASE_URL, noinit"`
	Backend        *string        `env:"BACKEND, noinit"`
	DataSource     *string        `env:"DATA_SOURCE, noinit"`
	RequestTimeout *time.Duration `env:"REQUEST_TIMEOUT, noinit"`
	TokenSecret    *string        `env:"TOKEN_SECRET, noinit"`
	TokenTTL       *time.Duration `env:"TOKEN_TTL, noinit"`
	LogLevel       *string        `env:"LOG_LEVEL, noinit"`
	LogFormat      *string        `env:"LOG_FORMAT, noinit"`
}

// parseEnv overlays cfg with PMS_* variables read through l.
// Panics when a variable cannot be parsed.
func parseEnv(cfg *Config, l envconfig.Lookuper) {
	var ec envConfig
	err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   &ec,
		Lookuper: envconfig.PrefixLookuper(envPrefix, l),
	})
	if err != nil {
		panic(err)
	}

	setString(&cfg.APIBaseURL, ec.APIBaseURL)
	setString(&cfg.Backend, ec.Backend)
	setString(&cfg.DataSource, ec.DataSource)
	setString(&cfg.TokenSecret, ec.TokenSecret)
	setString(&cfg.LogLevel, ec.LogLevel)
	setString(&cfg.LogFormat, ec.LogFormat)
	if ec.RequestTimeout != nil {
		cfg.RequestTimeout = *ec.RequestTimeout
	}
	if ec.TokenTTL != nil {
		cfg.TokenTTL = *ec.TokenTTL
	}
}
