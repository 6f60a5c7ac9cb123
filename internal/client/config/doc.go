// Package config loads runtime configuration for the projecthub CLI.
//
// Sources and precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. Files ending in
//     .yaml or .yml are decoded as YAML, others as JSON.
//  3. PMS_* environment variables.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   base URL of the remote API
//	-b string   backend: remote or local
//	-d string   SQLite data source
//	-t int      request timeout (seconds)
//
// # File schema
//
// Durations use timex.Duration, so values can be strings like "15s" or
// integer nanoseconds:
//
//	{
//	  "api_base_url": "https://backend.example.com/api",
//	  "backend": "remote",
//	  "data_source": "projecthub.db",
//	  "request_timeout": "15s",
//	  "token_secret": "change-me",
//	  "token_ttl": "24h",
//	  "log_level": "info",
//	  "log_format": "json"
//	}
//
// Environment variables use the same names upper-cased with a PMS_ prefix,
// e.g. PMS_API_BASE_URL or PMS_REQUEST_TIMEOUT.
package config
