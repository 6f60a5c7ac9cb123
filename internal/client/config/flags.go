package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/projecthub/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the remote API
//	-b string   backend: remote or local
//	-d string   SQLite data source
//	-t int      request timeout in seconds
//
// Args are filtered with flagx.FilterArgs so flags owned by other layers
// (-c, -config) do not trip the parser.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-b", "-d", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the remote API")
	fs.StringVar(&cfg.Backend, "b", cfg.Backend, "backend: remote or local")
	fs.StringVar(&cfg.DataSource, "d", cfg.DataSource, "SQLite data source")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
}
