package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/projecthub/internal/buildinfo"
	"github.com/dmitrijs2005/projecthub/internal/client/cli"
	"github.com/dmitrijs2005/projecthub/internal/client/config"
	"github.com/dmitrijs2005/projecthub/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	app, closeDB, err := cli.NewAppFromConfig(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer closeDB()

	app.Run(ctx)

}
