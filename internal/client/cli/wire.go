package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrijs2005/projecthub/internal/client/client"
	"github.com/dmitrijs2005/projecthub/internal/client/config"
	"github.com/dmitrijs2005/projecthub/internal/client/localapi"
	"github.com/dmitrijs2005/projecthub/internal/client/services"
	"github.com/dmitrijs2005/projecthub/internal/client/session"
	"github.com/dmitrijs2005/projecthub/internal/logging"
)

// NewAppFromConfig opens the local database, restores the saved session and
// wires the backend selected by cfg into a ready App. The returned close
// function releases the database.
func NewAppFromConfig(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, func() error, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	db, err := client.OpenDatabase(ctx, cfg.DataSource)
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing database: %w", err)
	}

	store := session.NewStore(db, logger)
	if err := store.Hydrate(ctx); err != nil {
		logger.Warn(ctx, "could not restore session", "error", err)
	}

	deps := Deps{Session: store, Logger: logger}
	api, err := newBackend(cfg, db, store, logger, &deps)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	deps.Auth = services.NewAuthService(api, store, logger)
	deps.Projects = services.NewProjectService(api, store, logger)
	deps.Users = services.NewUserService(api, store, logger)

	app := NewApp(deps)
	store.OnChange(app.OnSessionChange)

	logger.Info(ctx, "client started", "backend", cfg.Backend, "data_source", cfg.DataSource)
	return app, db.Close, nil
}

// newBackend builds the gateway for cfg.Backend and records its optional
// capabilities in deps.
func newBackend(cfg *config.Config, db *sql.DB, store *session.Store, logger logging.Logger, deps *Deps) (client.Client, error) {
	switch cfg.Backend {
	case config.BackendLocal:
		api, err := localapi.New(localapi.Config{
			DB:          db,
			Credentials: store,
			Secret:      []byte(cfg.TokenSecret),
			TokenTTL:    cfg.TokenTTL,
			Logger:      logger,
		})
		if err != nil {
			return nil, err
		}
		deps.Attachments = api
		return api, nil

	case config.BackendRemote:
		reg := prometheus.NewRegistry()
		api, err := client.NewHTTPClient(client.HTTPClientConfig{
			BaseURL:     cfg.APIBaseURL,
			Timeout:     cfg.RequestTimeout,
			Credentials: store,
			Logger:      logger,
			Metrics:     client.NewMetrics(reg),
		})
		if err != nil {
			return nil, err
		}
		deps.Metrics = reg
		return api, nil

	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
