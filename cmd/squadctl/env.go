package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/okian/squadup/internal/adapters/repository/bunstore"
	service "github.com/okian/squadup/internal/app"
	"github.com/okian/squadup/internal/bootstrap"
	"github.com/okian/squadup/internal/config"
	"github.com/okian/squadup/pkg/logger"
)

var errNoDatabase = errors.New("database_dsn is not configured")

func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		if err := os.Setenv(config.EnvConfigFile, path); err != nil {
			return nil, fmt.Errorf("set config path: %w", err)
		}
	}
	return config.Load(c.Context)
}

// withService runs fn against a service over the configured store.
func withService(c *cli.Context, fn func(ctx context.Context, svc *service.Service) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log, err := bootstrap.Logger(c.Context, cfg)
	if err != nil {
		return err
	}
	store, err := bootstrap.Store(c.Context, cfg, log)
	if err != nil {
		return err
	}
	svc := bootstrap.Service(cfg, store, log)
	defer func() {
		if err := svc.Stop(context.WithoutCancel(c.Context)); err != nil {
			log.Error(c.Context, "close store", logger.Error(err))
		}
	}()
	return fn(c.Context, svc)
}

// withDatabase runs fn against the Postgres store without migrating it.
func withDatabase(c *cli.Context, fn func(ctx context.Context, st *bunstore.Store) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if cfg.DatabaseDSN == "" {
		return errNoDatabase
	}
	log, err := bootstrap.Logger(c.Context, cfg)
	if err != nil {
		return err
	}
	st, err := bunstore.Open(c.Context, cfg.DatabaseDSN,
		bunstore.WithConnectAttempts(uint(cfg.DBConnectAttempts)),
		bunstore.WithLogger(log.Named("bunstore")),
	)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(c.Context, st)
}
