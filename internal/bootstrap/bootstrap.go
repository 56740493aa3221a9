// Package bootstrap turns a loaded Config into the logger, store and service
// shared by the server and the admin CLI.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/okian/squadup/internal/adapters/repository"
	"github.com/okian/squadup/internal/adapters/repository/bunstore"
	service "github.com/okian/squadup/internal/app"
	"github.com/okian/squadup/internal/config"
	"github.com/okian/squadup/pkg/logger"
)

// Logger initializes the global logger from cfg. An invalid level falls back to info.
func Logger(ctx context.Context, cfg *config.Config) (logger.Logger, error) {
	opts := []logger.Option{logger.WithRotation(cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays)}
	if cfg.LogFile != "" {
		opts = append(opts, logger.WithFile(cfg.LogFile))
	}
	if err := logger.InitWithOptions(opts...); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return log, nil
}

// Store opens the Postgres store when a DSN is configured and applies pending
// migrations. Without a DSN it returns an in-memory store.
func Store(ctx context.Context, cfg *config.Config, log logger.Logger) (repository.Store, error) {
	if cfg.DatabaseDSN == "" {
		log.Info(ctx, "using in-memory store")
		return repository.NewMemStore(), nil
	}

	st, err := bunstore.Open(ctx, cfg.DatabaseDSN,
		bunstore.WithConnectAttempts(uint(cfg.DBConnectAttempts)),
		bunstore.WithLogger(log.Named("bunstore")),
	)
	if err != nil {
		return nil, err
	}
	group, err := st.Migrate(ctx)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	if group.IsZero() {
		log.Info(ctx, "database schema up to date")
	} else {
		log.Info(ctx, "database migrated", logger.String("group", group.String()))
	}
	return st, nil
}

// Service builds the service over store with cfg's tuning.
func Service(cfg *config.Config, store repository.Store, log logger.Logger) *service.Service {
	return service.New(
		service.WithStore(store),
		service.WithLogger(log),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithQueueSize(cfg.QueueSize),
		service.WithDedupeSize(cfg.DedupeSize),
		service.WithAutoAggregate(cfg.AutoAggregate),
		service.WithModifierDecay(cfg.ModifierDecay),
		service.WithDefaultAttribute(cfg.DefaultAttribute),
		service.WithMaxProfileLimit(cfg.MaxProfileLimit),
	)
}
