package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nerrad567/targetplatform/internal/configstore"
	"github.com/nerrad567/targetplatform/internal/formats"
	"github.com/nerrad567/targetplatform/internal/hostinfo"
	"github.com/nerrad567/targetplatform/internal/infrastructure/config"
	"github.com/nerrad567/targetplatform/internal/infrastructure/database"
	"github.com/nerrad567/targetplatform/internal/infrastructure/logging"
	"github.com/nerrad567/targetplatform/internal/target"
	"github.com/nerrad567/targetplatform/internal/toolchain"
)

// hostDetectTimeout bounds the host identity query at startup.
const hostDetectTimeout = 5 * time.Second

// env is the state shared by commands that work on target variants.
type env struct {
	cfg    *config.Config
	log    *logging.Logger
	db     *database.DB
	store  configstore.Store
	module *target.Module
}

// loadConfig reads the config file and builds the configured logger.
// One-shot commands log to stderr so their stdout stays parseable.
func loadConfig(path string, oneShot bool) (*config.Config, *logging.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}
	if oneShot && !strings.EqualFold(cfg.Logging.Output, "file") {
		cfg.Logging.Output = "stderr"
	}
	return cfg, logging.New(cfg.Logging, version), nil
}

// openDatabase opens the SQLite database and applies pending migrations.
func openDatabase(ctx context.Context, cfg *config.Config, log *logging.Logger) (*database.DB, error) {
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	log.Info("database connected", "path", cfg.Database.Path)

	if err := db.Migrate(ctx); err != nil {
		db.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	log.Info("database migrations complete")
	return db, nil
}

// detectHost identifies the running machine, falling back to the Go
// runtime when the host query fails.
func detectHost(ctx context.Context, log *logging.Logger) hostinfo.Info {
	ctx, cancel := context.WithTimeout(ctx, hostDetectTimeout)
	defer cancel()

	info, err := hostinfo.Detect(ctx)
	if err != nil {
		info = hostinfo.Fallback()
		log.Warn("host detection failed, using runtime values", "error", err)
	}
	log.Info("host identified", "hostname", info.Hostname, "os", info.OS, "arch", info.Arch)
	return info
}

// newModule builds the target module over store.
func newModule(cfg *config.Config, store configstore.Store, host hostinfo.Info, log *logging.Logger) *target.Module {
	probe := toolchain.NewProbe()
	return target.NewModule(target.ModuleOptions{
		Platform:    cfg.Target.Platform,
		OS:          strings.ToLower(cfg.Target.Platform),
		Store:       store,
		Section:     cfg.Target.Section,
		KeyPrefix:   cfg.Target.KeyPrefix,
		Host:        host,
		EditorBuild: cfg.Target.EditorBuild,
		Probe:       &probe,
		Resolver:    formats.StandardResolver{},
		Logger:      log.With("component", "target"),
	})
}

// openEnv loads the configuration and opens the database, the config
// store and the target module. The caller must call close.
func openEnv(ctx context.Context, path string) (*env, error) {
	cfg, log, err := loadConfig(path, true)
	if err != nil {
		return nil, err
	}

	db, err := openDatabase(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	store, err := configstore.Open(ctx, configstore.Options{
		Backend:    cfg.ConfigStore.Backend,
		Path:       cfg.ConfigStore.Path,
		BaseLayers: cfg.ConfigStore.BaseLayers,
		DB:         db.DB,
	})
	if err != nil {
		db.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("opening config store: %w", err)
	}

	return &env{
		cfg:    cfg,
		log:    log,
		db:     db,
		store:  store,
		module: newModule(cfg, store, detectHost(ctx, log), log),
	}, nil
}

// close flushes the config store and closes the database.
func (e *env) close() error {
	var errs []error
	if err := e.module.Shutdown(); err != nil {
		errs = append(errs, err)
	}
	if err := e.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing database: %w", err))
	}
	return errors.Join(errs...)
}
