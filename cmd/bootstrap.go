package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/joho/godotenv"

	"github.com/okian/radar/internal/adapters/repository"
	service "github.com/okian/radar/internal/app"
	"github.com/okian/radar/internal/config"
	"github.com/okian/radar/internal/domain/catalog"
	"github.com/okian/radar/internal/seed"
	"github.com/okian/radar/pkg/logger"
)

// stack is everything a command needs once configuration is applied.
type stack struct {
	cfg     *config.Config
	catalog *catalog.Catalog
	store   repository.Store
	svc     *service.Service
}

func (rt *stack) Close() error {
	if err := rt.svc.Close(); err != nil {
		return err
	}
	return rt.store.Close()
}

// bootstrap loads configuration, initializes logging to logOut and opens
// the store. Seeding follows cfg.SeedDemo unless forceSeed is set.
func bootstrap(ctx context.Context, logOut io.Writer, forceSeed bool) (*stack, error) {
	// A missing .env is the normal case outside development.
	_ = godotenv.Load()

	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := logger.InitWith(logOut, logger.Format(cfg.LogFormat)); err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}

	store, err := repository.Open(ctx, cfg.DatasourceDriver, cfg.DatasourceDSN)
	if err != nil {
		return nil, fmt.Errorf("open datasource: %w", err)
	}

	if cfg.SeedDemo || forceSeed {
		if _, err := seed.Seed(ctx, store, cat, seed.DefaultConfig()); err != nil {
			_ = store.Close()
			return nil, err
		}
	}

	source := repository.NewRetryingSource(store,
		repository.WithMaxRetries(cfg.FetchRetries),
		repository.WithMaxInterval(cfg.FetchTimeout()/4),
	)
	svc := service.New(source,
		service.WithCatalog(cat),
		service.WithFetchTimeout(cfg.FetchTimeout()),
		service.WithMaxCompare(cfg.MaxCompare),
		service.WithTargetMax(cfg.TargetMax),
		service.WithLocale(cfg.Locale),
		service.WithPalette(cfg.Palette),
		service.WithLogger(logger.Named("service")),
	)

	log.Info(ctx, "radar ready",
		logger.String("driver", cfg.DatasourceDriver),
		logger.Int("competences", cat.Len()),
		logger.String("locale", cfg.Locale),
		logger.Duration("fetch_timeout", cfg.FetchTimeout()),
		logger.Any("started_at", time.Now().UTC()),
	)
	return &stack{cfg: cfg, catalog: cat, store: store, svc: svc}, nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return cat, nil
}
