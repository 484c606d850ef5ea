package cmd

import (
	"context"
	"fmt"

	"filament-sync/core/config"
	"filament-sync/core/database"
	"filament-sync/core/logger"
	"filament-sync/core/metrics"
	"filament-sync/core/storage"
	"filament-sync/feature/catalog"
	"filament-sync/feature/integrity"
	"filament-sync/feature/swatch"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime bundles what every command needs.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
}

// bootstrap loads configuration, builds the logger and connects to the database.
func bootstrap() (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &runtime{cfg: cfg, logger: l, db: db}, nil
}

// buildArchive returns nil when object storage is disabled.
func buildArchive(ctx context.Context, rt *runtime) (*swatch.Archive, error) {
	sc := rt.cfg.Storage
	if !sc.Enabled {
		return nil, nil
	}

	client, err := storage.NewClient(sc)
	if err != nil {
		return nil, err
	}
	if err := storage.EnsureBucket(ctx, client, sc.Bucket, sc.Region); err != nil {
		return nil, err
	}

	rt.logger.Info("Snapshot archive enabled", zap.String("bucket", sc.Bucket), zap.String("prefix", sc.SnapshotPrefix))
	return swatch.NewArchive(client, sc.Bucket, sc.SnapshotPrefix, sc.Retention, rt.logger), nil
}

// buildSyncService wires fetcher, coordinator and archive. rec may be nil.
func buildSyncService(ctx context.Context, rt *runtime, rec *metrics.Recorder, dryRun bool) *swatch.SyncService {
	archive, err := buildArchive(ctx, rt)
	if err != nil {
		// The archive is best effort; the sync itself does not depend on it.
		rt.logger.Warn("Snapshot archive unavailable", zap.Error(err))
		archive = nil
	}

	fetcher := catalog.NewFetcher(rt.cfg.Catalog, rt.logger, rec)
	coordinator := swatch.NewCoordinator(rt.db, swatch.NewStore(), rt.logger)

	return swatch.NewSyncService(fetcher, rt.cfg.Catalog.BaseURL, coordinator, archive, rec, rt.logger, dryRun)
}

// buildIntegrity wires the health checks. Stale means no successful pass for two intervals.
func buildIntegrity(rt *runtime) *integrity.Service {
	var target *integrity.ArchiveTarget
	if sc := rt.cfg.Storage; sc.Enabled {
		client, err := storage.NewClient(sc)
		if err != nil {
			rt.logger.Warn("Archive checks unavailable", zap.Error(err))
		} else {
			target = &integrity.ArchiveTarget{Client: client, Bucket: sc.Bucket, Prefix: sc.SnapshotPrefix, Region: sc.Region}
		}
	}
	return integrity.NewService(rt.db, target, 2*rt.cfg.Sync.Interval(), rt.logger)
}
