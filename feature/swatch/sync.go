package swatch

import (
	"context"
	"sync"
	"time"

	"filament-sync/core/logger"
	"filament-sync/core/metrics"
	"filament-sync/feature/catalog"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Invalidator is notified after every committed pass.
type Invalidator interface {
	Invalidate()
}

// SyncService runs full passes: walk every page, map, reconcile, commit.
type SyncService struct {
	fetcher      *catalog.Fetcher
	startURL     string
	coordinator  *Coordinator
	archive      *Archive
	invalidators []Invalidator
	metrics      *metrics.Recorder
	logger       *zap.Logger
	dryRun       bool
	now          func() time.Time

	// mu keeps passes from overlapping.
	mu sync.Mutex
}

// NewSyncService creates a sync service. archive and rec may be nil.
func NewSyncService(fetcher *catalog.Fetcher, startURL string, coordinator *Coordinator, archive *Archive, rec *metrics.Recorder, logger *zap.Logger, dryRun bool) *SyncService {
	return &SyncService{
		fetcher:     fetcher,
		startURL:    startURL,
		coordinator: coordinator,
		archive:     archive,
		metrics:     rec,
		logger:      logger,
		dryRun:      dryRun,
		now:         time.Now,
	}
}

// AddInvalidator registers a cache to drop after committed passes.
func (s *SyncService) AddInvalidator(inv Invalidator) {
	s.invalidators = append(s.invalidators, inv)
}

// RunOnce executes one pass. Fetch failures abort the pass before anything is
// reconciled; malformed records are logged and skipped.
func (s *SyncService) RunOnce(ctx context.Context) PassResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := NewPassResult(s.now())
	log := logger.WithPass(s.logger, result.ID)
	log.Info("Sync pass started", zap.String("url", s.startURL), zap.Bool("dry_run", s.dryRun))

	records, raws, err := s.collect(ctx, log, &result)
	if err != nil {
		result.Err = err
		result.FinishedAt = s.now()
		return s.finish(log, result)
	}

	result = s.coordinator.Apply(ctx, result, records, s.dryRun)
	if !result.Success {
		return s.finish(log, result)
	}

	if !s.dryRun {
		s.archivePass(ctx, log, result, raws)
		for _, inv := range s.invalidators {
			inv.Invalidate()
		}
	}
	return s.finish(log, result)
}

func (s *SyncService) collect(ctx context.Context, log *zap.Logger, result *PassResult) ([]catalog.RemoteRecord, []json.RawMessage, error) {
	walk := s.fetcher.Walk(s.startURL)

	var records []catalog.RemoteRecord
	var raws []json.RawMessage
	for page, err := range walk.Pages(ctx) {
		if err != nil {
			result.Pages = walk.Fetched()
			return nil, nil, err
		}
		for i, raw := range page.Results {
			rec, err := catalog.Map(raw)
			if err != nil {
				result.Skipped++
				log.Warn("Skipping malformed record",
					zap.Int("page", page.Index),
					zap.Int("position", i),
					zap.Error(err),
				)
				continue
			}
			records = append(records, *rec)
			raws = append(raws, rec.Raw)
		}
	}

	result.Pages = walk.Fetched()
	result.Truncated = walk.Truncated()
	return records, raws, nil
}

func (s *SyncService) archivePass(ctx context.Context, log *zap.Logger, result PassResult, raws []json.RawMessage) {
	if s.archive == nil {
		return
	}
	_, err := s.archive.Store(ctx, ArchiveDocument{
		PassID:    result.ID,
		StartedAt: result.StartedAt,
		Pages:     result.Pages,
		Truncated: result.Truncated,
		Records:   raws,
	})
	if err != nil {
		log.Warn("Failed to archive pass snapshot", zap.Error(err))
		return
	}
	if removed, err := s.archive.Prune(ctx); err != nil {
		log.Warn("Failed to prune pass snapshots", zap.Error(err))
	} else if removed > 0 {
		log.Info("Pruned pass snapshots", zap.Int("removed", removed))
	}
}

func (s *SyncService) finish(log *zap.Logger, result PassResult) PassResult {
	s.metrics.ObservePass(result.Success, result.Created, result.Updated, result.Skipped, result.Duration(), result.FinishedAt)

	fields := []zap.Field{
		zap.Int("pages", result.Pages),
		zap.Int("records", result.RecordsProcessed),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
		zap.Bool("truncated", result.Truncated),
		zap.Duration("duration", result.Duration()),
	}
	if result.Err != nil {
		log.Error("Sync pass failed", append(fields, zap.Error(result.Err))...)
	} else {
		log.Info("Sync pass finished", fields...)
	}
	return result
}
