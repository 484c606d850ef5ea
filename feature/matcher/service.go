package matcher

import (
	"context"
	"fmt"

	"filament-sync/core/snapshot"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service answers nearest-color queries over a snapshot of the swatch table.
type Service struct {
	snap   *snapshot.Snapshot[[]Candidate]
	cfg    Config
	logger *zap.Logger
}

// NewService creates a matcher whose snapshot is loaded from db.
func NewService(db *gorm.DB, cfg Config, logger *zap.Logger) *Service {
	return NewServiceWithLoader(func(ctx context.Context) ([]Candidate, error) {
		return LoadCandidates(ctx, db)
	}, cfg, logger)
}

// NewServiceWithLoader creates a matcher over an arbitrary candidate source.
func NewServiceWithLoader(load snapshot.LoadFunc[[]Candidate], cfg Config, logger *zap.Logger) *Service {
	return &Service{
		snap:   snapshot.New(load, cfg.TTL()),
		cfg:    cfg,
		logger: logger,
	}
}

// LoadCandidates reads every swatch with its manufacturer and filament type names.
func LoadCandidates(ctx context.Context, db *gorm.DB) ([]Candidate, error) {
	out := []Candidate{}
	err := db.WithContext(ctx).
		Table("swatches AS s").
		Select("s.id, s.color_name, s.hex_color, m.name AS manufacturer, f.name AS filament_type").
		Joins("LEFT JOIN manufacturers AS m ON m.id = s.manufacturer_id").
		Joins("LEFT JOIN filament_types AS f ON f.id = s.filament_type_id").
		Order("s.id ASC").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load match candidates: %w", err)
	}
	return out, nil
}

// Closest returns the count nearest swatches to hex. count <= 0 uses the default.
func (s *Service) Closest(ctx context.Context, hex string, count int) ([]Match, error) {
	if count <= 0 {
		count = s.cfg.DefaultCount
	}
	if s.cfg.MaxCount > 0 && count > s.cfg.MaxCount {
		count = s.cfg.MaxCount
	}

	candidates, err := s.snap.Get(ctx)
	if err != nil {
		return nil, err
	}
	return FindClosest(candidates, hex, count), nil
}

// Reload rebuilds the snapshot now and returns the number of candidates.
func (s *Service) Reload(ctx context.Context) (int, error) {
	candidates, err := s.snap.Reload(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Info("Matcher snapshot reloaded", zap.Int("candidates", len(candidates)))
	return len(candidates), nil
}

// Invalidate drops the snapshot; the next query reloads it.
func (s *Service) Invalidate() {
	s.snap.Invalidate()
	s.logger.Debug("Matcher snapshot invalidated")
}
