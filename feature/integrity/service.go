package integrity

import (
	"context"
	"errors"
	"time"

	"filament-sync/core/storage"
	"filament-sync/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrArchiveDisabled is returned by archive checks when object storage is not configured.
var ErrArchiveDisabled = errors.New("snapshot archive is disabled")

// ArchiveTarget locates the snapshot archive.
type ArchiveTarget struct {
	Client storage.Client
	Bucket string
	Prefix string
	Region string
}

// Service handles integrity checks.
type Service struct {
	db      *gorm.DB
	archive *ArchiveTarget
	maxAge  time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates a new integrity service. archive may be nil.
func NewService(db *gorm.DB, archive *ArchiveTarget, maxAge time.Duration, logger *zap.Logger) *Service {
	return &Service{
		db:      db,
		archive: archive,
		maxAge:  maxAge,
		logger:  logger,
		now:     time.Now,
	}
}

// CheckSchema compares the catalog tables with the models.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db)
}

// CheckArchive inspects the snapshot bucket.
func (s *Service) CheckArchive(ctx context.Context) (*checks.ArchiveReport, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}
	return checks.CheckArchive(ctx, s.archive.Client, s.archive.Bucket, s.archive.Prefix)
}

// FixArchive creates the snapshot bucket.
func (s *Service) FixArchive(ctx context.Context) error {
	if s.archive == nil {
		return ErrArchiveDisabled
	}
	return checks.FixArchive(ctx, s.archive.Client, s.archive.Bucket, s.archive.Region)
}

// CheckFreshness reports how long ago the catalog was last synced.
func (s *Service) CheckFreshness() (*checks.FreshnessReport, error) {
	return checks.CheckFreshness(s.db, s.maxAge, s.now())
}
