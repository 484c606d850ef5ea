package swatch

import (
	"context"
	"errors"
	"strconv"
	"time"

	"filament-sync/core/reconcile"
	"filament-sync/feature/catalog"
	"filament-sync/feature/swatch/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// stampPrecision matches the default datetime precision of the mysql driver.
const stampPrecision = time.Millisecond

// PassResult reports the outcome of one pass.
type PassResult struct {
	ID               string                `json:"id"`
	Success          bool                  `json:"success"`
	DryRun           bool                  `json:"dryRun"`
	Truncated        bool                  `json:"truncated"`
	Pages            int                   `json:"pages"`
	RecordsProcessed int                   `json:"recordsProcessed"`
	Created          int                   `json:"created"`
	Updated          int                   `json:"updated"`
	Skipped          int                   `json:"skipped"`
	Summary          reconcile.PlanSummary `json:"summary"`
	StartedAt        time.Time             `json:"startedAt"`
	FinishedAt       time.Time             `json:"finishedAt"`
	Err              error                 `json:"-"`
}

// Duration returns how long the pass took.
func (r PassResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// NewPassResult starts a result with a fresh pass ID.
func NewPassResult(now time.Time) PassResult {
	return PassResult{ID: uuid.NewString(), StartedAt: now}
}

// Coordinator applies one pass of mapped records inside a single transaction.
type Coordinator struct {
	db      *gorm.DB
	mutator reconcile.Mutator
	logger  *zap.Logger
	now     func() time.Time
}

// NewCoordinator creates a coordinator writing through mutator.
func NewCoordinator(db *gorm.DB, mutator reconcile.Mutator, logger *zap.Logger) *Coordinator {
	return &Coordinator{db: db, mutator: mutator, logger: logger, now: time.Now}
}

// RunPass reconciles records and commits them together.
// On any error nothing of the pass is persisted.
func (c *Coordinator) RunPass(ctx context.Context, records []catalog.RemoteRecord, dryRun bool) PassResult {
	result := NewPassResult(c.now())
	return c.Apply(ctx, result, records, dryRun)
}

// Apply runs the pass for a result already started by the caller.
func (c *Coordinator) Apply(ctx context.Context, result PassResult, records []catalog.RemoteRecord, dryRun bool) PassResult {
	result.DryRun = dryRun
	result.RecordsProcessed = len(records)

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		view, err := reconcile.BuildView(ctx, tx, c.mutator)
		if err != nil {
			return &ReconcileError{Err: err}
		}

		stamp, err := nextStamp(tx, result.StartedAt)
		if err != nil {
			return &ReconcileError{Err: err}
		}

		stager := reconcile.NewStager(view)
		for i := range records {
			stageRecord(stager, &records[i], stamp)
		}
		plan := stager.Plan()
		result.Summary = plan.Summary

		executed, err := reconcile.ApplyPlan(ctx, tx, c.mutator, plan, reconcile.ApplyOptions{DryRun: dryRun})
		if err != nil {
			var applyErr *reconcile.ApplyError
			if errors.As(err, &applyErr) {
				return &ReconcileError{Action: &applyErr.Action, Err: applyErr.Err}
			}
			return &ReconcileError{Err: err}
		}

		c.logger.Debug("Applied pass plan",
			zap.String("pass_id", result.ID),
			zap.Int("actions", plan.Summary.TotalActions),
			zap.Int("executed", executed),
		)
		return nil
	})

	result.FinishedAt = c.now()
	if err != nil {
		var re *ReconcileError
		if errors.As(err, &re) {
			result.Err = re
		} else {
			result.Err = &TransactionError{Err: err}
		}
		return result
	}

	swatches := result.Summary.Kinds[KindSwatch]
	result.Created = swatches.Creates
	result.Updated = swatches.Updates
	result.Success = true
	return result
}

// stageRecord stages the parents before the swatch that references them.
func stageRecord(stager *reconcile.Stager, rec *catalog.RemoteRecord, stamp time.Time) {
	stager.Stage(KindManufacturer, strconv.Itoa(rec.Manufacturer.ID), toManufacturer(rec))
	stager.Stage(KindFilamentType, strconv.Itoa(rec.FilamentType.ID), toFilamentType(rec))
	stager.Stage(KindSwatch, strconv.Itoa(rec.ID), toSwatch(rec, stamp))
}

// nextStamp returns the last_synced value for this pass: the pass start,
// bumped past the newest stored value so watermarks strictly increase.
func nextStamp(tx *gorm.DB, start time.Time) (time.Time, error) {
	stamp := start.UTC().Truncate(stampPrecision)

	var latest []models.Swatch
	err := tx.Model(&models.Swatch{}).
		Select("last_synced").
		Order("last_synced DESC").
		Limit(1).
		Find(&latest).Error
	if err != nil {
		return time.Time{}, err
	}

	if len(latest) == 1 && !stamp.After(latest[0].LastSynced) {
		stamp = latest[0].LastSynced.UTC().Truncate(stampPrecision).Add(stampPrecision)
	}
	return stamp, nil
}
