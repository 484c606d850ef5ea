package checks

import (
	"fmt"
	"time"

	"filament-sync/feature/swatch/models"

	"gorm.io/gorm"
)

// FreshnessReport tells how recently the catalog was synced.
type FreshnessReport struct {
	Swatches   int64      `json:"swatches"`
	LastSynced *time.Time `json:"last_synced,omitempty"`
	AgeSeconds int64      `json:"age_seconds"`
	MaxAge     string     `json:"max_age"`
	Stale      bool       `json:"stale"`
}

// CheckFreshness reports the newest last_synced value. The catalog is stale
// when it is empty or when that value is older than maxAge.
func CheckFreshness(db *gorm.DB, maxAge time.Duration, now time.Time) (*FreshnessReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &FreshnessReport{MaxAge: maxAge.String(), Stale: true}

	if err := db.Model(&models.Swatch{}).Count(&report.Swatches).Error; err != nil {
		return nil, fmt.Errorf("failed to count swatches: %w", err)
	}
	if report.Swatches == 0 {
		return report, nil
	}

	var latest []models.Swatch
	err := db.Model(&models.Swatch{}).
		Select("last_synced").
		Order("last_synced DESC").
		Limit(1).
		Find(&latest).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read last_synced: %w", err)
	}
	if len(latest) == 0 {
		return report, nil
	}

	synced := latest[0].LastSynced.UTC()
	age := now.Sub(synced)
	report.LastSynced = &synced
	report.AgeSeconds = int64(age / time.Second)
	report.Stale = age > maxAge
	return report, nil
}
