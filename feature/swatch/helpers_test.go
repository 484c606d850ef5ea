package swatch

import (
	"fmt"
	"testing"
	"time"

	"filament-sync/core/database"
	"filament-sync/feature/catalog"
	"filament-sync/feature/swatch/models"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:", TimeoutSeconds: 5})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

type fixture struct {
	ID      int
	Mfr     int
	Type    int
	Name    string
	Hex     string
	Parent  string
	Pantone int
	Day     int
}

func (f fixture) raw() json.RawMessage {
	if f.Hex == "" {
		f.Hex = "ff0000"
	}
	if f.Parent == "" {
		f.Parent = "red"
	}
	if f.Day == 0 {
		f.Day = 1
	}
	m := map[string]any{
		"id":             f.ID,
		"color_name":     f.Name,
		"color_parent":   f.Parent,
		"hex_color":      f.Hex,
		"date_published": fmt.Sprintf("2024-01-%02dT12:00:00Z", f.Day),
		"is_available":   true,
		"published":      true,
		"manufacturer": map[string]any{
			"id":      f.Mfr,
			"name":    fmt.Sprintf("Maker %d", f.Mfr),
			"website": "https://maker.example",
		},
		"filament_type": map[string]any{
			"id":           f.Type,
			"name":         "PLA",
			"hot_end_temp": 210,
			"bed_temp":     60,
		},
	}
	for i := 1; i <= f.Pantone; i++ {
		m[fmt.Sprintf("closest_pantone_%d", i)] = map[string]any{
			"code":      fmt.Sprintf("P-%d-%d", f.ID, i),
			"hex_color": f.Hex,
			"category":  "coated",
		}
	}
	b, err := json.Marshal(m)
	if err != nil {
		panic(err)
	}
	return b
}

func records(t *testing.T, fixtures ...fixture) []catalog.RemoteRecord {
	t.Helper()
	out := make([]catalog.RemoteRecord, 0, len(fixtures))
	for _, f := range fixtures {
		rec, err := catalog.Map(f.raw())
		require.NoError(t, err)
		out = append(out, *rec)
	}
	return out
}

func newTestCoordinator(db *gorm.DB, now time.Time) *Coordinator {
	c := NewCoordinator(db, NewStore(), zap.NewNop())
	c.now = func() time.Time { return now }
	return c
}

// dump renders every catalog row in key order for equality checks.
// With ignoreSynced the watermark column is blanked.
func dump(t *testing.T, db *gorm.DB, ignoreSynced bool) string {
	t.Helper()
	var (
		makers  []models.Manufacturer
		types   []models.FilamentType
		swatch  []models.Swatch
		pantone []models.PantoneColor
		pms     []models.PmsColor
		ral     []models.RalColor
	)
	require.NoError(t, db.Order("id").Find(&makers).Error)
	require.NoError(t, db.Order("id").Find(&types).Error)
	require.NoError(t, db.Order("id").Find(&swatch).Error)
	require.NoError(t, db.Order("swatch_id, match_rank").Find(&pantone).Error)
	require.NoError(t, db.Order("swatch_id, match_rank").Find(&pms).Error)
	require.NoError(t, db.Order("swatch_id, match_rank").Find(&ral).Error)
	if ignoreSynced {
		for i := range swatch {
			swatch[i].LastSynced = time.Time{}
		}
	}

	b, err := json.Marshal(map[string]any{
		"manufacturers":  makers,
		"filament_types": types,
		"swatches":       swatch,
		"pantone":        pantone,
		"pms":            pms,
		"ral":            ral,
	})
	require.NoError(t, err)
	return string(b)
}
