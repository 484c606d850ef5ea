package swatch

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"filament-sync/feature/swatch/models"

	"gorm.io/gorm"
)

const (
	defaultPageSize  = 20
	hexSearchLimit   = 50
	likeEscape       = "!"
	likeEscapeClause = " LIKE ? ESCAPE '" + likeEscape + "'"
)

// ErrNotFound is returned when a swatch does not exist.
var ErrNotFound = errors.New("swatch not found")

// ListParams filters and pages the swatch listing.
type ListParams struct {
	Page         int
	PageSize     int
	ColorParent  string
	Manufacturer string
	FilamentType string
	Search       string
}

// PagedResult is one page of a listing.
type PagedResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

// ColorCount is the number of swatches of one parent color.
type ColorCount struct {
	Color string `gorm:"column:color" json:"color"`
	Count int64  `gorm:"column:total" json:"count"`
}

// Stats summarizes the mirrored catalog.
type Stats struct {
	TotalSwatches      int64        `json:"totalSwatches"`
	TotalManufacturers int64        `json:"totalManufacturers"`
	TotalFilamentTypes int64        `json:"totalFilamentTypes"`
	LastSyncDate       *time.Time   `json:"lastSyncDate"`
	ColorBreakdown     []ColorCount `json:"colorBreakdown"`
}

// QueryService serves read-only queries over the mirrored catalog.
type QueryService struct {
	db          *gorm.DB
	maxPageSize int
}

// NewQueryService creates a query service.
func NewQueryService(db *gorm.DB, maxPageSize int) *QueryService {
	if maxPageSize <= 0 {
		maxPageSize = 100
	}
	return &QueryService{db: db, maxPageSize: maxPageSize}
}

// List returns a filtered page of swatches, most recently published first.
func (s *QueryService) List(ctx context.Context, p ListParams) (*PagedResult[models.Swatch], error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > s.maxPageSize {
		p.PageSize = s.maxPageSize
	}

	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Swatch{}).Scopes(listFilters(p)).Count(&total).Error; err != nil {
		return nil, err
	}

	items := []models.Swatch{}
	err := db.Scopes(listFilters(p)).
		Preload("Manufacturer").
		Preload("FilamentType").
		Order("date_published DESC").
		Order("id DESC").
		Offset((p.Page - 1) * p.PageSize).
		Limit(p.PageSize).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return &PagedResult[models.Swatch]{
		Items:      items,
		TotalCount: total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(p.PageSize))),
	}, nil
}

func listFilters(p ListParams) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if v := strings.TrimSpace(p.ColorParent); v != "" {
			db = db.Where("color_parent = ?", v)
		}
		if v := strings.TrimSpace(p.Manufacturer); v != "" {
			db = db.Where("manufacturer_id IN (?)",
				db.Session(&gorm.Session{NewDB: true}).Model(&models.Manufacturer{}).Select("id").Where("name"+likeEscapeClause, contains(v)))
		}
		if v := strings.TrimSpace(p.FilamentType); v != "" {
			db = db.Where("filament_type_id IN (?)",
				db.Session(&gorm.Session{NewDB: true}).Model(&models.FilamentType{}).Select("id").Where("name"+likeEscapeClause, contains(v)))
		}
		if v := strings.TrimSpace(p.Search); v != "" {
			pattern := contains(v)
			makers := db.Session(&gorm.Session{NewDB: true}).Model(&models.Manufacturer{}).Select("id").Where("name"+likeEscapeClause, pattern)
			db = db.Where(
				"(color_name"+likeEscapeClause+" OR hex_color"+likeEscapeClause+" OR manufacturer_id IN (?))",
				pattern, pattern, makers,
			)
		}
		return db
	}
}

// Get returns one swatch with its parents and all three match sets.
func (s *QueryService) Get(ctx context.Context, id int) (*models.Swatch, error) {
	var sw models.Swatch
	err := s.db.WithContext(ctx).
		Preload("Manufacturer").
		Preload("FilamentType").
		Preload("PantoneColors", orderByRank).
		Preload("PmsColors", orderByRank).
		Preload("RalColors", orderByRank).
		First(&sw, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sw, nil
}

func orderByRank(db *gorm.DB) *gorm.DB {
	return db.Order("match_rank ASC")
}

// Colors returns the distinct parent colors, sorted.
func (s *QueryService) Colors(ctx context.Context) ([]string, error) {
	colors := []string{}
	err := s.db.WithContext(ctx).
		Model(&models.Swatch{}).
		Distinct("color_parent").
		Order("color_parent ASC").
		Pluck("color_parent", &colors).Error
	return colors, err
}

// Manufacturers returns every manufacturer sorted by name.
func (s *QueryService) Manufacturers(ctx context.Context) ([]models.Manufacturer, error) {
	out := []models.Manufacturer{}
	err := s.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&out).Error
	return out, err
}

// FilamentTypes returns every filament type sorted by name.
func (s *QueryService) FilamentTypes(ctx context.Context) ([]models.FilamentType, error) {
	out := []models.FilamentType{}
	err := s.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&out).Error
	return out, err
}

// SearchByHex returns up to 50 swatches whose hex color contains hex, ignoring case and a leading '#'.
func (s *QueryService) SearchByHex(ctx context.Context, hex string) ([]models.Swatch, error) {
	needle := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(hex), "#"))
	out := []models.Swatch{}
	err := s.db.WithContext(ctx).
		Preload("Manufacturer").
		Preload("FilamentType").
		Where("LOWER(hex_color)"+likeEscapeClause, contains(needle)).
		Order("id ASC").
		Limit(hexSearchLimit).
		Find(&out).Error
	return out, err
}

// Stats returns catalog totals, the newest watermark and per-color counts.
func (s *QueryService) Stats(ctx context.Context) (*Stats, error) {
	db := s.db.WithContext(ctx)
	stats := &Stats{ColorBreakdown: []ColorCount{}}

	if err := db.Model(&models.Swatch{}).Count(&stats.TotalSwatches).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Manufacturer{}).Count(&stats.TotalManufacturers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.FilamentType{}).Count(&stats.TotalFilamentTypes).Error; err != nil {
		return nil, err
	}

	var latest []models.Swatch
	if err := db.Select("last_synced").Order("last_synced DESC").Limit(1).Find(&latest).Error; err != nil {
		return nil, err
	}
	if len(latest) == 1 {
		t := latest[0].LastSynced
		stats.LastSyncDate = &t
	}

	err := db.Model(&models.Swatch{}).
		Select("color_parent AS color, COUNT(*) AS total").
		Group("color_parent").
		Order("total DESC").
		Order("color_parent ASC").
		Scan(&stats.ColorBreakdown).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// contains builds a LIKE pattern matching v anywhere, with wildcards in v escaped.
func contains(v string) string {
	r := strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")
	return "%" + r.Replace(v) + "%"
}
