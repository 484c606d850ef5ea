package swatch

import (
	"context"
	"fmt"
	"strconv"

	"filament-sync/core/reconcile"
	"filament-sync/feature/swatch/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entity kinds managed by the store, parents first.
const (
	KindManufacturer = "manufacturer"
	KindFilamentType = "filament_type"
	KindSwatch       = "swatch"
)

const batchSize = 100

// Store implements reconcile.Mutator and reconcile.BatchCreator for the catalog tables.
type Store struct{}

// NewStore creates a new store.
func NewStore() *Store {
	return &Store{}
}

// Name returns the adapter name.
func (s *Store) Name() string {
	return "swatch"
}

// Kinds returns the managed kinds in dependency order.
func (s *Store) Kinds() []string {
	return []string{KindManufacturer, KindFilamentType, KindSwatch}
}

// LoadKeys plucks the primary keys of kind.
func (s *Store) LoadKeys(ctx context.Context, db *gorm.DB, kind string) ([]string, error) {
	model, err := modelFor(kind)
	if err != nil {
		return nil, err
	}

	var ids []int
	if err := db.WithContext(ctx).Model(model).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = strconv.Itoa(id)
	}
	return keys, nil
}

// Create inserts one entity. Swatches are written with their matches.
func (s *Store) Create(ctx context.Context, tx *gorm.DB, action reconcile.Action) error {
	return s.CreateBatch(ctx, tx, action.Kind, []reconcile.Action{action})
}

// CreateBatch inserts many entities of one kind.
func (s *Store) CreateBatch(ctx context.Context, tx *gorm.DB, kind string, actions []reconcile.Action) error {
	tx = tx.WithContext(ctx)

	switch kind {
	case KindManufacturer:
		rows, err := entities[models.Manufacturer](actions)
		if err != nil {
			return err
		}
		return tx.CreateInBatches(rows, batchSize).Error

	case KindFilamentType:
		rows, err := entities[models.FilamentType](actions)
		if err != nil {
			return err
		}
		return tx.CreateInBatches(rows, batchSize).Error

	case KindSwatch:
		rows, err := entities[models.Swatch](actions)
		if err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).CreateInBatches(rows, batchSize).Error; err != nil {
			return err
		}
		return createMatches(tx, rows)

	default:
		return fmt.Errorf("unknown kind %q", kind)
	}
}

// Update overwrites every mutable column. A swatch's matches are deleted and recreated.
func (s *Store) Update(ctx context.Context, tx *gorm.DB, action reconcile.Action) error {
	tx = tx.WithContext(ctx)

	switch action.Kind {
	case KindManufacturer:
		m, ok := action.Entity.(*models.Manufacturer)
		if !ok {
			return entityTypeError(action)
		}
		return tx.Model(m).Select("*").Omit("id").Updates(m).Error

	case KindFilamentType:
		ft, ok := action.Entity.(*models.FilamentType)
		if !ok {
			return entityTypeError(action)
		}
		return tx.Model(ft).Select("*").Omit("id").Updates(ft).Error

	case KindSwatch:
		sw, ok := action.Entity.(*models.Swatch)
		if !ok {
			return entityTypeError(action)
		}
		if err := tx.Model(sw).Select("*").Omit("id", clause.Associations).Updates(sw).Error; err != nil {
			return err
		}
		if err := deleteMatches(tx, sw.ID); err != nil {
			return err
		}
		return createMatches(tx, []*models.Swatch{sw})

	default:
		return fmt.Errorf("unknown kind %q", action.Kind)
	}
}

func deleteMatches(tx *gorm.DB, swatchID int) error {
	for _, model := range []any{&models.PantoneColor{}, &models.PmsColor{}, &models.RalColor{}} {
		if err := tx.Where("swatch_id = ?", swatchID).Delete(model).Error; err != nil {
			return fmt.Errorf("failed to clear matches: %w", err)
		}
	}
	return nil
}

func createMatches(tx *gorm.DB, swatches []*models.Swatch) error {
	var pantone []models.PantoneColor
	var pms []models.PmsColor
	var ral []models.RalColor
	for _, sw := range swatches {
		for _, m := range sw.PantoneColors {
			m.ID, m.SwatchID = 0, sw.ID
			pantone = append(pantone, m)
		}
		for _, m := range sw.PmsColors {
			m.ID, m.SwatchID = 0, sw.ID
			pms = append(pms, m)
		}
		for _, m := range sw.RalColors {
			m.ID, m.SwatchID = 0, sw.ID
			ral = append(ral, m)
		}
	}

	if len(pantone) > 0 {
		if err := tx.CreateInBatches(pantone, batchSize).Error; err != nil {
			return fmt.Errorf("failed to create pantone matches: %w", err)
		}
	}
	if len(pms) > 0 {
		if err := tx.CreateInBatches(pms, batchSize).Error; err != nil {
			return fmt.Errorf("failed to create pms matches: %w", err)
		}
	}
	if len(ral) > 0 {
		if err := tx.CreateInBatches(ral, batchSize).Error; err != nil {
			return fmt.Errorf("failed to create ral matches: %w", err)
		}
	}
	return nil
}

func entities[T any](actions []reconcile.Action) ([]*T, error) {
	out := make([]*T, 0, len(actions))
	for _, a := range actions {
		e, ok := a.Entity.(*T)
		if !ok {
			return nil, entityTypeError(a)
		}
		out = append(out, e)
	}
	return out, nil
}

func entityTypeError(a reconcile.Action) error {
	return fmt.Errorf("unexpected entity %T for %s %s", a.Entity, a.Kind, a.Key)
}

func modelFor(kind string) (any, error) {
	switch kind {
	case KindManufacturer:
		return &models.Manufacturer{}, nil
	case KindFilamentType:
		return &models.FilamentType{}, nil
	case KindSwatch:
		return &models.Swatch{}, nil
	}
	return nil, fmt.Errorf("unknown kind %q", kind)
}
