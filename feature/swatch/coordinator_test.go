package swatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"filament-sync/core/reconcile"
	"filament-sync/feature/swatch/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var passStart = time.Date(2024, 6, 1, 3, 0, 0, 0, time.UTC)

func TestRunPass_CreatesEntities(t *testing.T) {
	db := testDB(t)
	c := newTestCoordinator(db, passStart)

	result := c.RunPass(context.Background(), records(t,
		fixture{ID: 1, Mfr: 7, Type: 3, Name: "Red", Pantone: 2},
		fixture{ID: 2, Mfr: 7, Type: 3, Name: "Crimson", Pantone: 1},
	), false)

	require.NoError(t, result.Err)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.RecordsProcessed)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 1, result.Summary.Kinds[KindManufacturer].Creates)

	var makers int64
	db.Model(&models.Manufacturer{}).Count(&makers)
	assert.Equal(t, int64(1), makers, "shared new manufacturer is created once")

	var sw models.Swatch
	require.NoError(t, db.Preload("PantoneColors").First(&sw, 1).Error)
	assert.Equal(t, "Red", sw.ColorName)
	assert.Equal(t, 7, sw.ManufacturerID)
	assert.Len(t, sw.PantoneColors, 2)
	assert.True(t, passStart.Equal(sw.LastSynced))
	assert.NotEmpty(t, sw.OriginalJSON)
}

func TestRunPass_Idempotent(t *testing.T) {
	db := testDB(t)
	recs := records(t,
		fixture{ID: 1, Mfr: 7, Type: 3, Name: "Red", Pantone: 3},
		fixture{ID: 2, Mfr: 8, Type: 3, Name: "Blue", Hex: "0000ff", Parent: "blue"},
	)

	// Same clock for both passes: the watermark must still move forward.
	c := newTestCoordinator(db, passStart)
	first := c.RunPass(context.Background(), recs, false)
	require.True(t, first.Success)
	before := dump(t, db, true)

	var s1 models.Swatch
	require.NoError(t, db.First(&s1, 1).Error)

	second := c.RunPass(context.Background(), recs, false)
	require.True(t, second.Success)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 2, second.Updated)

	assert.Equal(t, before, dump(t, db, true))

	var s2 models.Swatch
	require.NoError(t, db.First(&s2, 1).Error)
	assert.True(t, s2.LastSynced.After(s1.LastSynced), "last_synced strictly increases")
}

func TestRunPass_SubMatchReplacement(t *testing.T) {
	db := testDB(t)
	c := newTestCoordinator(db, passStart)

	require.True(t, c.RunPass(context.Background(), records(t, fixture{ID: 1, Mfr: 7, Type: 3, Pantone: 3}), false).Success)
	require.True(t, c.RunPass(context.Background(), records(t, fixture{ID: 1, Mfr: 7, Type: 3, Pantone: 1}), false).Success)

	var matches []models.PantoneColor
	require.NoError(t, db.Where("swatch_id = ?", 1).Find(&matches).Error)
	require.Len(t, matches, 1)
	assert.Equal(t, "P-1-1", matches[0].Code)
	assert.Equal(t, 1, matches[0].Rank)
}

func TestRunPass_ParentOverwrite(t *testing.T) {
	db := testDB(t)
	c := newTestCoordinator(db, passStart)
	require.True(t, c.RunPass(context.Background(), records(t, fixture{ID: 1, Mfr: 7, Type: 3}), false).Success)

	recs := records(t, fixture{ID: 1, Mfr: 7, Type: 3})
	recs[0].Manufacturer.Name = "Renamed"
	recs[0].Manufacturer.Website = ""
	require.True(t, c.RunPass(context.Background(), recs, false).Success)

	var m models.Manufacturer
	require.NoError(t, db.First(&m, 7).Error)
	assert.Equal(t, "Renamed", m.Name)
	assert.Empty(t, m.Website, "full overwrite clears attributes")
}

func TestRunPass_DuplicateRecordLastWins(t *testing.T) {
	db := testDB(t)
	c := newTestCoordinator(db, passStart)

	result := c.RunPass(context.Background(), records(t,
		fixture{ID: 1, Mfr: 7, Type: 3, Name: "First"},
		fixture{ID: 1, Mfr: 7, Type: 3, Name: "Second"},
	), false)
	require.NoError(t, result.Err)
	assert.Equal(t, 1, result.Created)

	var sw models.Swatch
	require.NoError(t, db.First(&sw, 1).Error)
	assert.Equal(t, "Second", sw.ColorName)
}

// failingStore fails when a staged action for failKey of failKind is applied.
type failingStore struct {
	*Store
	failKind string
	failKey  string
}

func (f *failingStore) CreateBatch(ctx context.Context, tx *gorm.DB, kind string, actions []reconcile.Action) error {
	for _, a := range actions {
		if a.Kind == f.failKind && a.Key == f.failKey {
			return errors.New("constraint violation")
		}
	}
	return f.Store.CreateBatch(ctx, tx, kind, actions)
}

func (f *failingStore) Update(ctx context.Context, tx *gorm.DB, action reconcile.Action) error {
	if action.Kind == f.failKind && action.Key == f.failKey {
		return errors.New("constraint violation")
	}
	return f.Store.Update(ctx, tx, action)
}

func TestRunPass_Atomicity(t *testing.T) {
	db := testDB(t)
	seed := newTestCoordinator(db, passStart)
	require.True(t, seed.RunPass(context.Background(), records(t,
		fixture{ID: 1, Mfr: 7, Type: 3, Name: "a", Pantone: 3},
		fixture{ID: 2, Mfr: 7, Type: 3, Name: "b"},
		fixture{ID: 3, Mfr: 7, Type: 3, Name: "c"},
	), false).Success)
	before := dump(t, db, false)

	c := NewCoordinator(db, &failingStore{Store: NewStore(), failKind: KindSwatch, failKey: "3"}, zap.NewNop())
	result := c.RunPass(context.Background(), records(t,
		fixture{ID: 1, Mfr: 9, Type: 3, Name: "a2", Pantone: 1},
		fixture{ID: 2, Mfr: 7, Type: 4, Name: "b2"},
		fixture{ID: 3, Mfr: 7, Type: 3, Name: "c2"},
		fixture{ID: 4, Mfr: 9, Type: 4, Name: "d"},
		fixture{ID: 5, Mfr: 7, Type: 3, Name: "e"},
	), false)

	assert.False(t, result.Success)
	var re *ReconcileError
	require.True(t, errors.As(result.Err, &re))
	require.NotNil(t, re.Action)
	assert.Equal(t, "3", re.Action.Key)

	assert.Equal(t, before, dump(t, db, false), "failed pass leaves the store untouched")
}

// cancellingStore cancels the pass context once the first batch is written.
type cancellingStore struct {
	*Store
	cancel context.CancelFunc
}

func (c *cancellingStore) CreateBatch(ctx context.Context, tx *gorm.DB, kind string, actions []reconcile.Action) error {
	c.cancel()
	return c.Store.CreateBatch(ctx, tx, kind, actions)
}

func TestRunPass_CancelledDuringApplyRollsBack(t *testing.T) {
	db := testDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := NewCoordinator(db, &cancellingStore{Store: NewStore(), cancel: cancel}, zap.NewNop())
	c.now = func() time.Time { return passStart }

	result := c.RunPass(ctx, records(t,
		fixture{ID: 1, Mfr: 7, Type: 3, Pantone: 2},
		fixture{ID: 2, Mfr: 8, Type: 3},
	), false)

	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Err, context.Canceled)

	var n int64
	require.NoError(t, db.Model(&models.Manufacturer{}).Count(&n).Error)
	assert.Zero(t, n, "cancelled pass is rolled back")
}

func TestRunPass_DryRun(t *testing.T) {
	db := testDB(t)
	c := newTestCoordinator(db, passStart)

	result := c.RunPass(context.Background(), records(t, fixture{ID: 1, Mfr: 7, Type: 3}), true)
	require.NoError(t, result.Err)
	assert.True(t, result.DryRun)
	assert.Equal(t, 1, result.Created)

	var n int64
	db.Model(&models.Swatch{}).Count(&n)
	assert.Zero(t, n)
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func expectViewQueries(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("SELECT `id` FROM `manufacturers`").WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT `id` FROM `filament_types`").WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT `id` FROM `swatches`").WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT `last_synced` FROM `swatches`").WillReturnRows(sqlmock.NewRows([]string{"last_synced"}))
}

func TestRunPass_CommitFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectBegin()
	expectViewQueries(mock)
	mock.ExpectCommit().WillReturnError(errors.New("connection lost"))

	c := newTestCoordinator(db, passStart)
	result := c.RunPass(context.Background(), nil, false)

	assert.False(t, result.Success)
	var te *TransactionError
	require.True(t, errors.As(result.Err, &te))
	assert.ErrorContains(t, result.Err, "connection lost")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunPass_BeginFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	c := newTestCoordinator(db, passStart)
	result := c.RunPass(context.Background(), nil, false)

	var te *TransactionError
	assert.True(t, errors.As(result.Err, &te))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunPass_WriteFailureRollsBack(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectBegin()
	expectViewQueries(mock)
	mock.ExpectExec("INSERT INTO `manufacturers`").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	c := newTestCoordinator(db, passStart)
	result := c.RunPass(context.Background(), records(t, fixture{ID: 1, Mfr: 7, Type: 3}), false)

	var re *ReconcileError
	require.True(t, errors.As(result.Err, &re))
	assert.Equal(t, KindManufacturer, re.Action.Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}
