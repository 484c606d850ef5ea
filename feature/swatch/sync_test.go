package swatch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"filament-sync/core/storage/mocks"
	"filament-sync/feature/catalog"
	"filament-sync/feature/swatch/models"

	"github.com/goccy/go-json"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// catalogServer serves one page per element of pages; failPage answers 500.
func catalogServer(t *testing.T, pages [][]json.RawMessage, failPage int) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var page int
		_, _ = fmt.Sscanf(r.URL.Query().Get("page"), "%d", &page)
		if page == 0 {
			page = 1
		}
		if page == failPage {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var next any
		if page < len(pages) {
			next = fmt.Sprintf("%s/?page=%d", srv.URL, page+1)
		}
		body, _ := json.Marshal(map[string]any{
			"count":    len(pages),
			"next":     next,
			"previous": nil,
			"results":  pages[page-1],
		})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestSync(t *testing.T, db *gorm.DB, srv *httptest.Server, archive *Archive) *SyncService {
	t.Helper()
	fetcher := catalog.NewFetcher(catalog.Config{
		BaseURL:               srv.URL + "/",
		MaxPages:              10,
		RequestTimeoutSeconds: 5,
	}, zap.NewNop(), nil)
	return NewSyncService(fetcher, srv.URL+"/", NewCoordinator(db, NewStore(), zap.NewNop()), archive, nil, zap.NewNop(), false)
}

type countingInvalidator struct{ n int32 }

func (c *countingInvalidator) Invalidate() { atomic.AddInt32(&c.n, 1) }

func TestRunOnce_SkipsMalformedRecord(t *testing.T) {
	db := testDB(t)
	missingID := json.RawMessage(`{"manufacturer": {"id": 7}, "filament_type": {"id": 3}, "color_name": "ghost"}`)
	srv := catalogServer(t, [][]json.RawMessage{{
		fixture{ID: 1, Mfr: 7, Type: 3}.raw(),
		fixture{ID: 2, Mfr: 7, Type: 3}.raw(),
		missingID,
		fixture{ID: 4, Mfr: 8, Type: 3}.raw(),
		fixture{ID: 5, Mfr: 8, Type: 3}.raw(),
	}}, 0)

	inv := &countingInvalidator{}
	svc := newTestSync(t, db, srv, nil)
	svc.AddInvalidator(inv)

	result := svc.RunOnce(context.Background())

	require.NoError(t, result.Err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 4, result.RecordsProcessed)
	assert.Equal(t, 1, result.Pages)

	var n int64
	db.Model(&models.Swatch{}).Count(&n)
	assert.Equal(t, int64(4), n)
	assert.Equal(t, int32(1), atomic.LoadInt32(&inv.n))
}

func TestRunOnce_WalksAllPages(t *testing.T) {
	db := testDB(t)
	srv := catalogServer(t, [][]json.RawMessage{
		{fixture{ID: 1, Mfr: 7, Type: 3}.raw()},
		{fixture{ID: 2, Mfr: 7, Type: 3}.raw()},
		{fixture{ID: 3, Mfr: 7, Type: 3}.raw()},
	}, 0)

	result := newTestSync(t, db, srv, nil).RunOnce(context.Background())

	require.NoError(t, result.Err)
	assert.Equal(t, 3, result.Pages)
	assert.Equal(t, 3, result.Created)
	assert.False(t, result.Truncated)
}

func TestRunOnce_FetchFailureWritesNothing(t *testing.T) {
	db := testDB(t)
	srv := catalogServer(t, [][]json.RawMessage{
		{fixture{ID: 1, Mfr: 7, Type: 3}.raw()},
		{fixture{ID: 2, Mfr: 7, Type: 3}.raw()},
	}, 2)

	inv := &countingInvalidator{}
	svc := newTestSync(t, db, srv, nil)
	svc.AddInvalidator(inv)

	result := svc.RunOnce(context.Background())

	assert.False(t, result.Success)
	var fe *catalog.FetchError
	require.True(t, errors.As(result.Err, &fe))
	assert.Equal(t, 2, fe.Page)

	var n int64
	db.Model(&models.Swatch{}).Count(&n)
	assert.Zero(t, n, "records of earlier pages are not reconciled")
	assert.Zero(t, atomic.LoadInt32(&inv.n))
}

func TestRunOnce_ArchivesCommittedPass(t *testing.T) {
	db := testDB(t)
	srv := catalogServer(t, [][]json.RawMessage{{fixture{ID: 1, Mfr: 7, Type: 3}.raw()}}, 0)

	client := new(mocks.Client)
	var uploaded string
	client.On("PutObject", mock.Anything, "snapshots-bucket", mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "snapshots/") && strings.HasSuffix(key, ".json")
	}), mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { uploaded = args.String(2) }).
		Return(minio.UploadInfo{}, nil)
	client.On("ListObjects", mock.Anything, "snapshots-bucket", mock.Anything).Return(nil)

	archive := NewArchive(client, "snapshots-bucket", "snapshots", 5, zap.NewNop())
	result := newTestSync(t, db, srv, archive).RunOnce(context.Background())

	require.NoError(t, result.Err)
	client.AssertExpectations(t)
	assert.Contains(t, uploaded, result.ID)
}

func TestRunOnce_ArchiveFailureKeepsPass(t *testing.T) {
	db := testDB(t)
	srv := catalogServer(t, [][]json.RawMessage{{fixture{ID: 1, Mfr: 7, Type: 3}.raw()}}, 0)

	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("bucket gone"))

	archive := NewArchive(client, "b", "snapshots", 5, zap.NewNop())
	result := newTestSync(t, db, srv, archive).RunOnce(context.Background())

	assert.True(t, result.Success)
	var n int64
	db.Model(&models.Swatch{}).Count(&n)
	assert.Equal(t, int64(1), n)
}
