package integrity

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"filament-sync/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T, withArchive bool) (*fiber.App, *mocks.Client) {
	app := fiber.New()
	mockClient := new(mocks.Client)
	var target *ArchiveTarget
	if withArchive {
		target = &ArchiveTarget{Client: mockClient, Bucket: "test-bucket", Prefix: "snapshots"}
	}
	svc := NewService(testDB(t), target, time.Hour, zap.NewNop())
	NewHandler(svc).RegisterRoutes(app)
	return app, mockClient
}

func decode(t *testing.T, app *fiber.App, path string) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestHandleSchemaCheck(t *testing.T) {
	app, _ := setupTestApp(t, false)

	status, body := decode(t, app, "/integrity/schema")
	assert.Equal(t, 200, status)
	assert.Equal(t, true, body["matched"])
}

func TestHandleArchiveCheck(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		app, _ := setupTestApp(t, false)

		status, body := decode(t, app, "/integrity/archive")
		assert.Equal(t, 404, status)
		assert.Contains(t, body["error"], "disabled")
	})

	t.Run("Fix", func(t *testing.T) {
		app, mockClient := setupTestApp(t, true)
		mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(false, nil)
		mockClient.On("MakeBucket", mock.Anything, "test-bucket", mock.Anything).Return(nil)

		status, body := decode(t, app, "/integrity/archive?fix=true")
		assert.Equal(t, 200, status)
		assert.Equal(t, true, body["bucket_exists"])
		mockClient.AssertCalled(t, "MakeBucket", mock.Anything, "test-bucket", mock.Anything)
	})
}

func TestHandleFreshnessCheck(t *testing.T) {
	app, _ := setupTestApp(t, false)

	status, body := decode(t, app, "/integrity/freshness")
	assert.Equal(t, 200, status)
	assert.Equal(t, true, body["stale"])
	assert.Equal(t, float64(0), body["swatches"])
}

func TestHandleIntegrityCheck(t *testing.T) {
	app, mockClient := setupTestApp(t, true)
	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(emptyList())

	status, body := decode(t, app, "/integrity")
	assert.Equal(t, 200, status)
	assert.Contains(t, body, "schema")
	assert.Contains(t, body, "archive")
	assert.Contains(t, body, "freshness")
}
