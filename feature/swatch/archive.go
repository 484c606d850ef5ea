package swatch

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"sort"
	"time"

	"filament-sync/core/storage"

	"github.com/goccy/go-json"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ArchiveDocument is the object written for each committed pass.
type ArchiveDocument struct {
	PassID    string            `json:"passId"`
	StartedAt time.Time         `json:"startedAt"`
	Pages     int               `json:"pages"`
	Truncated bool              `json:"truncated"`
	Records   []json.RawMessage `json:"records"`
}

// Archive writes raw pass payloads to object storage and prunes old ones.
type Archive struct {
	client    storage.Client
	bucket    string
	prefix    string
	retention int
	logger    *zap.Logger
}

// NewArchive creates an archive. retention is the number of snapshots kept; 0 keeps all.
func NewArchive(client storage.Client, bucket, prefix string, retention int, logger *zap.Logger) *Archive {
	return &Archive{
		client:    client,
		bucket:    bucket,
		prefix:    prefix,
		retention: retention,
		logger:    logger,
	}
}

// ObjectKey returns the object name of a pass snapshot.
func (a *Archive) ObjectKey(passID string, startedAt time.Time) string {
	return path.Join(a.prefix, startedAt.UTC().Format("2006/01/02"), passID+".json")
}

// Store uploads the snapshot of a committed pass and returns its key.
func (a *Archive) Store(ctx context.Context, doc ArchiveDocument) (string, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	key := a.ObjectKey(doc.PassID, doc.StartedAt)
	_, err = a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload snapshot %s: %w", key, err)
	}

	a.logger.Info("Archived pass snapshot",
		zap.String("pass_id", doc.PassID),
		zap.String("key", key),
		zap.Int("records", len(doc.Records)),
	)
	return key, nil
}

// Prune removes the oldest snapshots beyond the retention count.
func (a *Archive) Prune(ctx context.Context) (int, error) {
	if a.retention <= 0 {
		return 0, nil
	}

	var objects []minio.ObjectInfo
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{Prefix: storage.ListPrefix(a.prefix), Recursive: true}) {
		if obj.Err != nil {
			return 0, fmt.Errorf("failed to list snapshots: %w", obj.Err)
		}
		objects = append(objects, obj)
	}
	if len(objects) <= a.retention {
		return 0, nil
	}

	// Newest first.
	sort.Slice(objects, func(i, j int) bool {
		if !objects[i].LastModified.Equal(objects[j].LastModified) {
			return objects[i].LastModified.After(objects[j].LastModified)
		}
		return objects[i].Key > objects[j].Key
	})
	stale := objects[a.retention:]

	objectsCh := make(chan minio.ObjectInfo, len(stale))
	for _, obj := range stale {
		objectsCh <- obj
	}
	close(objectsCh)

	removed := len(stale)
	for rErr := range a.client.RemoveObjects(ctx, a.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		removed--
		a.logger.Warn("Failed to remove snapshot",
			zap.String("key", rErr.ObjectName),
			zap.Error(rErr.Err),
		)
	}
	return removed, nil
}
