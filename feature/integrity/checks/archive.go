package checks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"filament-sync/core/storage"

	"github.com/minio/minio-go/v7"
)

// ArchiveReport describes the snapshot archive bucket.
type ArchiveReport struct {
	Bucket       string     `json:"bucket"`
	BucketExists bool       `json:"bucket_exists"`
	Snapshots    int        `json:"snapshots"`
	LatestKey    string     `json:"latest_key,omitempty"`
	LatestAt     *time.Time `json:"latest_at,omitempty"`
}

// CheckArchive counts the snapshots stored under prefix and finds the newest one.
func CheckArchive(ctx context.Context, client storage.Client, bucket, prefix string) (*ArchiveReport, error) {
	report := &ArchiveReport{Bucket: bucket}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	report.BucketExists = exists
	if !exists {
		return report, nil
	}

	opts := minio.ListObjectsOptions{
		Prefix:    storage.ListPrefix(prefix),
		Recursive: true,
	}
	for obj := range client.ListObjects(ctx, bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list snapshots: %w", obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		report.Snapshots++
		if report.LatestAt == nil || obj.LastModified.After(*report.LatestAt) {
			modified := obj.LastModified
			report.LatestAt = &modified
			report.LatestKey = obj.Key
		}
	}

	return report, nil
}

// FixArchive creates the archive bucket if it is missing.
func FixArchive(ctx context.Context, client storage.Client, bucket, region string) error {
	return storage.EnsureBucket(ctx, client, bucket, region)
}
