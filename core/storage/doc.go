// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind a small interface. The sync engine uses it
// to archive the raw catalog payload of every committed pass, so a past
// snapshot of the remote catalog can be inspected or replayed later.
//
// # Client Interface
//
// The Client interface abstracts the underlying provider (AWS S3 or self-hosted
// MinIO) and is mocked in core/storage/mocks for unit tests.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
