// Package storage wraps the MinIO client used by the object cache backend.
//
// The Client interface carries only the operations the cache needs, which
// keeps it mockable (see core/storage/mocks). It works against AWS S3 and
// self-hosted MinIO alike.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
