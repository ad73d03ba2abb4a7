// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client so written comparison reports can be uploaded to AWS S3 or a
// self-hosted MinIO instance.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Operations
//
//   - BucketExists: Verifies access to the target bucket.
//   - MakeBucket: Creates the report bucket if needed.
//   - PutObject: Uploads a report file.
//   - ListObjects: Lists uploaded reports (supports prefix/recursive).
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
package storage
