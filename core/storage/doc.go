// Package storage wraps the MinIO client for the object storage recycle bin.
//
// Removed assets can be soft-deleted into a bucket instead of a local
// directory. The Client interface lists the handful of operations the
// recycle bin needs, which keeps it mockable (see core/storage/mocks).
//
// # Operations
//
//   - BucketExists / MakeBucket: EnsureBucket creates the recycle bucket on startup.
//   - PutObject: uploads a recycled file.
//   - GetObject: streams a recycled file back for restore.
//   - ListObjects: lists recycled files under a prefix.
//   - RemoveObject: purges a recycled file after restore.
//
// # Usage
//
// Open builds the client and creates the bucket within Config.Timeout:
//
//	client, err := storage.Open(ctx, cfg.Storage)
//
// NewClient and EnsureBucket are the two halves, for callers that manage the
// bucket themselves.
package storage
