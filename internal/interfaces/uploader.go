package interfaces

import "context"

// ObjectStore holds uploaded blobs. Paths are relative to the bucket.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, path string, blob []byte) (string, error)
	Remove(ctx context.Context, bucket string, paths []string) error
}
