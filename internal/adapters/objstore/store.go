// Package objstore implements the file store port against an S3-compatible
// object store.
package objstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hmodding/website-jobs/config"
	"github.com/hmodding/website-jobs/internal/core"
)

// Store serves site-relative file paths from an S3-compatible bucket. Object
// keys are the site-relative paths without the leading slash.
type Store struct {
	client *minio.Client
	bucket string
}

// NewStore builds an object store client from storage configuration.
func NewStore(cfg config.StorageConfig) (*Store, error) {
	if cfg.S3Endpoint == "" {
		return nil, errors.New("s3 endpoint is required")
	}
	if cfg.S3Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}

	cli, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Secure: cfg.S3UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect object store: %w", err)
	}

	return &Store{client: cli, bucket: cfg.S3Bucket}, nil
}

var _ core.FileStore = (*Store)(nil)

// Read returns the contents of a stored file by its site-relative path.
func (s *Store) Read(ctx context.Context, path string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, objectKey(path), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", path, err)
	}
	defer func() { _ = obj.Close() }()

	contents, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", path, err)
	}
	return contents, nil
}

// DeleteTree removes every object under a key prefix. An empty prefix match
// is a no-op. A listing failure is an error: callers treat a nil return as
// proof the tree is gone, so objects the listing missed must not be silently
// left behind.
func (s *Store) DeleteTree(ctx context.Context, prefix string) error {
	listCtx, stopListing := context.WithCancel(ctx)
	defer stopListing()

	objects := s.client.ListObjects(listCtx, s.bucket, minio.ListObjectsOptions{
		Prefix:    objectKey(prefix),
		Recursive: true,
	})

	// listErr is written before toRemove closes and read after the remove
	// channel closes, so the channel closes order the accesses.
	var listErr error
	toRemove := make(chan minio.ObjectInfo)
	go func() {
		defer close(toRemove)
		for obj := range objects {
			if obj.Err != nil {
				listErr = obj.Err
				return
			}
			select {
			case toRemove <- obj:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Drain the error channel completely so the producer goroutine is never
	// left blocked on toRemove.
	var removeErr error
	for failure := range s.client.RemoveObjects(ctx, s.bucket, toRemove, minio.RemoveObjectsOptions{}) {
		if failure.Err != nil && removeErr == nil {
			removeErr = fmt.Errorf("remove %s: %w", failure.ObjectName, failure.Err)
		}
	}

	if listErr != nil {
		return fmt.Errorf("delete tree %s: list objects: %w", prefix, listErr)
	}
	if removeErr != nil {
		return fmt.Errorf("delete tree %s: %w", prefix, removeErr)
	}
	return nil
}

func objectKey(path string) string {
	return strings.TrimPrefix(path, "/")
}
