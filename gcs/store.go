// Package gcs stores crawl artifacts as objects in a Google Cloud Storage
// bucket.
package gcs

import (
	"context"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/fwojciec/sitecrawl"
)

var _ sitecrawl.Storage = (*Store)(nil)

// Store writes artifacts to bucket under an optional prefix.
type Store struct {
	bucket *storage.BucketHandle
	prefix string
}

// NewStore creates a Store for bucket. prefix, when set, is prepended to
// every artifact path.
func NewStore(client *storage.Client, bucket, prefix string) *Store {
	return &Store{
		bucket: client.Bucket(bucket),
		prefix: strings.Trim(prefix, "/"),
	}
}

// ObjectName returns the object name an artifact path is stored under.
func (s *Store) ObjectName(p string) string {
	if s.prefix == "" {
		return p
	}
	return path.Join(s.prefix, p)
}

// Put uploads data as a JSON object, replacing any existing object.
func (s *Store) Put(ctx context.Context, p string, data []byte) error {
	name := s.ObjectName(p)

	w := s.bucket.Object(name).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return sitecrawl.Errorf(sitecrawl.ESTORAGE, "uploading %s: %v", name, err)
	}
	if err := w.Close(); err != nil {
		return sitecrawl.Errorf(sitecrawl.ESTORAGE, "uploading %s: %v", name, err)
	}
	return nil
}
