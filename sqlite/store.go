package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/sitecrawl"
)

var _ sitecrawl.Storage = (*Store)(nil)

// Artifact is a stored artifact row.
type Artifact struct {
	Path        string
	Category    string
	Body        []byte
	ContentHash string
	UpdatedAt   time.Time
}

// ArtifactFilter selects artifacts in List.
type ArtifactFilter struct {
	Category *string
	Limit    int
	Offset   int
}

// Store implements sitecrawl.Storage on an artifacts table keyed by path.
type Store struct {
	db  *DB
	Now func() time.Time
}

// NewStore creates a new Store.
func NewStore(db *DB) *Store {
	return &Store{db: db, Now: time.Now}
}

// Put inserts or replaces the artifact at path.
func (s *Store) Put(ctx context.Context, path string, data []byte) error {
	if path == "" {
		return sitecrawl.Errorf(sitecrawl.EINVALID, "artifact path required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO artifacts (path, category, body, content_hash, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			body = excluded.body,
			content_hash = excluded.content_hash,
			updated_at = excluded.updated_at
	`, path, categoryOf(path), data, hashBody(data), s.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return sitecrawl.Errorf(sitecrawl.ESTORAGE, "storing %s: %v", path, err)
	}
	return nil
}

// Get returns the artifact at path.
func (s *Store) Get(ctx context.Context, path string) (*Artifact, error) {
	var a Artifact
	var updatedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT path, category, body, content_hash, updated_at
		FROM artifacts
		WHERE path = ?
	`, path).Scan(&a.Path, &a.Category, &a.Body, &a.ContentHash, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sitecrawl.Errorf(sitecrawl.ENOTFOUND, "artifact %s not found", path)
	} else if err != nil {
		return nil, sitecrawl.Errorf(sitecrawl.ESTORAGE, "reading %s: %v", path, err)
	}

	if a.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, sitecrawl.Errorf(sitecrawl.ESTORAGE, "reading %s: %v", path, err)
	}
	return &a, nil
}

// List returns artifacts ordered by path. Bodies are included.
func (s *Store) List(ctx context.Context, filter ArtifactFilter) ([]*Artifact, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT path, category, body, content_hash, updated_at FROM artifacts WHERE 1=1")
	if filter.Category != nil {
		query.WriteString(" AND category = ?")
		args = append(args, *filter.Category)
	}
	query.WriteString(" ORDER BY path ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, sitecrawl.Errorf(sitecrawl.ESTORAGE, "listing artifacts: %v", err)
	}
	defer rows.Close()

	artifacts := []*Artifact{}
	for rows.Next() {
		var a Artifact
		var updatedAt string
		if err := rows.Scan(&a.Path, &a.Category, &a.Body, &a.ContentHash, &updatedAt); err != nil {
			return nil, sitecrawl.Errorf(sitecrawl.ESTORAGE, "scanning artifact: %v", err)
		}
		if a.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
			return nil, sitecrawl.Errorf(sitecrawl.ESTORAGE, "scanning artifact: %v", err)
		}
		artifacts = append(artifacts, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, sitecrawl.Errorf(sitecrawl.ESTORAGE, "listing artifacts: %v", err)
	}
	return artifacts, nil
}

// Count returns the number of artifacts per category.
func (s *Store) Count(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT category, COUNT(*) FROM artifacts GROUP BY category")
	if err != nil {
		return nil, sitecrawl.Errorf(sitecrawl.ESTORAGE, "counting artifacts: %v", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var category string
		var n int
		if err := rows.Scan(&category, &n); err != nil {
			return nil, sitecrawl.Errorf(sitecrawl.ESTORAGE, "counting artifacts: %v", err)
		}
		counts[category] = n
	}
	if err := rows.Err(); err != nil {
		return nil, sitecrawl.Errorf(sitecrawl.ESTORAGE, "counting artifacts: %v", err)
	}
	return counts, nil
}
