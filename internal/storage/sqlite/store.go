// Package sqlite persists reviews in a single SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"reviewwise/internal/adapters/observability"
	"reviewwise/internal/domain"
)

const backend = "sqlite"

var schema = []string{`
CREATE TABLE IF NOT EXISTS reviews (
    seq         INTEGER PRIMARY KEY AUTOINCREMENT,
    review_id   TEXT NOT NULL DEFAULT '',
    username    TEXT NOT NULL,
    rating      REAL NOT NULL,
    review_text TEXT NOT NULL,
    review_date TEXT NOT NULL,
    source      TEXT NOT NULL,
    category    TEXT NOT NULL,
    item_name   TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_category ON reviews(category, seq)`,
}

const selectColumns = `SELECT review_id, username, rating, review_text, review_date, source, category, item_name FROM reviews`

const (
	sqliteBusyCode    = 5
	busyRetryAttempts = 5
	busyRetryBackoff  = 10 * time.Millisecond
)

type Store struct {
	db   *sql.DB
	path string
}

func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// one writer; avoids SQLITE_BUSY between pooled connections
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=FULL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", p, err)
		}
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init schema: %w", err)
		}
	}
	return &Store{db: db, path: path}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) ReadAll(ctx context.Context) ([]domain.Review, error) {
	out, err := s.query(ctx, selectColumns+` ORDER BY seq`)
	observability.ObserveStore(backend, "read_all", err)
	return out, err
}

func (s *Store) Append(ctx context.Context, r domain.Review) error {
	err := retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `
INSERT INTO reviews (review_id, username, rating, review_text, review_date, source, category, item_name)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.Username, r.Rating, r.ReviewText, r.Date, r.Source, r.Category, r.ItemName)
		return err
	})
	observability.ObserveStore(backend, "append", err)
	return err
}

func (s *Store) ListReviews(ctx context.Context, q domain.ReviewsQuery) (domain.ReviewsPage, error) {
	limit := q.Limit + 1
	if q.Limit <= 0 {
		limit = -1 // sqlite: no limit
	}
	items, err := s.query(ctx, selectColumns+`
WHERE (? = '' OR category = ?)
ORDER BY seq
LIMIT ? OFFSET ?`, q.Category, q.Category, limit, q.Offset)
	observability.ObserveStore(backend, "list", err)
	if err != nil {
		return domain.ReviewsPage{}, err
	}
	return domain.NewPage(items, q), nil
}

func (s *Store) CountByCategory(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT category, COUNT(*) FROM reviews GROUP BY category`)
	if err != nil {
		observability.ObserveStore(backend, "count", err)
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var cat string
		var n int
		if err := rows.Scan(&cat, &n); err != nil {
			observability.ObserveStore(backend, "count", err)
			return nil, err
		}
		out[cat] = n
	}
	err = rows.Err()
	observability.ObserveStore(backend, "count", err)
	return out, err
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]domain.Review, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		var r domain.Review
		if err := rows.Scan(&r.ID, &r.Username, &r.Rating, &r.ReviewText, &r.Date, &r.Source, &r.Category, &r.ItemName); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func isBusy(err error) bool {
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	return strings.Contains(err.Error(), "SQLITE_BUSY")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryBackoff
	var err error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		if err = op(); err == nil || !isBusy(err) {
			return err
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay *= 2
	}
	return err
}
