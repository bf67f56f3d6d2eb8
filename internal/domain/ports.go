package domain

import (
	"context"
	"strconv"
)

// Source yields every row of one CSV input. The whole input is read per call.
type Source interface {
	Name() string
	Rows(ctx context.Context) ([]Row, error)
}

// ReviewStore is the append-only record store the ingestion pipeline writes to.
type ReviewStore interface {
	// ReadAll returns every record in insertion order.
	ReadAll(ctx context.Context) ([]Review, error)
	// Append persists r; the write is durable when Append returns.
	Append(ctx context.Context, r Review) error
}

type ReviewRepository interface {
	ReviewStore

	// Read paths
	ListReviews(ctx context.Context, q ReviewsQuery) (ReviewsPage, error)
	CountByCategory(ctx context.Context) (map[string]int, error)

	Close() error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Read models & queries
type ReviewsQuery struct {
	Category string // empty means all categories
	Limit    int
	Offset   int
}

type ReviewsPage struct {
	Items      []Review `json:"items"`
	NextCursor *string  `json:"next_cursor,omitempty"`
}

// NewPage builds a page from up to q.Limit+1 fetched items; the extra item
// only signals that another page exists.
func NewPage(items []Review, q ReviewsQuery) ReviewsPage {
	if q.Limit > 0 && len(items) > q.Limit {
		next := strconv.Itoa(q.Offset + q.Limit)
		return ReviewsPage{Items: items[:q.Limit], NextCursor: &next}
	}
	return ReviewsPage{Items: items}
}
