package app_test

import (
	"context"
	"errors"

	"reviewwise/internal/domain"
)

// ---- fakes ----

type fakeStore struct {
	records   []domain.Review
	reads     int
	readErr   error
	appendErr error
}

func (f *fakeStore) ReadAll(ctx context.Context) ([]domain.Review, error) {
	f.reads++
	if f.readErr != nil {
		return nil, f.readErr
	}
	return append([]domain.Review(nil), f.records...), nil
}

func (f *fakeStore) Append(ctx context.Context, r domain.Review) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.records = append(f.records, r)
	return nil
}

func (f *fakeStore) ListReviews(ctx context.Context, q domain.ReviewsQuery) (domain.ReviewsPage, error) {
	var matched []domain.Review
	for _, r := range f.records {
		if q.Category == "" || r.Category == q.Category {
			matched = append(matched, r)
		}
	}
	if q.Offset >= len(matched) {
		return domain.ReviewsPage{}, nil
	}
	matched = matched[q.Offset:]
	if len(matched) > q.Limit+1 {
		matched = matched[:q.Limit+1]
	}
	return domain.NewPage(matched, q), nil
}

func (f *fakeStore) CountByCategory(ctx context.Context) (map[string]int, error) {
	out := map[string]int{}
	for _, r := range f.records {
		out[r.Category]++
	}
	return out, nil
}

func (f *fakeStore) Close() error { return nil }

type fakeSource struct {
	name string
	rows []domain.Row
	err  error
}

func (s fakeSource) Name() string { return s.name }
func (s fakeSource) Rows(ctx context.Context) ([]domain.Row, error) {
	return s.rows, s.err
}

type fakeCache struct {
	store   map[string]any
	deleted []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.store == nil {
		return false, nil
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *domain.ReviewsPage:
		*d = v.(domain.ReviewsPage)
	case *map[string]int:
		*d = v.(map[string]int)
	default:
		return false, errors.New("unsupported type")
	}
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.deleted = append(c.deleted, key)
	delete(c.store, key)
	return nil
}

func row(item, text, rating, date string) domain.Row {
	return domain.Row{
		"item_id":       "x",
		"item_name":     item,
		"category":      "ignored",
		"rating":        rating,
		"review_text":   text,
		"quality_score": "0.8",
		"source":        "Synthetic",
		"date":          date,
	}
}
