package app

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"time"

	"reviewwise/internal/domain"
)

const countsKey = "reviews:counts"

// limits the API hands out most often; ingestion evicts these list pages
var commonLimits = []int{20, 50, 100, 200}

func listKey(q domain.ReviewsQuery) string {
	return fmt.Sprintf("reviews:%s:%d:%d", q.Category, q.Limit, q.Offset)
}

type QueryService struct {
	repo     domain.ReviewRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.ReviewRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *QueryService) ListReviews(ctx context.Context, q domain.ReviewsQuery) (domain.ReviewsPage, error) {
	key := listKey(q)
	var out domain.ReviewsPage
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	rs, err := s.repo.ListReviews(ctx, q)
	if err != nil {
		return domain.ReviewsPage{}, err
	}

	// copy slice to avoid aliasing the repo's backing array
	copyRS := deepCopyReviewsPage(rs)

	// optional size guard
	if b, _ := json.Marshal(copyRS); len(b) < 1_000_000 {
		_ = s.cache.Set(ctx, key, copyRS, int(s.cacheTTL.Seconds()))
	}
	return copyRS, nil
}

// CategoryCounts returns the number of stored records per category.
func (s *QueryService) CategoryCounts(ctx context.Context) (map[string]int, error) {
	var out map[string]int
	if ok, _ := s.cache.Get(ctx, countsKey, &out); ok {
		return out, nil
	}
	counts, err := s.repo.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}
	out = maps.Clone(counts)
	if out == nil {
		out = map[string]int{}
	}
	_ = s.cache.Set(ctx, countsKey, maps.Clone(out), int(s.cacheTTL.Seconds()))
	return out, nil
}

func deepCopyReviewsPage(in domain.ReviewsPage) domain.ReviewsPage {
	out := domain.ReviewsPage{NextCursor: in.NextCursor}
	if n := len(in.Items); n > 0 {
		out.Items = make([]domain.Review, n)
		copy(out.Items, in.Items)
	}
	return out
}
