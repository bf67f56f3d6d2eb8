package app

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"

	"reviewwise/internal/categorize"
	"reviewwise/internal/domain"
	"reviewwise/internal/identity"
)

type IngestionService struct {
	store domain.ReviewStore
	tax   *categorize.Taxonomy
	names *identity.Generator
	cache domain.Cache
	newID func() string
}

// NewIngestionService wires the pipeline. cache may be nil.
func NewIngestionService(store domain.ReviewStore, tax *categorize.Taxonomy, names *identity.Generator, cache domain.Cache) *IngestionService {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return &IngestionService{
		store: store,
		tax:   tax,
		names: names,
		cache: cache,
		newID: func() string { return ulid.MustNew(ulid.Now(), entropy).String() },
	}
}

// SetIDSource replaces the record ID generator (ULIDs by default).
func (s *IngestionService) SetIDSource(f func() string) { s.newID = f }

// Ingest appends every row of sources whose dedup key is not already in the
// store. Sources are processed in the given order, rows in file order.
//
// The store is read once up front; keys added during the run go into the same
// in-memory set, so repeats inside one run are skipped too. A malformed rating
// or a failed append stops the run; records appended before that stay.
func (s *IngestionService) Ingest(ctx context.Context, sources []domain.Source) (Summary, error) {
	sum := Summary{Added: map[string]int{}}
	if len(sources) == 0 {
		return sum, domain.ErrNoSources
	}

	existing, err := s.store.ReadAll(ctx)
	if err != nil {
		return sum, storeErr("read store", err)
	}
	seen := make(map[domain.DedupKey]struct{}, len(existing))
	for _, r := range existing {
		seen[r.Key()] = struct{}{}
	}
	log.Info().Int("existing", len(existing)).Int("sources", len(sources)).Msg("ingestion starting")

	defer func() {
		if sum.TotalAdded() > 0 {
			s.invalidate(ctx)
		}
	}()

	for _, src := range sources {
		log.Info().Str("source", src.Name()).Msg("processing source")
		rows, err := src.Rows(ctx)
		if err != nil {
			return sum, fmt.Errorf("read %s: %w", src.Name(), err)
		}

		for i, row := range rows {
			sum.TotalProcessed++
			c := mapRow(row)

			key := domain.KeyOf(c.reviewText, c.date)
			if _, dup := seen[key]; dup {
				sum.DuplicatesSkipped++
				continue
			}

			category := s.tax.Categorize(c.itemName, c.reviewText)
			username := s.names.Generate()
			rating, err := parseRating(c.rating)
			if err != nil {
				// rows are 1-based after the header line
				return sum, fmt.Errorf("%s row %d: %w", src.Name(), i+1, err)
			}
			rv := domain.Review{
				ID:         s.newID(),
				Username:   username,
				Rating:     rating,
				ReviewText: c.reviewText,
				Date:       c.date,
				Source:     c.source,
				Category:   category,
				ItemName:   c.itemName,
			}
			if err := s.store.Append(ctx, rv); err != nil {
				return sum, storeErr(fmt.Sprintf("append %s row %d", src.Name(), i+1), err)
			}

			seen[key] = struct{}{}
			sum.Added[rv.Category]++
		}
	}

	log.Info().
		Int("processed", sum.TotalProcessed).
		Int("duplicates", sum.DuplicatesSkipped).
		Int("added", sum.TotalAdded()).
		Msg("ingestion completed")
	return sum, nil
}

func storeErr(op string, err error) error {
	if errors.Is(err, domain.ErrStoreUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}

// invalidate evicts the query caches that new records make stale.
func (s *IngestionService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, countsKey)
	cats := append([]string{""}, s.tax.Labels()...)
	cats = append(cats, domain.FallbackCategory)
	for _, c := range cats {
		for _, lim := range commonLimits {
			_ = s.cache.Del(ctx, listKey(domain.ReviewsQuery{Category: c, Limit: lim}))
		}
	}
}
