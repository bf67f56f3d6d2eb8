package app_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"reviewwise/internal/app"
	"reviewwise/internal/categorize"
	"reviewwise/internal/domain"
	"reviewwise/internal/identity"
)

func newService(store domain.ReviewStore, cache domain.Cache) *app.IngestionService {
	return app.NewIngestionService(store, categorize.Default(), identity.NewSeeded(1), cache)
}

func TestIngest_CategorizesAndAppends(t *testing.T) {
	store := &fakeStore{}
	src := fakeSource{name: "a.csv", rows: []domain.Row{
		row("iPhone 15", "Great battery life", "5", "2024-01-02"),
		row("Generic Gadget", "The hotel was amazing and the stay was great", "4.5", "2024-02-03"),
	}}

	sum, err := newService(store, nil).Ingest(context.Background(), []domain.Source{src})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if sum.TotalProcessed != 2 || sum.DuplicatesSkipped != 0 || sum.TotalAdded() != 2 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if len(store.records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(store.records))
	}
	first, second := store.records[0], store.records[1]
	if first.Category != "electronics" || second.Category != "travel" {
		t.Fatalf("categories: %q, %q", first.Category, second.Category)
	}
	if first.Rating != 5 || second.Rating != 4.5 {
		t.Fatalf("ratings: %v, %v", first.Rating, second.Rating)
	}
	if first.Username == "" || first.ID == "" || first.ID == second.ID {
		t.Fatalf("identity not assigned: %+v %+v", first, second)
	}
	if first.Source != "Synthetic" || first.ItemName != "iPhone 15" || first.Date != "2024-01-02" {
		t.Fatalf("fields not carried through: %+v", first)
	}
	if got := sum.Categories(); !slices.Equal(got, []string{"electronics", "travel"}) {
		t.Fatalf("categories not sorted: %v", got)
	}
}

func TestIngest_DuplicateAcrossSources(t *testing.T) {
	store := &fakeStore{}
	a := fakeSource{name: "a.csv", rows: []domain.Row{row("Book", "Five stars!", "5", "2024-03-01")}}
	b := fakeSource{name: "b.csv", rows: []domain.Row{row("Other", "Five stars!", "4", "2024-03-01")}}

	sum, err := newService(store, nil).Ingest(context.Background(), []domain.Source{a, b})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if len(store.records) != 1 || sum.DuplicatesSkipped != 1 || sum.TotalProcessed != 2 {
		t.Fatalf("expected one record and one duplicate, got %d records, %+v", len(store.records), sum)
	}
}

func TestIngest_DedupKeyTrimsTextOnly(t *testing.T) {
	store := &fakeStore{}
	src := fakeSource{name: "a.csv", rows: []domain.Row{
		row("", "Loved it", "5", "2024-01-01"),
		row("", "  Loved it\n", "5", "2024-01-01"), // same key after trim
		row("", "Loved it", "5", "2024-01-02"),     // different date
		row("", "Loved it", "5", " 2024-01-01"),    // date is not trimmed
	}}

	sum, err := newService(store, nil).Ingest(context.Background(), []domain.Source{src})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if sum.DuplicatesSkipped != 1 || len(store.records) != 3 {
		t.Fatalf("unexpected dedup result: %+v, %d records", sum, len(store.records))
	}
}

func TestIngest_SkipsKeysAlreadyStored(t *testing.T) {
	store := &fakeStore{records: []domain.Review{{ReviewText: " Old review ", Date: "2023-12-31", Category: "others"}}}
	src := fakeSource{name: "a.csv", rows: []domain.Row{row("", "Old review", "3", "2023-12-31")}}

	sum, err := newService(store, nil).Ingest(context.Background(), []domain.Source{src})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if sum.DuplicatesSkipped != 1 || len(store.records) != 1 {
		t.Fatalf("stored key not honoured: %+v", sum)
	}
	if store.reads != 1 {
		t.Fatalf("store should be read once, got %d", store.reads)
	}
}

func TestIngest_Idempotent(t *testing.T) {
	store := &fakeStore{}
	src := fakeSource{name: "a.csv", rows: []domain.Row{
		row("Sony Camera", "Superb", "5", "2024-01-01"),
		row("Pizza Hut", "Tasty", "4", "2024-01-02"),
		row("", "", "3", ""),
	}}
	svc := newService(store, nil)

	if _, err := svc.Ingest(context.Background(), []domain.Source{src}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := svc.Ingest(context.Background(), []domain.Source{src})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.TotalAdded() != 0 || second.DuplicatesSkipped != second.TotalProcessed || second.TotalProcessed != 3 {
		t.Fatalf("second run not idempotent: %+v", second)
	}
	if len(store.records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(store.records))
	}
}

func TestIngest_DuplicatesDrawNoIdentity(t *testing.T) {
	store := &fakeStore{}
	src := fakeSource{name: "a.csv", rows: []domain.Row{
		row("", "one", "1", "d"),
		row("", "one", "1", "d"),
		row("", "two", "2", "d"),
	}}
	if _, err := newService(store, nil).Ingest(context.Background(), []domain.Source{src}); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	ref := identity.NewSeeded(1)
	want := []string{ref.Generate(), ref.Generate()}
	got := []string{store.records[0].Username, store.records[1].Username}
	if !slices.Equal(got, want) {
		t.Fatalf("usernames %v, want %v", got, want)
	}
}

func TestIngest_Defaults(t *testing.T) {
	store := &fakeStore{}
	src := fakeSource{name: "a.csv", rows: []domain.Row{{"review_text": "just text"}}}

	if _, err := newService(store, nil).Ingest(context.Background(), []domain.Source{src}); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	r := store.records[0]
	if r.Rating != 0 || r.Source != domain.DefaultSource || r.Date != "" || r.ItemName != "" || r.Category != domain.FallbackCategory {
		t.Fatalf("defaults not applied: %+v", r)
	}
}

func TestIngest_MalformedRatingAborts(t *testing.T) {
	store := &fakeStore{}
	a := fakeSource{name: "a.csv", rows: []domain.Row{
		row("", "fine", "4", "2024-01-01"),
		row("", "broken", "abc", "2024-01-02"),
		row("", "never reached", "5", "2024-01-03"),
	}}
	b := fakeSource{name: "b.csv", rows: []domain.Row{row("", "also never", "5", "2024-01-04")}}

	sum, err := newService(store, nil).Ingest(context.Background(), []domain.Source{a, b})
	if !errors.Is(err, domain.ErrMalformedRating) {
		t.Fatalf("expected ErrMalformedRating, got %v", err)
	}
	if len(store.records) != 1 || store.records[0].ReviewText != "fine" {
		t.Fatalf("only rows before the bad one may persist, got %+v", store.records)
	}
	if sum.TotalProcessed != 2 {
		t.Fatalf("processed %d", sum.TotalProcessed)
	}
}

func TestIngest_EmptyRatingIsMalformed(t *testing.T) {
	src := fakeSource{name: "a.csv", rows: []domain.Row{row("", "x", "", "d")}}
	_, err := newService(&fakeStore{}, nil).Ingest(context.Background(), []domain.Source{src})
	if !errors.Is(err, domain.ErrMalformedRating) {
		t.Fatalf("expected ErrMalformedRating, got %v", err)
	}
}

func TestIngest_NonFiniteRatingIsMalformed(t *testing.T) {
	for _, rating := range []string{"nan", "NaN", "inf", "+Inf", "-infinity", "1e400", "0x1p-2", "-0X1p0", "1__0", "_5"} {
		store := &fakeStore{}
		src := fakeSource{name: "a.csv", rows: []domain.Row{row("Kindle", "great read", rating, "2024-01-01")}}
		_, err := newService(store, nil).Ingest(context.Background(), []domain.Source{src})
		if !errors.Is(err, domain.ErrMalformedRating) {
			t.Fatalf("rating %q: expected ErrMalformedRating, got %v", rating, err)
		}
		if errors.Is(err, domain.ErrStoreUnavailable) {
			t.Fatalf("rating %q: must not be reported as a store failure: %v", rating, err)
		}
		if len(store.records) != 0 {
			t.Fatalf("rating %q: nothing may persist, got %+v", rating, store.records)
		}
	}
}

func TestIngest_RatingCoercion(t *testing.T) {
	store := &fakeStore{}
	src := fakeSource{name: "a.csv", rows: []domain.Row{
		row("", "a", " 4.5 ", "d1"),
		row("", "b", "1_000", "d2"),
		row("", "c", "-2", "d3"),
		row("", "d", "3e0", "d4"),
	}}
	if _, err := newService(store, nil).Ingest(context.Background(), []domain.Source{src}); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	want := []float64{4.5, 1000, -2, 3}
	if len(store.records) != len(want) {
		t.Fatalf("want %d records, got %d", len(want), len(store.records))
	}
	for i, r := range store.records {
		if r.Rating != want[i] {
			t.Fatalf("row %d: rating %v, want %v", i, r.Rating, want[i])
		}
	}
}

func TestIngest_NoSources(t *testing.T) {
	store := &fakeStore{}
	_, err := newService(store, nil).Ingest(context.Background(), nil)
	if !errors.Is(err, domain.ErrNoSources) {
		t.Fatalf("expected ErrNoSources, got %v", err)
	}
	if store.reads != 0 {
		t.Fatalf("store must not be touched without sources")
	}
}

func TestIngest_StoreFailures(t *testing.T) {
	src := fakeSource{name: "a.csv", rows: []domain.Row{row("", "x", "1", "d")}}

	_, err := newService(&fakeStore{readErr: errors.New("disk gone")}, nil).Ingest(context.Background(), []domain.Source{src})
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("read: expected ErrStoreUnavailable, got %v", err)
	}

	_, err = newService(&fakeStore{appendErr: errors.New("read-only")}, nil).Ingest(context.Background(), []domain.Source{src})
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("append: expected ErrStoreUnavailable, got %v", err)
	}
}

func TestIngest_SourceError(t *testing.T) {
	src := fakeSource{name: "a.csv", err: errors.New("bad quote")}
	if _, err := newService(&fakeStore{}, nil).Ingest(context.Background(), []domain.Source{src}); err == nil {
		t.Fatal("expected source error")
	}
}

func TestIngest_InvalidatesCache(t *testing.T) {
	cache := &fakeCache{}
	svc := newService(&fakeStore{}, cache)
	src := fakeSource{name: "a.csv", rows: []domain.Row{row("", "x", "1", "d")}}

	if _, err := svc.Ingest(context.Background(), []domain.Source{src}); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if !slices.Contains(cache.deleted, "reviews:counts") || !slices.Contains(cache.deleted, "reviews::50:0") {
		t.Fatalf("expected counts and list keys evicted, got %v", cache.deleted)
	}

	cache.deleted = nil
	if _, err := svc.Ingest(context.Background(), []domain.Source{src}); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if len(cache.deleted) != 0 {
		t.Fatalf("nothing added, nothing should be evicted: %v", cache.deleted)
	}
}
