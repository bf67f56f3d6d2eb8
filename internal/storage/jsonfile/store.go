// Package jsonfile keeps the review corpus as one indented JSON array on disk.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"reviewwise/internal/adapters/observability"
	"reviewwise/internal/domain"
)

const backend = "json"

type Store struct {
	path string
	mu   sync.RWMutex
}

// Open makes sure the parent directory exists and seeds an empty array when
// the file is missing.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
			return nil, fmt.Errorf("init %s: %w", path, err)
		}
	} else if err != nil {
		return nil, err
	}
	return &Store{path: path}, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) ReadAll(ctx context.Context) ([]domain.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out, err := s.load()
	observability.ObserveStore(backend, "read_all", err)
	return out, err
}

func (s *Store) Append(ctx context.Context, r domain.Review) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.append(r)
	observability.ObserveStore(backend, "append", err)
	return err
}

func (s *Store) append(r domain.Review) error {
	all, err := s.load()
	if err != nil {
		return err
	}
	all = append(all, r)
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}
	return s.writeAtomic(data)
}

func (s *Store) ListReviews(ctx context.Context, q domain.ReviewsQuery) (domain.ReviewsPage, error) {
	s.mu.RLock()
	all, err := s.load()
	s.mu.RUnlock()
	observability.ObserveStore(backend, "list", err)
	if err != nil {
		return domain.ReviewsPage{}, err
	}
	var matched []domain.Review
	skipped := 0
	for _, r := range all {
		if q.Category != "" && r.Category != q.Category {
			continue
		}
		if skipped < q.Offset {
			skipped++
			continue
		}
		matched = append(matched, r)
		if q.Limit > 0 && len(matched) > q.Limit {
			break
		}
	}
	return domain.NewPage(matched, q), nil
}

func (s *Store) CountByCategory(ctx context.Context) (map[string]int, error) {
	s.mu.RLock()
	all, err := s.load()
	s.mu.RUnlock()
	observability.ObserveStore(backend, "count", err)
	if err != nil {
		return nil, err
	}
	out := map[string]int{}
	for _, r := range all {
		out[r.Category]++
	}
	return out, nil
}

func (s *Store) Close() error { return nil }

func (s *Store) load() ([]domain.Review, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var out []domain.Review
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return out, nil
}

// writeAtomic replaces the file so readers never observe a partial array.
func (s *Store) writeAtomic(data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".reviews-*.json")
	if err != nil {
		return err
	}
	name := tmp.Name()
	defer os.Remove(name)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(name, s.path)
}
