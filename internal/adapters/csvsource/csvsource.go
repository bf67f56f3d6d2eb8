// Package csvsource reads review rows from CSV files with a header line.
package csvsource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"reviewwise/internal/domain"
)

// Parse reads a whole CSV document. The first record is the header; each
// following record becomes a Row keyed by header name. Cells past the end of
// the header are dropped and short records simply lack the trailing columns.
// A leading UTF-8 byte order mark is removed. An empty document has no rows.
func Parse(r io.Reader) ([]domain.Row, error) {
	dec := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	cr := csv.NewReader(dec)
	cr.FieldsPerRecord = -1
	// review text often carries quotes inside unquoted cells
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var rows []domain.Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) == 1 && rec[0] == "" {
			continue
		}
		row := make(domain.Row, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// File is a CSV source backed by a file on disk.
type File struct{ Path string }

func (f File) Name() string { return f.Path }

func (f File) Rows(ctx context.Context) ([]domain.Row, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	rows, err := Parse(fh)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(f.Path), err)
	}
	return rows, nil
}

// Discover returns a source for every file in dir matching pattern
// (for example "*.csv"), sorted by path. No matches is not an error.
func Discover(dir, pattern string) ([]domain.Source, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	sort.Strings(matches)
	out := make([]domain.Source, 0, len(matches))
	for _, m := range matches {
		if st, err := os.Stat(m); err != nil || st.IsDir() {
			continue
		}
		out = append(out, File{Path: m})
	}
	return out, nil
}
