package app

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"reviewwise/internal/domain"
)

// Input columns consumed by the pipeline. item_id, category and quality_score
// are present in the CSV schema but ignored: the category is recomputed.
const (
	colItemName   = "item_name"
	colReviewText = "review_text"
	colRating     = "rating"
	colDate       = "date"
	colSource     = "source"
)

type candidate struct {
	itemName   string
	reviewText string
	rating     string
	date       string
	source     string
}

func mapRow(row domain.Row) candidate {
	return candidate{
		itemName:   row.Get(colItemName, ""),
		reviewText: row.Get(colReviewText, ""),
		rating:     row.Get(colRating, domain.DefaultRating),
		date:       row.Get(colDate, ""),
		source:     row.Get(colSource, domain.DefaultSource),
	}
}

var errNotFinite = errors.New("not a finite number")

// parseRating coerces a rating cell to float64. Surrounding whitespace is
// ignored and underscores between digits are accepted as separators ("1_000").
// Anything else non-numeric, an empty cell, NaN and infinities are errors.
func parseRating(v string) (float64, error) {
	s := strings.TrimSpace(v)
	if u := strings.TrimLeft(s, "+-"); len(u) > 1 && u[0] == '0' && (u[1] == 'x' || u[1] == 'X') {
		return 0, fmt.Errorf("%w %q: hex notation", domain.ErrMalformedRating, v)
	}
	f, err := strconv.ParseFloat(stripDigitSeparators(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", domain.ErrMalformedRating, v, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w %q: %w", domain.ErrMalformedRating, v, errNotFinite)
	}
	return f, nil
}

// stripDigitSeparators removes underscores that sit between two digits. When
// any underscore is misplaced s is returned unchanged and fails parsing.
func stripDigitSeparators(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}
	for i := 0; i < len(s); i++ {
		if s[i] != '_' {
			continue
		}
		if i == 0 || i == len(s)-1 || !isDigit(s[i-1]) || !isDigit(s[i+1]) {
			return s
		}
	}
	return strings.ReplaceAll(s, "_", "")
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
