package domain

import "strings"

const (
	FallbackCategory = "others"
	DefaultSource    = "N/A"
	DefaultRating    = "0"
)

// Review is one persisted corpus record. JSON names match the reviews.json
// files written by earlier versions of the uploader.
type Review struct {
	ID         string  `json:"id,omitempty"`
	Username   string  `json:"username"`
	Rating     float64 `json:"rating"`
	ReviewText string  `json:"review_text"`
	Date       string  `json:"date"`
	Source     string  `json:"source"`
	Category   string  `json:"category"`
	ItemName   string  `json:"item_name"`
}

// DedupKey identifies a review for deduplication: trimmed text plus the raw date.
type DedupKey struct {
	Text string
	Date string
}

func KeyOf(text, date string) DedupKey {
	return DedupKey{Text: strings.TrimSpace(text), Date: date}
}

func (r Review) Key() DedupKey { return KeyOf(r.ReviewText, r.Date) }

// Row is a single CSV line keyed by header name.
type Row map[string]string

// Get returns the value of col, or def when the column is absent from the row.
// A present but empty cell is returned as "".
func (r Row) Get(col, def string) string {
	if v, ok := r[col]; ok {
		return v
	}
	return def
}
