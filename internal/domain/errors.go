package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrNoSources        = errors.New("no CSV sources found")
	ErrMalformedRating  = errors.New("malformed rating")
	ErrStoreUnavailable = errors.New("review store unavailable")
	ErrInvalidTaxonomy  = errors.New("invalid taxonomy")
)
