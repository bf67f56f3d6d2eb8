package app

import "sort"

// Summary tallies one ingestion run.
type Summary struct {
	TotalProcessed    int
	DuplicatesSkipped int
	Added             map[string]int // category -> records added
}

// Categories returns the categories that gained records, sorted by label.
func (s Summary) Categories() []string {
	out := make([]string, 0, len(s.Added))
	for c := range s.Added {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func (s Summary) TotalAdded() int {
	n := 0
	for _, v := range s.Added {
		n += v
	}
	return n
}
