package categorize

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"reviewwise/internal/domain"
)

// Category is one taxonomy entry: a label and the keywords that select it.
type Category struct {
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
}

// Taxonomy is an ordered, immutable list of categories. Order decides ties:
// the first category with a matching keyword wins.
type Taxonomy struct {
	cats []Category
}

// "gadget" must not be a product keyword: an item named "Generic Gadget" has
// to fall through to the review text ("The hotel was amazing..." is travel).
var defaultCategories = []Category{
	{Label: "product", Keywords: []string{"mamaearth", "amazon", "electronics", "cosmetics", "dettol", "savlon", "watch", "security", "solutions", "himalaya", "godrej", "lotion"}},
	{Label: "travel", Keywords: []string{"travel", "hotel", "flight", "trip", "destination", "kyoto", "santorini", "stayed", "vacation", "tour", "airline"}},
	{Label: "food", Keywords: []string{"food", "snack", "cuisine", "amul", "tata", "society", "maggi", "noodles", "ghee", "paneer", "chocolate", "cacao", "butter"}},
	{Label: "fashion", Keywords: []string{"clothing", "fashion", "shirt", "jeans", "dress", "outfit", "style", "wear", "shoes", "streax", "hair"}},
	{Label: "electronics", Keywords: []string{"laptop", "phone", "camera", "tablet", "monitor", "headphone", "earbud", "smartwatch", "iphone", "samsung", "logitech", "mouse", "keyboard", "macbook", "bose", "sony"}},
	{Label: "restaurants", Keywords: []string{"restaurant", "cafe", "bistro", "diner", "eatery", "buffet", "starbucks", "subway", "kfc", "mcdonald", "pizza hut", "domino"}},
	{Label: "books", Keywords: []string{"book", "novel", "author", "fiction", "non-fiction", "read", "ebook", "kindle", "paperback", "biography", "memoir", "thriller", "mystery"}},
}

// Default returns the built-in review taxonomy.
func Default() *Taxonomy {
	t, err := New(defaultCategories)
	if err != nil {
		panic(err)
	}
	return t
}

// New validates cats and returns a taxonomy with lower-cased keywords.
// The input slice is copied.
func New(cats []Category) (*Taxonomy, error) {
	if len(cats) == 0 {
		return nil, fmt.Errorf("%w: no categories", domain.ErrInvalidTaxonomy)
	}
	seen := make(map[string]struct{}, len(cats))
	out := make([]Category, 0, len(cats))
	for i, c := range cats {
		label := strings.TrimSpace(c.Label)
		switch {
		case label == "":
			return nil, fmt.Errorf("%w: category %d has no label", domain.ErrInvalidTaxonomy, i)
		case label == domain.FallbackCategory:
			return nil, fmt.Errorf("%w: %q is reserved for the fallback", domain.ErrInvalidTaxonomy, label)
		}
		if _, dup := seen[label]; dup {
			return nil, fmt.Errorf("%w: duplicate label %q", domain.ErrInvalidTaxonomy, label)
		}
		seen[label] = struct{}{}

		kws := make([]string, 0, len(c.Keywords))
		for _, kw := range c.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				kws = append(kws, kw)
			}
		}
		if len(kws) == 0 {
			return nil, fmt.Errorf("%w: category %q has no keywords", domain.ErrInvalidTaxonomy, label)
		}
		out = append(out, Category{Label: label, Keywords: kws})
	}
	return &Taxonomy{cats: out}, nil
}

// Labels returns category labels in match order.
func (t *Taxonomy) Labels() []string {
	out := make([]string, len(t.cats))
	for i, c := range t.cats {
		out[i] = c.Label
	}
	return out
}

// Categories returns a copy of the taxonomy entries in match order.
func (t *Taxonomy) Categories() []Category {
	out := make([]Category, len(t.cats))
	for i, c := range t.cats {
		out[i] = Category{Label: c.Label, Keywords: append([]string(nil), c.Keywords...)}
	}
	return out
}

// Has reports whether label is a taxonomy label or the fallback.
func (t *Taxonomy) Has(label string) bool {
	if label == domain.FallbackCategory {
		return true
	}
	for _, c := range t.cats {
		if c.Label == label {
			return true
		}
	}
	return false
}

// Categorize maps an item name and review text to a category label.
//
// The item name is checked first with plain substring matching; the review
// text is only consulted when no keyword occurs in the name, and there a
// keyword has to appear as a whole word (or whole phrase). When nothing
// matches the fallback category is returned.
func (t *Taxonomy) Categorize(itemName, content string) string {
	name := strings.ToLower(itemName)
	for _, c := range t.cats {
		for _, kw := range c.Keywords {
			if strings.Contains(name, kw) {
				return c.Label
			}
		}
	}

	text := strings.ToLower(content)
	for _, c := range t.cats {
		for _, kw := range c.Keywords {
			if containsWord(text, kw) {
				return c.Label
			}
		}
	}
	return domain.FallbackCategory
}

// containsWord reports whether kw occurs in s with a word boundary on both
// ends, the way \bkw\b does. Inner spaces of a phrase are part of the match.
func containsWord(s, kw string) bool {
	first, _ := utf8.DecodeRuneInString(kw)
	last, _ := utf8.DecodeLastRuneInString(kw)
	for from := 0; from <= len(s)-len(kw); {
		i := strings.Index(s[from:], kw)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(kw)

		before, after := rune(-1), rune(-1)
		if start > 0 {
			before, _ = utf8.DecodeLastRuneInString(s[:start])
		}
		if end < len(s) {
			after, _ = utf8.DecodeRuneInString(s[end:])
		}
		if isWord(before) != isWord(first) && isWord(last) != isWord(after) {
			return true
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		from = start + size
	}
	return false
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
