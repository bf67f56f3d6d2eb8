// Package synth produces a synthetic review CSV for seeding a corpus.
package synth

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
)

// PerCategory is the number of rows generated for each category.
const PerCategory = 20

var Header = []string{"item_id", "item_name", "category", "rating", "review_text", "quality_score", "source", "date"}

type category struct {
	name    string
	items   []string
	phrases []string
}

var categories = []category{
	{
		name:    "Travel",
		items:   []string{"Grand Hotel", "Sky Airlines", "Beach Resort", "Kyoto Tour", "Mountain Hut"},
		phrases: []string{"The hotel was amazing!", "Great flight experience.", "Loved this trip!", "Fantastic destination.", "The tour guide was great.", "Highly recommend this airline.", "Magical stay at the resort."},
	},
	{
		name:    "Electronics",
		items:   []string{"MacBook Pro", "Sony Camera", "iPhone 15", "Samsung Tablet", "Logitech Mouse", "Bose Headphones"},
		phrases: []string{"Best laptop I've owned.", "The camera quality is superb.", "Great battery life on this phone.", "Excellent monitor for work.", "Noise cancelling is top notch.", "Very responsive mouse.", "Stylish smartwatch."},
	},
	{
		name:    "Fashion",
		items:   []string{"Levis Jeans", "Nike Shoes", "Stellar Shirt", "Fashionista Dress", "Titan Watch"},
		phrases: []string{"Love this shirt!", "Best jeans ever.", "Beautiful dress for the party.", "Cool outfit.", "Great style and fit.", "Comfortable shoes.", "The watch looks premium."},
	},
	{
		name:    "Restaurants",
		items:   []string{"Starbucks", "Pizza Hut", "The Local Bistro", "Subway", "Golden Diner", "KFC"},
		phrases: []string{"The food was delicious!", "Best cafe in town.", "Great bistro atmosphere.", "Love this diner.", "Excellent buffet variety.", "Starbucks coffee is always good.", "Subway sandwiches are fresh."},
	},
	{
		name:    "Books",
		items:   []string{"Mystery Novel", "Life Memoir", "Science Fiction Book", "Business Guide", "History Book"},
		phrases: []string{"Great book, couldn't put it down.", "Amazing novel.", "The author's best work.", "Captivating fiction.", "Informative non-fiction.", "Loved reading this on my Kindle.", "Must read biography."},
	},
}

var closers = []string{"Highly recommend.", "Will buy again.", "Good value.", "Five stars!"}

type Row struct {
	ItemID       string
	ItemName     string
	Category     string
	Rating       int
	ReviewText   string
	QualityScore float64
	Source       string
	Date         string
}

func (r Row) record() []string {
	return []string{
		r.ItemID,
		r.ItemName,
		r.Category,
		strconv.Itoa(r.Rating),
		r.ReviewText,
		strconv.FormatFloat(r.QualityScore, 'f', 2, 64),
		r.Source,
		r.Date,
	}
}

type Generator struct{ rnd *rand.Rand }

func New(rnd *rand.Rand) *Generator { return &Generator{rnd: rnd} }

func pick[T any](rnd *rand.Rand, xs []T) T { return xs[rnd.IntN(len(xs))] }

// Rows returns PerCategory rows for every category, grouped by category.
func (g *Generator) Rows() []Row {
	out := make([]Row, 0, PerCategory*len(categories))
	for _, c := range categories {
		for i := 0; i < PerCategory; i++ {
			out = append(out, Row{
				ItemID:       fmt.Sprintf("S-%s-%d", c.name[:2], i),
				ItemName:     pick(g.rnd, c.items),
				Category:     strings.ToLower(c.name),
				Rating:       4 + g.rnd.IntN(2),
				ReviewText:   pick(g.rnd, c.phrases) + " " + pick(g.rnd, closers),
				QualityScore: math.Round((0.7+0.2*g.rnd.Float64())*100) / 100,
				Source:       "Synthetic",
				Date:         fmt.Sprintf("2024-0%d-0%d", 1+g.rnd.IntN(5), 1+g.rnd.IntN(9)),
			})
		}
	}
	return out
}

// WriteCSV writes the header followed by rows.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
