// Package report renders ingestion summaries and corpus statistics for terminals.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"reviewwise/internal/app"
)

var titler = cases.Title(language.Und)

// Label formats a category label for display ("electronics" -> "Electronics").
func Label(category string) string { return titler.String(category) }

func newTable(headers ...any) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row(headers))
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw
}

// Summary renders the totals of one ingestion run followed by the per-category
// additions in sorted label order.
func Summary(s app.Summary) string {
	tw := newTable("Category", "Added")
	for _, c := range s.Categories() {
		tw.AppendRow(table.Row{Label(c), strconv.Itoa(s.Added[c])})
	}
	tw.AppendFooter(table.Row{"Total", strconv.Itoa(s.TotalAdded())})

	return fmt.Sprintf("Upload summary:\nTotal reviews processed: %d\nDuplicates skipped: %d\nUnique reviews added:\n%s\n",
		s.TotalProcessed, s.DuplicatesSkipped, tw.Render())
}

// Counts renders a category -> record count table. Labels listed in order
// come first; any other categories follow alphabetically.
func Counts(counts map[string]int, order []string) string {
	tw := newTable("Category", "Reviews")
	seen := map[string]bool{}
	total := 0
	for _, c := range order {
		seen[c] = true
		total += counts[c]
		tw.AppendRow(table.Row{Label(c), strconv.Itoa(counts[c])})
	}
	var rest []string
	for c := range counts {
		if !seen[c] {
			rest = append(rest, c)
		}
	}
	sort.Strings(rest)
	for _, c := range rest {
		total += counts[c]
		tw.AppendRow(table.Row{Label(c), strconv.Itoa(counts[c])})
	}
	tw.AppendFooter(table.Row{"Total", strconv.Itoa(total)})
	return tw.Render() + "\n"
}

func Write(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}
