package objdiff

import (
	"fmt"
	"slices"
	"strings"
)

// Progress counts units in one category.
type Progress struct {
	ID    string
	Name  string
	Units int
	// Sourced counts units that already have a hand-written counterpart.
	Sourced int
}

// Percent returns the share of sourced units.
func (p Progress) Percent() float64 {
	if p.Units == 0 {
		return 0
	}
	return 100 * float64(p.Sourced) / float64(p.Units)
}

// Summarize counts units per category, in the order of the document's
// category table followed by any unlisted ids.
func Summarize(c *Config) (total Progress, rows []Progress) {
	byID := make(map[string]*Progress)
	var order []string
	for _, cat := range c.ProgressCategories {
		byID[cat.ID] = &Progress{ID: cat.ID, Name: cat.Name}
		order = append(order, cat.ID)
	}

	var extra []string
	total.Name = "Total"
	for _, u := range c.Units {
		total.Units++
		sourced := u.BasePath != ""
		if sourced {
			total.Sourced++
		}
		for _, id := range u.Metadata.ProgressCategories {
			p, ok := byID[id]
			if !ok {
				p = &Progress{ID: id, Name: id}
				byID[id] = p
				extra = append(extra, id)
			}
			p.Units++
			if sourced {
				p.Sourced++
			}
		}
	}

	slices.Sort(extra)
	for _, id := range append(order, extra...) {
		rows = append(rows, *byID[id])
	}
	return total, rows
}

// Markdown renders the summary as a markdown report.
func Markdown(c *Config) string {
	total, rows := Summarize(c)

	var b strings.Builder
	b.WriteString("# Progress\n\n")
	fmt.Fprintf(&b, "%d of %d units have a hand-written source (%.1f%%).\n\n", total.Sourced, total.Units, total.Percent())
	b.WriteString("| Category | Units | Sourced | % |\n")
	b.WriteString("|---|---:|---:|---:|\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s (`%s`) | %d | %d | %.1f |\n", r.Name, r.ID, r.Units, r.Sourced, r.Percent())
	}
	return b.String()
}
