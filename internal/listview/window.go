package listview

import (
	"sort"
	"strconv"
)

// Marker is one entry of a page-number strip.
type Marker struct {
	Page     int
	Ellipsis bool
}

func (m Marker) String() string {
	if m.Ellipsis {
		return "…"
	}
	return strconv.Itoa(m.Page)
}

// Window lays out the page numbers to show for current out of total: the
// first and last page, the neighbours of current, and a single ellipsis for
// every gap wider than one page. A gap of exactly one page shows that page.
func Window(current, total int) []Marker {
	if total < 1 {
		total = 1
	}
	current = clampInt(current, 1, total)

	seen := make(map[int]bool, 5)
	var pages []int
	for _, p := range []int{1, current - 1, current, current + 1, total} {
		if p < 1 || p > total || seen[p] {
			continue
		}
		seen[p] = true
		pages = append(pages, p)
	}
	sort.Ints(pages)

	out := make([]Marker, 0, len(pages)+2)
	prev := 0
	for _, p := range pages {
		if prev > 0 {
			switch gap := p - prev; {
			case gap == 2:
				out = append(out, Marker{Page: prev + 1})
			case gap > 2:
				out = append(out, Marker{Ellipsis: true})
			}
		}
		out = append(out, Marker{Page: p})
		prev = p
	}
	return out
}
