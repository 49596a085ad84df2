package extract

import (
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// PageSelector describes which pages of a document to extract from.
// Exactly one of the three forms is active: all pages, an inclusive
// range, or an explicit list.
type PageSelector struct {
	All   bool
	Start int
	End   int
	Pages []int
}

// AllPages selects every page of the document.
func AllPages() PageSelector {
	return PageSelector{All: true}
}

// PageRange selects the inclusive page range [start, end].
func PageRange(start, end int) PageSelector {
	return PageSelector{Start: start, End: end}
}

// PageList selects an explicit list of page numbers.
func PageList(pages ...int) PageSelector {
	return PageSelector{Pages: pages}
}

// ParsePageSelector parses a selector string: "all" (or empty), a range
// like "2-5", or a comma-separated list like "1,3,7".
func ParsePageSelector(s string) (PageSelector, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "all" {
		return AllPages(), nil
	}

	if strings.Contains(s, "-") && !strings.Contains(s, ",") {
		parts := strings.SplitN(s, "-", 2)
		start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return PageSelector{}, eris.Errorf("pages: invalid range start %q", parts[0])
		}
		end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return PageSelector{}, eris.Errorf("pages: invalid range end %q", parts[1])
		}
		if start < 1 || end < start {
			return PageSelector{}, eris.Errorf("pages: invalid range %d-%d", start, end)
		}
		return PageRange(start, end), nil
	}

	var pages []int
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil || n < 1 {
			return PageSelector{}, eris.Errorf("pages: invalid page number %q", tok)
		}
		pages = append(pages, n)
	}
	if len(pages) == 0 {
		return PageSelector{}, eris.Errorf("pages: no pages in selector %q", s)
	}
	sort.Ints(pages)
	return PageList(pages...), nil
}

// Resolve returns the selected page numbers that exist in a document
// with totalPages pages, in ascending order. An empty result means the
// selector matched nothing.
func (ps PageSelector) Resolve(totalPages int) []int {
	if totalPages <= 0 {
		return nil
	}

	var out []int
	switch {
	case ps.All:
		for p := 1; p <= totalPages; p++ {
			out = append(out, p)
		}
	case len(ps.Pages) > 0:
		seen := make(map[int]bool, len(ps.Pages))
		for _, p := range ps.Pages {
			if p >= 1 && p <= totalPages && !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
		sort.Ints(out)
	default:
		for p := ps.Start; p <= ps.End && p <= totalPages; p++ {
			if p >= 1 {
				out = append(out, p)
			}
		}
	}
	return out
}

// String renders the selector in the same form ParsePageSelector accepts.
func (ps PageSelector) String() string {
	switch {
	case ps.All:
		return "all"
	case len(ps.Pages) > 0:
		parts := make([]string, len(ps.Pages))
		for i, p := range ps.Pages {
			parts[i] = strconv.Itoa(p)
		}
		return strings.Join(parts, ",")
	default:
		return strconv.Itoa(ps.Start) + "-" + strconv.Itoa(ps.End)
	}
}
