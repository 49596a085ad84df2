package order

import (
	"strings"
	"unicode"

	"github.com/agext/levenshtein"
)

const (
	// headerScanLimit bounds how far forward we look for a header row
	// when row 0 is entirely numeric.
	headerScanLimit = 3
	// fuzzyThreshold is the minimum normalized similarity for a fuzzy
	// synonym match.
	fuzzyThreshold = 0.8
	// alphaTokenRatio is the share of alphabetic tokens a row needs to
	// qualify as a header.
	alphaTokenRatio = 0.5
)

// HeaderNormalizer maps raw table headers onto the canonical column
// schema and reindexes the table's rows accordingly.
type HeaderNormalizer struct {
	groups []synonymGroup
	exact  map[string]CanonicalColumn
}

// NewHeaderNormalizer creates a normalizer with the default synonym
// dictionary.
func NewHeaderNormalizer() *HeaderNormalizer {
	groups := defaultSynonyms()
	exact := make(map[string]CanonicalColumn)
	for _, g := range groups {
		for _, term := range g.Terms {
			if _, taken := exact[term]; !taken {
				exact[term] = g.Column
			}
		}
	}
	return &HeaderNormalizer{groups: groups, exact: exact}
}

// Normalize classifies the header row of rt and reindexes its data rows
// to canonical column positions. Columns that resolve to no known tag
// are kept under UNKNOWN; a duplicate assignment demotes the rightmost
// column to UNKNOWN.
func (h *HeaderNormalizer) Normalize(rt RawTable) NormalizedTable {
	nt := NormalizedTable{
		Page:       rt.Page,
		TableIndex: rt.TableIndex,
		Mode:       rt.Mode,
	}
	if len(rt.Rows) == 0 {
		return nt
	}

	headerIdx, found := h.findHeaderRow(rt.Rows)
	if !found {
		// No plausible header: every column is UNKNOWN.
		nt.Mapping = allUnknown(len(rt.Rows[0]))
		nt.Rows = reindexRows(rt.Rows, nt.Mapping)
		return nt
	}

	nt.HeaderFound = true
	nt.Mapping = h.mapHeader(rt.Rows[headerIdx])
	nt.Rows = reindexRows(rt.Rows[headerIdx+1:], nt.Mapping)
	return nt
}

// findHeaderRow returns the index of the header row. Row 0 is assumed
// unless it is entirely numeric, in which case the first of the next
// three rows with enough alphabetic tokens is taken instead.
func (h *HeaderNormalizer) findHeaderRow(rows [][]string) (int, bool) {
	if !isNumericRow(rows[0]) {
		return 0, true
	}
	limit := headerScanLimit
	if limit >= len(rows) {
		limit = len(rows) - 1
	}
	for i := 1; i <= limit; i++ {
		if alphabeticTokenShare(rows[i]) >= alphaTokenRatio {
			return i, true
		}
	}
	return 0, false
}

// mapHeader resolves each header cell to a canonical column, leftmost
// winning on duplicate assignment.
func (h *HeaderNormalizer) mapHeader(header []string) []CanonicalColumn {
	mapping := make([]CanonicalColumn, len(header))
	assigned := make(map[CanonicalColumn]bool)

	for i, cell := range header {
		col := h.resolve(cell)
		if col != ColUnknown && assigned[col] {
			col = ColUnknown
		}
		if col != ColUnknown {
			assigned[col] = true
		}
		mapping[i] = col
	}
	return mapping
}

// resolve maps one raw header cell to a canonical column: exact synonym
// lookup first, then a fuzzy pass over the synonym dictionary.
func (h *HeaderNormalizer) resolve(raw string) CanonicalColumn {
	key := normalizeHeaderCell(raw)
	if key == "" {
		return ColUnknown
	}
	if col, ok := h.exact[key]; ok {
		return col
	}

	best := ColUnknown
	bestScore := fuzzyThreshold
	for _, g := range h.groups {
		for _, term := range g.Terms {
			if score := levenshtein.Similarity(key, term, nil); score > bestScore {
				best = g.Column
				bestScore = score
			}
		}
	}
	return best
}

// normalizeHeaderCell case-folds a header cell and trims punctuation.
// '#' reads as "num" so "Item #" lands on the SKU synonyms instead of
// colliding with the bare product-name term.
func normalizeHeaderCell(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "#", " num ")

	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// reindexRows pads short rows with empty values and spills overflow
// cells into Unknown so nothing is silently dropped.
func reindexRows(rows [][]string, mapping []CanonicalColumn) []NormalizedRow {
	out := make([]NormalizedRow, 0, len(rows))
	for _, row := range rows {
		nr := NormalizedRow{Fields: make(map[CanonicalColumn]string)}
		for i, col := range mapping {
			val := ""
			if i < len(row) {
				val = strings.TrimSpace(row[i])
			}
			if col == ColUnknown {
				if val != "" {
					nr.Unknown = append(nr.Unknown, val)
				}
				continue
			}
			nr.Fields[col] = val
		}
		for i := len(mapping); i < len(row); i++ {
			if v := strings.TrimSpace(row[i]); v != "" {
				nr.Unknown = append(nr.Unknown, v)
			}
		}
		out = append(out, nr)
	}
	return out
}

func allUnknown(n int) []CanonicalColumn {
	mapping := make([]CanonicalColumn, n)
	for i := range mapping {
		mapping[i] = ColUnknown
	}
	return mapping
}

// isNumericRow reports whether every non-empty cell parses as a number.
func isNumericRow(row []string) bool {
	nonEmpty := 0
	for _, cell := range row {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		nonEmpty++
		if _, ok := parseNumber(cell); !ok {
			return false
		}
	}
	return nonEmpty > 0
}

// alphabeticTokenShare returns the fraction of whitespace-separated
// tokens across the row that start with a letter.
func alphabeticTokenShare(row []string) float64 {
	total, alpha := 0, 0
	for _, cell := range row {
		for _, tok := range strings.Fields(cell) {
			total++
			r := []rune(tok)[0]
			if unicode.IsLetter(r) {
				alpha++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(alpha) / float64(total)
}
