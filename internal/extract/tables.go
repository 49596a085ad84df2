package extract

import (
	"regexp"
	"strings"
)

// streamCellSplit separates columns by whitespace gaps: a tab or a run
// of two or more spaces.
var streamCellSplit = regexp.MustCompile(`\t+| {2,}`)

// latticeRule matches horizontal ruling lines in delimiter-drawn tables
// so they are not mistaken for data rows.
var latticeRule = regexp.MustCompile(`^[\s|+\-=_]+$`)

// detectTables scans page text for table-shaped line runs under the
// given mode and returns their cell matrices in document order. A table
// is a run of at least two consecutive lines that each split into two
// or more cells.
func detectTables(text string, mode Mode) [][][]string {
	var tables [][][]string
	var current [][]string

	flush := func() {
		if len(current) >= 2 {
			tables = append(tables, current)
		}
		current = nil
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if mode == ModeLattice && trimmed != "" && latticeRule.MatchString(trimmed) {
			// Ruling lines separate rows, not tables.
			continue
		}
		cells := splitCells(line, mode)
		if cells == nil {
			flush()
			continue
		}
		current = append(current, cells)
	}
	flush()

	return tables
}

// splitCells splits one line into table cells, or returns nil when the
// line is not table-shaped under the mode.
func splitCells(line string, mode Mode) []string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}

	if mode == ModeLattice {
		if !strings.Contains(trimmed, "|") {
			return nil
		}
		parts := strings.Split(trimmed, "|")
		cells := make([]string, 0, len(parts))
		for _, p := range parts {
			cells = append(cells, strings.TrimSpace(p))
		}
		// Delimiters at the edges produce empty boundary cells.
		for len(cells) > 0 && cells[0] == "" {
			cells = cells[1:]
		}
		for len(cells) > 0 && cells[len(cells)-1] == "" {
			cells = cells[:len(cells)-1]
		}
		if len(cells) < 2 {
			return nil
		}
		return cells
	}

	parts := streamCellSplit.Split(trimmed, -1)
	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			cells = append(cells, p)
		}
	}
	if len(cells) < 2 {
		return nil
	}
	return cells
}
