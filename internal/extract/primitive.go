package extract

import "context"

// Mode selects the table-layout-detection strategy. Stream mode infers
// columns from whitespace gaps; lattice mode relies on explicit cell
// delimiters.
type Mode string

const (
	ModeStream  Mode = "stream"
	ModeLattice Mode = "lattice"
)

// Opposite returns the other detection mode, used for the single
// fallback retry when a mode finds no tables.
func (m Mode) Opposite() Mode {
	if m == ModeLattice {
		return ModeStream
	}
	return ModeLattice
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeStream || m == ModeLattice
}

// TableMatrix is one raw table as returned by the extraction primitive:
// a rows-by-columns text matrix with provenance.
type TableMatrix struct {
	Page  int
	Index int
	Mode  Mode
	Rows  [][]string
}

// PrimitiveResult holds everything one primitive invocation produced.
type PrimitiveResult struct {
	Tables    []TableMatrix
	Text      string
	PageCount int
}

// Primitive is the external PDF extraction boundary. Implementations
// return zero or more raw table matrices plus the concatenated text of
// the selected pages. Errors are opaque; the collector translates them
// into ExtractionFailure.
type Primitive interface {
	Extract(ctx context.Context, path string, pages PageSelector, mode Mode) (*PrimitiveResult, error)
}
