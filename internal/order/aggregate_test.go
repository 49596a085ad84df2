package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func normalizedTable(page, index int, rows ...NormalizedRow) NormalizedTable {
	return NormalizedTable{Page: page, TableIndex: index, HeaderFound: true, Rows: rows}
}

func row(fields map[CanonicalColumn]string) NormalizedRow {
	return NormalizedRow{Fields: fields}
}

func TestAggregateCoercion(t *testing.T) {
	a := NewAggregator()

	tests := []struct {
		name      string
		fields    map[CanonicalColumn]string
		wantQty   *float64
		wantPrice *float64
		wantTotal *float64
	}{
		{
			name:    "plain integer quantity",
			fields:  map[CanonicalColumn]string{ColProductName: "Widget", ColQuantity: "12"},
			wantQty: Float(12),
		},
		{
			name:    "unparseable quantity defaults to one unit",
			fields:  map[CanonicalColumn]string{ColProductName: "Widget", ColQuantity: "abc"},
			wantQty: Float(1),
		},
		{
			name:    "missing quantity defaults to one unit",
			fields:  map[CanonicalColumn]string{ColProductName: "Widget"},
			wantQty: Float(1),
		},
		{
			name:    "no product name means no quantity default",
			fields:  map[CanonicalColumn]string{ColSKU: "AB-1", ColQuantity: "abc"},
			wantQty: nil,
		},
		{
			name:      "currency symbols are stripped",
			fields:    map[CanonicalColumn]string{ColProductName: "Widget", ColUnitPrice: "$1,234.50", ColLineTotal: "€99.00"},
			wantQty:   Float(1),
			wantPrice: Float(1234.50),
			wantTotal: Float(99),
		},
		{
			name:      "parenthesized negative",
			fields:    map[CanonicalColumn]string{ColProductName: "Credit", ColLineTotal: "(5.00)"},
			wantQty:   Float(1),
			wantTotal: Float(-5),
		},
		{
			name:      "unparseable price stays nil",
			fields:    map[CanonicalColumn]string{ColProductName: "Widget", ColUnitPrice: "call for price"},
			wantQty:   Float(1),
			wantPrice: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, _ := a.Aggregate([]NormalizedTable{normalizedTable(1, 0, row(tt.fields))})
			require.Len(t, items, 1)
			assert.Equal(t, tt.wantQty, items[0].Quantity)
			assert.Equal(t, tt.wantPrice, items[0].UnitPrice)
			assert.Equal(t, tt.wantTotal, items[0].LineTotal)
		})
	}
}

func TestAggregateDropsFullyEmptyRows(t *testing.T) {
	a := NewAggregator()

	items, _ := a.Aggregate([]NormalizedTable{normalizedTable(1, 0,
		row(map[CanonicalColumn]string{ColProductName: "Widget", ColQuantity: "2"}),
		row(map[CanonicalColumn]string{}),
		NormalizedRow{Fields: map[CanonicalColumn]string{}, Unknown: []string{"stray note"}},
	)})

	// Rows with only UNKNOWN content carry no canonical data.
	require.Len(t, items, 1)
	assert.Equal(t, "Widget", items[0].ProductName)
}

func TestAggregateKeepsPartialRows(t *testing.T) {
	a := NewAggregator()

	items, _ := a.Aggregate([]NormalizedTable{normalizedTable(2, 1,
		row(map[CanonicalColumn]string{ColSKU: "AB-1"}),
	)})

	require.Len(t, items, 1)
	assert.Equal(t, "", items[0].ProductName)
	assert.Equal(t, "AB-1", items[0].SKU)
	assert.Nil(t, items[0].Quantity)
	assert.Equal(t, 2, items[0].Page)
	assert.Equal(t, 1, items[0].TableIndex)
}

func TestAggregateOrdersByPageThenTable(t *testing.T) {
	a := NewAggregator()

	items, _ := a.Aggregate([]NormalizedTable{
		normalizedTable(2, 3, row(map[CanonicalColumn]string{ColProductName: "Third"})),
		normalizedTable(1, 1, row(map[CanonicalColumn]string{ColProductName: "Second"})),
		normalizedTable(1, 0, row(map[CanonicalColumn]string{ColProductName: "First"})),
	})

	require.Len(t, items, 3)
	assert.Equal(t, "First", items[0].ProductName)
	assert.Equal(t, "Second", items[1].ProductName)
	assert.Equal(t, "Third", items[2].ProductName)
}

func TestAggregateConsistencyCheck(t *testing.T) {
	a := NewAggregator()

	items, warnings := a.Aggregate([]NormalizedTable{normalizedTable(1, 0,
		row(map[CanonicalColumn]string{ColProductName: "Good", ColQuantity: "3", ColUnitPrice: "10.00", ColLineTotal: "30.00"}),
		row(map[CanonicalColumn]string{ColProductName: "Bad", ColQuantity: "3", ColUnitPrice: "10.00", ColLineTotal: "25.00"}),
		row(map[CanonicalColumn]string{ColProductName: "Partial", ColQuantity: "3", ColLineTotal: "25.00"}),
	)})

	require.Len(t, items, 3)
	assert.False(t, items[0].Inconsistent)
	assert.True(t, items[1].Inconsistent)
	// The stated total is kept, not recomputed.
	assert.Equal(t, Float(25), items[1].LineTotal)
	// Rows missing a factor cannot be checked.
	assert.False(t, items[2].Inconsistent)

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "Bad")
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{"12", 12, true},
		{"3.50", 3.5, true},
		{"$1,234.56", 1234.56, true},
		{"£ 99", 99, true},
		{"(5.00)", -5, true},
		{"-2.5", -2.5, true},
		{"", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"$", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseNumber(tt.input)
		assert.Equal(t, tt.ok, ok, "parseNumber(%q) ok", tt.input)
		if tt.ok {
			assert.Equal(t, tt.want, got, "parseNumber(%q)", tt.input)
		}
	}
}
