package order

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// consistencyTolerance is the absolute slack allowed between a stated
// line total and quantity × unit price before the row is flagged.
const consistencyTolerance = 0.01

// Aggregator concatenates normalized tables into one ordered line-item
// sequence, coercing numeric fields along the way.
type Aggregator struct{}

// NewAggregator creates an aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Aggregate walks the normalized tables in (page, table-index) order
// and emits LineItems. A row is dropped only when every canonical field
// is empty; partial rows survive with nils. Returned warnings describe
// rows that failed the quantity × price consistency check.
func (a *Aggregator) Aggregate(tables []NormalizedTable) ([]LineItem, []string) {
	ordered := make([]NormalizedTable, len(tables))
	copy(ordered, tables)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Page != ordered[j].Page {
			return ordered[i].Page < ordered[j].Page
		}
		return ordered[i].TableIndex < ordered[j].TableIndex
	})

	var items []LineItem
	var warnings []string

	for _, table := range ordered {
		for _, row := range table.Rows {
			item, ok := a.buildItem(row, table)
			if !ok {
				continue
			}
			if item.Inconsistent {
				warnings = append(warnings, fmt.Sprintf(
					"line item %q (page %d, table %d): stated total %s disagrees with quantity × unit price",
					item.ProductName, item.Page, item.TableIndex, formatAmount(*item.LineTotal)))
			}
			items = append(items, item)
		}
	}
	return items, warnings
}

// buildItem coerces one normalized row into a LineItem. ok is false
// when the row carries no canonical data at all.
func (a *Aggregator) buildItem(row NormalizedRow, table NormalizedTable) (LineItem, bool) {
	name := strings.TrimSpace(row.Fields[ColProductName])
	sku := strings.TrimSpace(row.Fields[ColSKU])
	qtyCell := strings.TrimSpace(row.Fields[ColQuantity])
	priceCell := strings.TrimSpace(row.Fields[ColUnitPrice])
	totalCell := strings.TrimSpace(row.Fields[ColLineTotal])

	if name == "" && sku == "" && qtyCell == "" && priceCell == "" && totalCell == "" {
		return LineItem{}, false
	}

	item := LineItem{
		ProductName: name,
		SKU:         sku,
		Page:        table.Page,
		TableIndex:  table.TableIndex,
	}

	if qty, ok := parseNumber(qtyCell); ok {
		item.Quantity = Float(qty)
	} else if name != "" {
		// Missing or unparseable quantity defaults to one unit when the
		// row names a product.
		item.Quantity = Float(1)
	}

	if price, ok := parseNumber(priceCell); ok {
		item.UnitPrice = Float(price)
	}
	if total, ok := parseNumber(totalCell); ok {
		item.LineTotal = Float(total)
	}

	item.Inconsistent = inconsistent(item)
	return item, true
}

// inconsistent checks the stated total against quantity × unit price.
// The PDF-stated value is never overwritten, only flagged.
func inconsistent(item LineItem) bool {
	if item.Quantity == nil || item.UnitPrice == nil || item.LineTotal == nil {
		return false
	}
	return math.Abs(*item.Quantity**item.UnitPrice-*item.LineTotal) > consistencyTolerance
}

// currencyStrip removes currency symbols, thousands separators and
// surrounding noise before numeric parsing.
var currencyStrip = strings.NewReplacer(
	"$", "", "€", "", "£", "", "¥", "", "₹", "",
	",", "", " ", "", " ", "",
)

// parseNumber parses a cell as a number after stripping currency
// decoration. Failure yields false, never zero: zero and "unknown" are
// distinct.
func parseNumber(cell string) (float64, bool) {
	s := currencyStrip.Replace(strings.TrimSpace(cell))
	if s == "" {
		return 0, false
	}
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}

// formatAmount renders a numeric amount for warnings and exports,
// trimming insignificant zeros.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
