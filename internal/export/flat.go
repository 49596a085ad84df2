package export

import (
	"strconv"

	"github.com/orderdesk/pdf-order-extractor/internal/order"
)

// LineItemColumns is the stable column order of the line-item table.
var LineItemColumns = []string{
	"PRODUCT_NAME", "SKU", "QUANTITY", "UNIT_PRICE", "LINE_TOTAL", "PAGE", "TABLE_INDEX",
}

// SummaryColumns is the fixed field order of the single-row summary
// table.
var SummaryColumns = []string{
	"CUSTOMER_NAME", "ORDER_DATE", "TOTAL_PRODUCTS", "TOTAL_QUANTITY",
}

// FlatTable is an in-memory tabular structure handed to serializers.
// This layer performs no I/O itself.
type FlatTable struct {
	Columns []string
	Rows    [][]string
}

// FlatTables renders a run into the summary table and the line-item
// table. Nulls become empty cells, never placeholder strings, so
// spreadsheet formulas downstream stay well-behaved.
func FlatTables(run *order.ExtractionRun) (summary, items FlatTable) {
	summary = FlatTable{
		Columns: SummaryColumns,
		Rows:    [][]string{summaryRow(run.Summary)},
	}

	items = FlatTable{Columns: LineItemColumns}
	items.Rows = make([][]string, 0, len(run.LineItems))
	for _, li := range run.LineItems {
		items.Rows = append(items.Rows, []string{
			li.ProductName,
			li.SKU,
			optNumber(li.Quantity),
			optNumber(li.UnitPrice),
			optNumber(li.LineTotal),
			strconv.Itoa(li.Page),
			strconv.Itoa(li.TableIndex),
		})
	}
	return summary, items
}

func summaryRow(s order.OrderSummary) []string {
	customer := ""
	if s.CustomerName != nil {
		customer = *s.CustomerName
	}
	date := ""
	if s.OrderDate != nil {
		date = s.OrderDate.Format("2006-01-02")
	}
	return []string{
		customer,
		date,
		strconv.Itoa(s.TotalProducts),
		formatNumber(s.TotalQuantity),
	}
}

func optNumber(v *float64) string {
	if v == nil {
		return ""
	}
	return formatNumber(*v)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
