package order

import (
	"time"

	"github.com/orderdesk/pdf-order-extractor/internal/extract"
)

// CanonicalColumn is the fixed semantic role a raw table column maps
// onto. All downstream code addresses fields by tag, never by position.
type CanonicalColumn string

const (
	ColProductName CanonicalColumn = "PRODUCT_NAME"
	ColSKU         CanonicalColumn = "SKU"
	ColQuantity    CanonicalColumn = "QUANTITY"
	ColUnitPrice   CanonicalColumn = "UNIT_PRICE"
	ColLineTotal   CanonicalColumn = "LINE_TOTAL"
	ColUnknown     CanonicalColumn = "UNKNOWN"
)

// KnownColumns lists every canonical tag except UNKNOWN, in the fixed
// export order.
var KnownColumns = []CanonicalColumn{
	ColProductName, ColSKU, ColQuantity, ColUnitPrice, ColLineTotal,
}

// RawTable is one table matrix as returned by the extraction primitive,
// with provenance. Never mutated after creation.
type RawTable struct {
	Rows       [][]string `json:"rows"`
	Page       int        `json:"page"`
	TableIndex int        `json:"table_index"`
	Mode       string     `json:"mode"`
}

// NewRawTable converts a primitive table matrix into a RawTable.
func NewRawTable(m extract.TableMatrix) RawTable {
	return RawTable{
		Rows:       m.Rows,
		Page:       m.Page,
		TableIndex: m.Index,
		Mode:       string(m.Mode),
	}
}

// NormalizedRow is one data row reindexed to canonical columns.
// Unresolved columns and overflow cells are kept under Unknown rather
// than dropped.
type NormalizedRow struct {
	Fields  map[CanonicalColumn]string `json:"fields"`
	Unknown []string                   `json:"unknown,omitempty"`
}

// NormalizedTable is the header normalizer's output for one RawTable.
type NormalizedTable struct {
	Page        int               `json:"page"`
	TableIndex  int               `json:"table_index"`
	Mode        string            `json:"mode"`
	HeaderFound bool              `json:"header_found"`
	Mapping     []CanonicalColumn `json:"mapping"`
	Rows        []NormalizedRow   `json:"rows"`
}

// LineItem is one row of the aggregated order table. Nil numeric fields
// mean "unknown", which is distinct from zero.
type LineItem struct {
	ProductName  string   `json:"product_name"`
	SKU          string   `json:"sku,omitempty"`
	Quantity     *float64 `json:"quantity"`
	UnitPrice    *float64 `json:"unit_price"`
	LineTotal    *float64 `json:"line_total"`
	Page         int      `json:"page"`
	TableIndex   int      `json:"table_index"`
	Inconsistent bool     `json:"inconsistent,omitempty"`
}

// OrderSummary aggregates one document's order header fields and line
// item statistics. Built once after aggregation, immutable thereafter.
type OrderSummary struct {
	CustomerName  *string    `json:"customer_name"`
	OrderDate     *time.Time `json:"order_date"`
	TotalProducts int        `json:"total_products"`
	TotalQuantity float64    `json:"total_quantity"`
}

// ExtractionRun owns the results of processing one document. It lives
// only for the duration of one request.
type ExtractionRun struct {
	Summary      OrderSummary `json:"summary"`
	LineItems    []LineItem   `json:"line_items"`
	RawTables    []RawTable   `json:"raw_tables"`
	Mode         string       `json:"mode"`
	FallbackUsed bool         `json:"fallback_used"`
	Warnings     []string     `json:"warnings,omitempty"`
}

// ProcessRequest describes one document processing run.
type ProcessRequest struct {
	Path  string
	Pages extract.PageSelector
	Mode  extract.Mode
}

// Float returns a pointer to v, for optional numeric fields.
func Float(v float64) *float64 {
	return &v
}

// String returns a pointer to s, for optional string fields.
func String(s string) *string {
	return &s
}
