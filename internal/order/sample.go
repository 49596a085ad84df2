package order

import "time"

// SampleRun returns a small, fully populated run used for demo output
// and as a known-good fixture in tests.
func SampleRun() *ExtractionRun {
	date := time.Date(2024, time.December, 15, 0, 0, 0, 0, time.UTC)
	items := []LineItem{
		{ProductName: "Apples", SKU: "FR-001", Quantity: Float(5), UnitPrice: Float(2), LineTotal: Float(10), Page: 1, TableIndex: 0},
		{ProductName: "Bananas", SKU: "FR-002", Quantity: Float(3), UnitPrice: Float(2), LineTotal: Float(6), Page: 1, TableIndex: 0},
		{ProductName: "Bread", SKU: "BK-010", Quantity: Float(2), UnitPrice: Float(4), LineTotal: Float(8), Page: 1, TableIndex: 0},
	}
	return &ExtractionRun{
		Summary:   BuildSummary(String("John Smith"), &date, items),
		LineItems: items,
		Mode:      "stream",
	}
}
