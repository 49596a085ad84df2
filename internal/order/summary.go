package order

import "time"

// BuildSummary combines the extracted header fields with line-item
// statistics. Pure and deterministic: no side effects, no external
// calls, which makes it the natural boundary for property tests.
//
// Duplicate product names are not merged; each row is a distinct line,
// mirroring the source document's granularity.
func BuildSummary(customer *string, date *time.Time, items []LineItem) OrderSummary {
	s := OrderSummary{
		CustomerName: customer,
		OrderDate:    date,
	}
	for _, item := range items {
		if item.ProductName != "" {
			s.TotalProducts++
		}
		if item.Quantity != nil {
			s.TotalQuantity += *item.Quantity
		}
	}
	return s
}
