package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/orderdesk/pdf-order-extractor/internal/order"
)

// Workbook sheet names follow the combined-report layout.
const (
	SummarySheet   = "Order_Summary"
	LineItemsSheet = "Line_Items"
)

// WriteWorkbook writes one workbook holding the order summary and the
// line items as separate sheets.
func WriteWorkbook(run *order.ExtractionRun, path string) error {
	summary, items := FlatTables(run)

	f := xlsx.NewFile()
	if err := addSheet(f, SummarySheet, summary); err != nil {
		return err
	}
	if err := addSheet(f, LineItemsSheet, items); err != nil {
		return err
	}
	return eris.Wrap(f.Save(path), "export: save workbook")
}

func addSheet(f *xlsx.File, name string, table FlatTable) error {
	sheet, err := f.AddSheet(name)
	if err != nil {
		return eris.Wrapf(err, "export: add sheet %s", name)
	}

	header := sheet.AddRow()
	for _, col := range table.Columns {
		header.AddCell().SetString(col)
	}
	for _, row := range table.Rows {
		r := sheet.AddRow()
		for _, cell := range row {
			r.AddCell().SetString(cell)
		}
	}
	return nil
}
