package export

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/orderdesk/pdf-order-extractor/internal/order"
)

// WriteRun serializes a run into outDir in the requested format and
// returns the written file paths. CSV output produces a summary file and
// a line items file; XLSX produces a single workbook.
func WriteRun(run *order.ExtractionRun, srcPath, outDir, format string) ([]string, error) {
	base := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))

	switch format {
	case "xlsx":
		out := filepath.Join(outDir, base+"_order_report.xlsx")
		if err := WriteWorkbook(run, out); err != nil {
			return nil, err
		}
		return []string{out}, nil
	case "csv":
		summary, items := FlatTables(run)
		summaryPath := filepath.Join(outDir, base+"_order_summary.csv")
		itemsPath := filepath.Join(outDir, base+"_line_items.csv")
		if err := WriteCSV(summary, summaryPath); err != nil {
			return nil, err
		}
		if err := WriteCSV(items, itemsPath); err != nil {
			return nil, err
		}
		return []string{summaryPath, itemsPath}, nil
	default:
		return nil, eris.Errorf("export: unsupported format %q", format)
	}
}
