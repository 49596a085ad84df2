package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteWorkbook(testRun(), path))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	summary, ok := f.Sheet[SummarySheet]
	require.True(t, ok, "summary sheet missing")
	items, ok := f.Sheet[LineItemsSheet]
	require.True(t, ok, "line items sheet missing")

	assert.Equal(t, "CUSTOMER_NAME", summary.Rows[0].Cells[0].String())
	assert.Equal(t, "Acme Corp", summary.Rows[1].Cells[0].String())
	assert.Equal(t, "2024-01-15", summary.Rows[1].Cells[1].String())

	// Header plus two data rows.
	require.GreaterOrEqual(t, len(items.Rows), 3)
	assert.Equal(t, "Widget", items.Rows[1].Cells[0].String())
	assert.Equal(t, "Gadget", items.Rows[2].Cells[0].String())
}

func TestWriteRun(t *testing.T) {
	dir := t.TempDir()

	written, err := WriteRun(testRun(), "/docs/invoice-42.pdf", dir, "csv")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "invoice-42_order_summary.csv"),
		filepath.Join(dir, "invoice-42_line_items.csv"),
	}, written)
	for _, p := range written {
		assert.FileExists(t, p)
	}

	written, err = WriteRun(testRun(), "/docs/invoice-42.pdf", dir, "xlsx")
	require.NoError(t, err)
	require.Len(t, written, 1)
	assert.Equal(t, filepath.Join(dir, "invoice-42_order_report.xlsx"), written[0])
	assert.FileExists(t, written[0])

	_, err = WriteRun(testRun(), "x.pdf", dir, "pdf")
	assert.Error(t, err)
}
