package export

import (
	"encoding/csv"
	"os"

	"github.com/rotisserie/eris"
)

// WriteCSV serializes a flat table to path.
func WriteCSV(table FlatTable, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "export: create csv file")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(table.Columns); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for _, row := range table.Rows {
		if err := w.Write(row); err != nil {
			return eris.Wrap(err, "export: write csv row")
		}
	}
	w.Flush()

	return eris.Wrap(w.Error(), "export: flush csv")
}
