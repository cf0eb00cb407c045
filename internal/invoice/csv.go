package invoice

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

func init() {
	// Keep Unix line endings regardless of platform
	gocsv.SetCSVWriter(func(out io.Writer) *gocsv.SafeCSVWriter {
		w := csv.NewWriter(out)
		w.UseCRLF = false
		return gocsv.NewSafeCSVWriter(w)
	})
}

// WriteCSV writes records to w with the fixed column header
// (name, type, price-kg, QTE x P.U, amount, date). An empty record
// slice still produces the header row.
func WriteCSV(w io.Writer, records []Record) error {
	if err := gocsv.Marshal(&records, w); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

// WriteCSVFile writes records to a CSV file, creating parent directories
func WriteCSVFile(path string, records []Record) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	return WriteCSV(f, records)
}
