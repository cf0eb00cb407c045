// Package merging combines CSV files that share a column set into one file.
// It is independent of the invoice parsing core; the two tools share only the
// tabular output convention.
package merging

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"
)

// SchemaMismatchError reports an input file whose column set differs from the
// first file's
type SchemaMismatchError struct {
	File  string
	Found []string
	Want  []string
}

func (e SchemaMismatchError) Error() string {
	return fmt.Sprintf("columns of %q differ from the first file: found %v, expected %v",
		e.File, e.Found, e.Want)
}

// MissingColumnError reports a sort column absent from the merged header
type MissingColumnError struct {
	Column string
	Header []string
}

func (e MissingColumnError) Error() string {
	return fmt.Sprintf("column %q does not exist in the data: %v", e.Column, e.Header)
}

// Options configures the merge behavior
type Options struct {
	Dedupe bool   // drop exact duplicate rows, preserving first-seen order
	SortBy string // stable string sort on this column, empty = no sort
}

// Table is a merged CSV: one header plus rows projected onto it
type Table struct {
	Header []string
	Rows   [][]string
}

// Merge reads every file in folder matching pattern (sorted by path), verifies
// all files share the same column set, and combines their rows. Column order
// follows the first non-empty file; rows from later files are re-projected
// onto that order. Empty or headerless files are skipped. Any failure returns
// before output exists, so a failed merge never produces a partial file.
func Merge(folder, pattern string, opts Options) (*Table, error) {
	info, err := os.Stat(folder)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("folder not found: %s", folder)
	}

	paths, err := filepath.Glob(filepath.Join(folder, pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files matching %q in %s", pattern, folder)
	}
	sort.Strings(paths)

	table := &Table{}
	for _, p := range paths {
		header, rows, err := readCSV(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		if len(header) == 0 {
			continue
		}

		if table.Header == nil {
			table.Header = header
		} else if !sameColumnSet(header, table.Header) {
			return nil, SchemaMismatchError{File: filepath.Base(p), Found: header, Want: table.Header}
		}

		index := make(map[string]int, len(header))
		for i, col := range header {
			index[col] = i
		}
		for _, row := range rows {
			out := make([]string, len(table.Header))
			for i, col := range table.Header {
				if j, ok := index[col]; ok && j < len(row) {
					out[i] = row[j]
				}
			}
			table.Rows = append(table.Rows, out)
		}
	}

	if table.Header == nil {
		return nil, fmt.Errorf("no usable csv files in %s", folder)
	}

	if opts.Dedupe {
		table.dedupe()
	}
	if opts.SortBy != "" {
		if err := table.sortBy(opts.SortBy); err != nil {
			return nil, err
		}
	}

	return table, nil
}

// WriteFile writes the merged table as CSV, creating parent directories
func WriteFile(path string, t *Table) error {
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

	w := csv.NewWriter(f)
	if err := w.Write(t.Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("writing rows: %w", err)
	}

	return nil
}

func (t *Table) dedupe() {
	seen := make(map[string]struct{}, len(t.Rows))
	unique := t.Rows[:0]
	for _, row := range t.Rows {
		key := strings.Join(row, "\x1f")
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, row)
	}
	t.Rows = unique
}

func (t *Table) sortBy(column string) error {
	idx := -1
	for i, col := range t.Header {
		if col == column {
			idx = i
			break
		}
	}
	if idx == -1 {
		return MissingColumnError{Column: column, Header: t.Header}
	}

	sort.SliceStable(t.Rows, func(i, j int) bool {
		return t.Rows[i][idx] < t.Rows[j][idx]
	})
	return nil
}

// readCSV reads one file as header + rows, trying UTF-8 first and falling
// back to Latin-1 for older spreadsheet exports. A zero-byte file yields an
// empty header.
func readCSV(path string) ([]string, [][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	text := string(data)
	if !utf8.ValidString(text) {
		text = decodeLatin1(data)
	}

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	return header, rows, nil
}

func decodeLatin1(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		b.WriteRune(rune(c))
	}
	return b.String()
}

func sameColumnSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, col := range a {
		set[col] = struct{}{}
	}
	for _, col := range b {
		if _, ok := set[col]; !ok {
			return false
		}
	}
	return true
}
