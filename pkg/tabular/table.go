// Package tabular reads uploaded CSV and XLSX files into a header + rows table.
package tabular

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for file extensions the reader cannot decode.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Table is a rectangular view of an uploaded sheet. Every row has len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Index returns the position of the named column, or -1.
func (t *Table) Index(col string) int {
	for i, c := range t.Columns {
		if c == col {
			return i
		}
	}
	return -1
}

// Cell returns the value at (row, idx), or "" when idx is out of range.
func (t *Table) Cell(row, idx int) string {
	if row < 0 || row >= len(t.Rows) || idx < 0 || idx >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][idx]
}

// Len returns the number of body rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Read decodes r according to the extension of name.
func Read(name string, r io.Reader) (*Table, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".csv":
		return ReadCSV(r)
	case ".xlsx", ".xlsm":
		return ReadXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// ReadFile opens path and decodes it with Read.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(path, f)
}

// newTable normalizes raw records: the first non-empty record is the header,
// blank records are skipped and short records are padded.
func newTable(records [][]string) *Table {
	t := &Table{}
	for _, rec := range records {
		if isBlank(rec) {
			continue
		}
		if t.Columns == nil {
			t.Columns = make([]string, len(rec))
			for i, h := range rec {
				t.Columns[i] = strings.TrimSpace(h)
			}
			continue
		}
		row := make([]string, len(t.Columns))
		copy(row, rec)
		t.Rows = append(t.Rows, row)
	}
	return t
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
