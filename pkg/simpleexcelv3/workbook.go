// Package simpleexcelv3 renders a precomputed workbook layout with excelize.
//
// Columns are not discovered by reflection: callers hand over sheets whose
// cells are already laid out, and formulas are carried as a distinct cell kind
// so they reach the file untouched.
package simpleexcelv3

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	// ContentType is the MIME type of the generated files.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	// FileExtension of the generated files.
	FileExtension = ".xlsx"
	// MaxSheetNameLength is the longest sheet name spreadsheet software accepts.
	MaxSheetNameLength = 31
	// MaxColumnWidth is the widest column excelize writes; wider ones are clamped.
	MaxColumnWidth = excelize.MaxColumnWidth
)

// Cell is either a literal value or a formula evaluated by the spreadsheet
// application when the file is opened.
type Cell struct {
	Value   interface{}
	Formula string
}

// Value wraps a literal. A nil value leaves the cell empty.
func Value(v interface{}) Cell {
	return Cell{Value: v}
}

// Formula wraps a formula expression, written without the leading "=".
func Formula(expr string) Cell {
	return Cell{Formula: expr}
}

// IsFormula reports whether the cell carries a formula.
func (c Cell) IsFormula() bool {
	return c.Formula != ""
}

// Column is one header cell plus its width.
type Column struct {
	Header string
	Width  float64
	// Locked overrides the sheet default on protected sheets.
	Locked *bool
}

// IsLocked returns whether data cells of this column are locked on a
// protected sheet. Columns are locked unless explicitly unlocked.
func (c Column) IsLocked() bool {
	if c.Locked != nil {
		return *c.Locked
	}
	return true
}

// Sheet is a header row followed by body rows.
type Sheet struct {
	Name string
	// Position decides the order of sheets in the file, lowest first.
	Position     int
	Columns      []Column
	Rows         [][]Cell
	FreezeHeader bool
	AutoFilter   bool
	// Protected locks every column except those marked unlocked.
	Protected bool
}

// Workbook is the full layout handed to the writer.
type Workbook struct {
	Sheets      []*Sheet
	HeaderStyle *StyleTemplate
}

// Sheet returns the sheet with the given name, or nil.
func (w *Workbook) Sheet(name string) *Sheet {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Ordered returns the sheets sorted by Position. Equal positions keep their
// relative order.
func (w *Workbook) Ordered() []*Sheet {
	ordered := make([]*Sheet, len(w.Sheets))
	copy(ordered, w.Sheets)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})
	return ordered
}

// BuildExcel renders the workbook. The caller owns the returned file.
func (w *Workbook) BuildExcel() (*excelize.File, error) {
	ordered := w.Ordered()
	if len(ordered) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	seen := make(map[string]bool, len(ordered))
	for _, s := range ordered {
		key := strings.ToLower(s.Name)
		if seen[key] {
			return nil, fmt.Errorf("duplicate sheet name %q", s.Name)
		}
		seen[key] = true
	}

	f := excelize.NewFile()
	for i, s := range ordered {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Name); err != nil {
				f.Close()
				return nil, fmt.Errorf("rename sheet %q: %w", s.Name, err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			f.Close()
			return nil, fmt.Errorf("create sheet %q: %w", s.Name, err)
		}

		if err := w.renderSheet(f, s); err != nil {
			f.Close()
			return nil, fmt.Errorf("render sheet %q: %w", s.Name, err)
		}
	}

	if idx, err := f.GetSheetIndex(ordered[0].Name); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}
	return f, nil
}

// ToBytes renders the workbook into memory.
func (w *Workbook) ToBytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := w.ToWriter(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToWriter renders the workbook directly to wr.
func (w *Workbook) ToWriter(wr io.Writer) error {
	f, err := w.BuildExcel()
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(wr)
}

func (w *Workbook) renderSheet(f *excelize.File, s *Sheet) error {
	sheet := s.Name

	var headerLock *bool
	if s.Protected {
		locked := true
		headerLock = &locked
	}
	headerStyleID, err := createStyle(f, resolveStyle(w.HeaderStyle, DefaultHeaderStyle(), headerLock))
	if err != nil {
		return err
	}

	for i, col := range s.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, col.Header); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyleID); err != nil {
			return err
		}
		if col.Width > 0 {
			name, _ := excelize.ColumnNumberToName(i + 1)
			if err := f.SetColWidth(sheet, name, name, math.Min(col.Width, MaxColumnWidth)); err != nil {
				return err
			}
		}
	}

	for r, row := range s.Rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			switch {
			case v.IsFormula():
				err = f.SetCellFormula(sheet, cell, v.Formula)
			case v.Value != nil:
				err = f.SetCellValue(sheet, cell, v.Value)
			default:
				continue
			}
			if err != nil {
				return fmt.Errorf("cell %s: %w", cell, err)
			}
		}
	}

	lastRow := len(s.Rows) + 1
	if s.Protected && len(s.Columns) > 0 {
		if err := protect(f, s, lastRow); err != nil {
			return err
		}
	}

	if s.FreezeHeader {
		if err := f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return err
		}
	}

	if s.AutoFilter && len(s.Columns) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(s.Columns), lastRow)
		if err := f.AutoFilter(sheet, "A1:"+last, nil); err != nil {
			return err
		}
	}
	return nil
}

// protect styles each data column as locked or unlocked and turns on sheet
// protection, so only unlocked columns stay editable.
func protect(f *excelize.File, s *Sheet, lastRow int) error {
	if lastRow >= 2 {
		for i, col := range s.Columns {
			locked := col.IsLocked()
			styleID, err := createStyle(f, resolveStyle(nil, nil, &locked))
			if err != nil {
				return err
			}
			top, _ := excelize.CoordinatesToCellName(i+1, 2)
			bottom, _ := excelize.CoordinatesToCellName(i+1, lastRow)
			if err := f.SetCellStyle(s.Name, top, bottom, styleID); err != nil {
				return err
			}
		}
	}

	return f.ProtectSheet(s.Name, &excelize.SheetProtectionOptions{
		FormatColumns:       true,
		FormatRows:          true,
		AutoFilter:          true,
		Sort:                true,
		SelectLockedCells:   true,
		SelectUnlockedCells: true,
	})
}
