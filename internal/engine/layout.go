package engine

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/locvowork/stockcount/internal/domain"
	"github.com/locvowork/stockcount/pkg/simpleexcelv3"
	"github.com/shopspring/decimal"
)

const (
	SummarySheetName     = "Summary"
	AllProductsSheetName = "All Products"

	DefaultColumnPadding = 2
)

// Options toggles the optional parts of the report.
type Options struct {
	IncludeSummaryBarcode bool
	IncludeAllProducts    bool
	ColumnPadding         int
	FreezeHeader          bool
	AutoFilter            bool
	// LockReferenceColumns protects every sheet, leaving only Actual Quantity editable.
	LockReferenceColumns bool
	HeaderStyle          *simpleexcelv3.StyleTemplate
}

// Input is everything one report is built from.
type Input struct {
	Set  domain.ScheduledSet
	Rows []domain.FilteredRow
	// Catalog is the unfiltered catalog, read only for the All Products sheet.
	Catalog []domain.CatalogRow
}

// Report is the assembled layout plus the intermediate results it was built from.
type Report struct {
	FileName string
	Sheets   []domain.BrandSheet
	Summary  []domain.SummaryRow
	Workbook *simpleexcelv3.Workbook
}

var fileNameReplacer = strings.NewReplacer("/", "-", `\`, "-")

// FileName names the report after the first scheduled branch and the date.
func FileName(set domain.ScheduledSet) (string, error) {
	if len(set.Branches) == 0 {
		return "", &domain.EmptyScheduleError{Date: set.Date}
	}
	branch := strings.TrimSpace(fileNameReplacer.Replace(set.Branches[0]))
	return fmt.Sprintf("%s_%s%s", branch, set.Date, simpleexcelv3.FileExtension), nil
}

// Assemble lays out the workbook: Summary first, then one sheet per brand,
// then the optional All Products sheet.
func Assemble(in Input, opts Options) (*Report, error) {
	name, err := FileName(in.Set)
	if err != nil {
		return nil, err
	}
	if opts.ColumnPadding <= 0 {
		opts.ColumnPadding = DefaultColumnPadding
	}

	reserved := []string{SummarySheetName}
	if opts.IncludeAllProducts {
		reserved = append(reserved, AllProductsSheetName)
	}
	sheets := Partition(in.Rows, reserved...)
	summary := DedupeProducts(sheets)

	wb := &simpleexcelv3.Workbook{HeaderStyle: opts.HeaderStyle}
	for i, s := range sheets {
		wb.Sheets = append(wb.Sheets, brandSheet(s, i+1, opts))
	}
	wb.Sheets = append(wb.Sheets, summarySheet(summary, sheets, opts))
	if opts.IncludeAllProducts {
		wb.Sheets = append(wb.Sheets, allProductsSheet(DistinctProducts(in.Catalog), len(sheets)+1, opts))
	}

	return &Report{
		FileName: name,
		Sheets:   sheets,
		Summary:  summary,
		Workbook: wb,
	}, nil
}

func brandSheet(s domain.BrandSheet, position int, opts Options) *simpleexcelv3.Sheet {
	rows := make([][]simpleexcelv3.Cell, len(s.Rows))
	for i, r := range s.Rows {
		row := make([]simpleexcelv3.Cell, len(BrandSheetHeaders))
		row[colBranch] = simpleexcelv3.Value(r.Branch)
		row[colBrand] = simpleexcelv3.Value(r.Brand)
		row[colProduct] = simpleexcelv3.Value(r.RawName)
		row[colCategory] = simpleexcelv3.Value(r.Category)
		row[colBarcode] = simpleexcelv3.Value(r.Barcode)
		row[colAvailable] = quantityCell(r.AvailableQuantity)
		row[colActual] = simpleexcelv3.Value(nil)
		row[colDifference] = simpleexcelv3.Formula(DifferenceFormula(i + 1))
		rows[i] = row
	}

	sheet := newSheet(s.SheetName, position, BrandSheetHeaders, rows, opts)
	unlocked := false
	sheet.Columns[colActual].Locked = &unlocked
	return sheet
}

func summarySheet(summary []domain.SummaryRow, sheets []domain.BrandSheet, opts Options) *simpleexcelv3.Sheet {
	headers := []string{"Product Name"}
	if opts.IncludeSummaryBarcode {
		headers = append(headers, "Barcode")
	}
	headers = append(headers, "Difference")

	rows := make([][]simpleexcelv3.Cell, len(summary))
	for i, p := range summary {
		productCell := fmt.Sprintf("$A%d", i+firstDataRow)
		row := []simpleexcelv3.Cell{simpleexcelv3.Value(p.ProductName)}
		if opts.IncludeSummaryBarcode {
			row = append(row, simpleexcelv3.Value(p.Barcode))
		}
		row = append(row, simpleexcelv3.Formula(SummaryFormula(productCell, p, sheets)))
		rows[i] = row
	}
	return newSheet(SummarySheetName, 0, headers, rows, opts)
}

func allProductsSheet(refs []domain.ProductRef, position int, opts Options) *simpleexcelv3.Sheet {
	rows := make([][]simpleexcelv3.Cell, len(refs))
	for i, ref := range refs {
		rows[i] = []simpleexcelv3.Cell{
			simpleexcelv3.Value(ref.Barcode),
			simpleexcelv3.Value(ref.ProductName),
		}
	}
	return newSheet(AllProductsSheetName, position, []string{"Barcode", "Product Name"}, rows, opts)
}

func newSheet(name string, position int, headers []string, rows [][]simpleexcelv3.Cell, opts Options) *simpleexcelv3.Sheet {
	widths := ColumnWidths(headers, rows, opts.ColumnPadding)
	cols := make([]simpleexcelv3.Column, len(headers))
	for i, h := range headers {
		cols[i] = simpleexcelv3.Column{Header: h, Width: widths[i]}
	}
	return &simpleexcelv3.Sheet{
		Name:         name,
		Position:     position,
		Columns:      cols,
		Rows:         rows,
		FreezeHeader: opts.FreezeHeader,
		AutoFilter:   opts.AutoFilter,
		Protected:    opts.LockReferenceColumns,
	}
}

func quantityCell(q decimal.NullDecimal) simpleexcelv3.Cell {
	if !q.Valid {
		return simpleexcelv3.Value(nil)
	}
	return simpleexcelv3.Value(q.Decimal.InexactFloat64())
}

// ColumnWidths sizes each column to its longest literal value or header,
// whichever is longer, plus padding, capped at simpleexcelv3.MaxColumnWidth.
// Formula cells are not measured.
func ColumnWidths(headers []string, rows [][]simpleexcelv3.Cell, padding int) []float64 {
	widths := make([]float64, len(headers))
	for i, h := range headers {
		longest := utf8.RuneCountInString(h)
		for _, row := range rows {
			if i >= len(row) || row[i].IsFormula() || row[i].Value == nil {
				continue
			}
			if n := utf8.RuneCountInString(fmt.Sprint(row[i].Value)); n > longest {
				longest = n
			}
		}
		widths[i] = math.Min(float64(longest+padding), simpleexcelv3.MaxColumnWidth)
	}
	return widths
}
