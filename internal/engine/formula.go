package engine

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/locvowork/stockcount/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Column positions of a brand sheet. Formulas depend on this order.
const (
	colBranch = iota
	colBrand
	colProduct
	colCategory
	colBarcode
	colAvailable
	colActual
	colDifference
)

// BrandSheetHeaders are the header cells of every brand sheet, in column order.
var BrandSheetHeaders = []string{
	colBranch:     "Branch",
	colBrand:      "Brand",
	colProduct:    "Product Name",
	colCategory:   "Category",
	colBarcode:    "Barcode",
	colAvailable:  "Available Quantity",
	colActual:     "Actual Quantity",
	colDifference: "Difference",
}

// MaxFormulaLength is the longest formula spreadsheet software accepts.
const MaxFormulaLength = 8192

// MaxCriterionLength is the longest text SUMIF can match against.
const MaxCriterionLength = 255

// firstDataRow is the spreadsheet row of the first body row; row 1 is the header.
const firstDataRow = 2

func columnLetter(col int) string {
	name, _ := excelize.ColumnNumberToName(col + 1)
	return name
}

// DifferenceFormula returns Actual - Available for body row n (1-based).
func DifferenceFormula(n int) string {
	row := n + firstDataRow - 1
	return fmt.Sprintf("%s%d-%s%d", columnLetter(colActual), row, columnLetter(colAvailable), row)
}

// quoteSheet renders a sheet name for use in a cell reference.
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// lookupCriterion builds a SUMIF criterion matching the text of cell.
// Wildcards in the product name are escaped so they match literally.
func lookupCriterion(cell, product string) string {
	if strings.ContainsAny(product, "*?~") {
		cell = fmt.Sprintf(`SUBSTITUTE(SUBSTITUTE(SUBSTITUTE(%s,"~","~~"),"*","~*"),"?","~?")`, cell)
	}
	return `"="&` + cell
}

// sheetTerm renders the Difference total of one sheet for a product. A sheet
// without a match contributes 0.
type sheetTerm func(sheet domain.BrandSheet) string

// sumIfTerm matches with SUMIF, which ignores letter case.
func sumIfTerm(criterion string) sheetTerm {
	return func(sheet domain.BrandSheet) string {
		products, diffs := sheetRanges(sheet)
		return fmt.Sprintf("SUMIF(%s,%s,%s)", products, criterion, diffs)
	}
}

// exactTerm matches with EXACT, which compares case and has no length limit.
func exactTerm(productCell string) sheetTerm {
	return func(sheet domain.BrandSheet) string {
		products, diffs := sheetRanges(sheet)
		return fmt.Sprintf("SUMPRODUCT(--EXACT(%s,%s),%s)", products, productCell, diffs)
	}
}

func sheetRanges(sheet domain.BrandSheet) (products, diffs string) {
	last := len(sheet.Rows) + firstDataRow - 1
	ref := quoteSheet(sheet.SheetName)
	product := columnLetter(colProduct)
	diff := columnLetter(colDifference)
	products = fmt.Sprintf("%s!$%s$%d:$%s$%d", ref, product, firstDataRow, product, last)
	diffs = fmt.Sprintf("%s!$%s$%d:$%s$%d", ref, diff, firstDataRow, diff, last)
	return products, diffs
}

// SummaryFormula aggregates the Difference of row's product over every brand
// sheet. productCell is the Summary cell holding the product name, e.g. "$A2".
// Products marked CaseExact, or too long for a SUMIF criterion, are matched
// with EXACT. If the formula would exceed MaxFormulaLength it only covers the
// sheets the product was placed on.
func SummaryFormula(productCell string, row domain.SummaryRow, sheets []domain.BrandSheet) string {
	term := sumIfTerm(lookupCriterion(productCell, row.ProductName))
	if row.CaseExact || utf8.RuneCountInString(row.ProductName) > MaxCriterionLength {
		term = exactTerm(productCell)
	}

	formula := sumTerms(sheets, term, nil)
	if len(formula) <= MaxFormulaLength {
		return formula
	}

	only := make(map[string]bool, len(row.Sheets))
	for _, name := range row.Sheets {
		only[name] = true
	}
	return sumTerms(sheets, term, only)
}

func sumTerms(sheets []domain.BrandSheet, term sheetTerm, only map[string]bool) string {
	var terms []string
	for _, s := range sheets {
		if len(s.Rows) == 0 || (only != nil && !only[s.SheetName]) {
			continue
		}
		terms = append(terms, term(s))
	}
	if len(terms) == 0 {
		return "0"
	}
	return strings.Join(terms, "+")
}
