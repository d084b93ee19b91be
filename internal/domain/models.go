package domain

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// ==================== CATALOG ====================

// CatalogRow is one line of the raw product catalog with its derived facets.
type CatalogRow struct {
	RawName           string              `json:"name_ar"`
	Barcode           string              `json:"barcodes"`
	AvailableQuantity decimal.NullDecimal `json:"available_quantity"`
	Branch            string              `json:"branch_name"`
	Brand             string              `json:"brand"`
	Category          string              `json:"category"`
}

// FilteredRow is a catalog row scheduled for counting on the report date.
// ActualQuantity stays empty; it is filled in by hand in the generated file.
type FilteredRow struct {
	CatalogRow
	ActualQuantity *decimal.Decimal `json:"actual_quantity"`
}

// ProductName is the display name of the row.
func (r FilteredRow) ProductName() string {
	return r.RawName
}

// ==================== SCHEDULE ====================

// ScheduleEntry is one visit: a brand counted at a branch on a date.
// Empty Branch or Brand means the cell was blank.
type ScheduleEntry struct {
	Branch string     `json:"branch"`
	Date   civil.Date `json:"date"`
	Brand  string     `json:"brand"`
}

// ScheduledSet holds the brands and branches active on one date, in the order
// they first appear in the schedule.
type ScheduledSet struct {
	Date     civil.Date `json:"date"`
	Brands   []string   `json:"brands"`
	Branches []string   `json:"branches"`

	brandIndex  map[string]struct{}
	branchIndex map[string]struct{}
}

// NewScheduledSet builds a set for date, deduplicating and dropping blanks.
func NewScheduledSet(date civil.Date, brands, branches []string) ScheduledSet {
	s := ScheduledSet{
		Date:        date,
		brandIndex:  make(map[string]struct{}),
		branchIndex: make(map[string]struct{}),
	}
	for _, b := range brands {
		if _, ok := s.brandIndex[b]; b != "" && !ok {
			s.brandIndex[b] = struct{}{}
			s.Brands = append(s.Brands, b)
		}
	}
	for _, b := range branches {
		if _, ok := s.branchIndex[b]; b != "" && !ok {
			s.branchIndex[b] = struct{}{}
			s.Branches = append(s.Branches, b)
		}
	}
	return s
}

// HasBrand reports whether brand is scheduled.
func (s ScheduledSet) HasBrand(brand string) bool {
	_, ok := s.brandIndex[brand]
	return ok
}

// HasBranch reports whether branch is scheduled.
func (s ScheduledSet) HasBranch(branch string) bool {
	_, ok := s.branchIndex[branch]
	return ok
}

// ==================== REPORT ====================

// BrandSheet is the set of rows counted for one brand, written to its own tab.
type BrandSheet struct {
	Brand     string        `json:"brand"`
	SheetName string        `json:"sheet_name"`
	Rows      []FilteredRow `json:"rows"`
}

// SummaryRow is one distinct product of the report.
type SummaryRow struct {
	ProductName string `json:"product_name"`
	Barcode     string `json:"barcode"`
	// Sheets lists the brand sheets the product appears on.
	Sheets []string `json:"sheets"`
	// CaseExact is set when another product differs from this one only by
	// letter case, so a case-insensitive lookup would merge the two.
	CaseExact bool `json:"case_exact"`
}

// ProductRef is a distinct barcode/name pair of the unfiltered catalog.
type ProductRef struct {
	Barcode     string `json:"barcode"`
	ProductName string `json:"product_name"`
}
