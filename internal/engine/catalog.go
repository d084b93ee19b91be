package engine

import (
	"sort"
	"strings"

	"github.com/locvowork/stockcount/internal/domain"
	"github.com/locvowork/stockcount/pkg/tabular"
	"github.com/shopspring/decimal"
)

// Source column names of the catalog export.
const (
	ColumnName      = "name_ar"
	ColumnBarcode   = "barcodes"
	ColumnAvailable = "available_quantity"
	ColumnBranch    = "branch_name"
)

// RequiredColumns must all be present in the catalog. Brand and category are
// derived from ColumnName and are never read from the source.
var RequiredColumns = []string{ColumnName, ColumnBarcode, ColumnAvailable, ColumnBranch}

// LoadCatalog maps tbl onto catalog rows and derives their facets.
func LoadCatalog(tbl *tabular.Table) ([]domain.CatalogRow, error) {
	idx := make(map[string]int, len(RequiredColumns))
	var missing []string
	for _, col := range RequiredColumns {
		i := tbl.Index(col)
		if i < 0 {
			missing = append(missing, col)
			continue
		}
		idx[col] = i
	}
	if len(missing) > 0 {
		return nil, &domain.SchemaError{Missing: missing}
	}

	rows := make([]domain.CatalogRow, 0, tbl.Len())
	for i := range tbl.Rows {
		name := tbl.Cell(i, idx[ColumnName])
		brand, category := ExtractFacets(name)
		rows = append(rows, domain.CatalogRow{
			RawName:           name,
			Barcode:           strings.TrimSpace(tbl.Cell(i, idx[ColumnBarcode])),
			AvailableQuantity: parseQuantity(tbl.Cell(i, idx[ColumnAvailable])),
			Branch:            strings.TrimSpace(tbl.Cell(i, idx[ColumnBranch])),
			Brand:             brand,
			Category:          category,
		})
	}
	return rows, nil
}

// parseQuantity returns an invalid NullDecimal for blank or non-numeric cells.
func parseQuantity(value string) decimal.NullDecimal {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// FilterRows keeps rows whose brand and branch are both scheduled, sorted by
// product name. Rows with equal names keep their catalog order.
func FilterRows(rows []domain.CatalogRow, set domain.ScheduledSet) []domain.FilteredRow {
	var kept []domain.FilteredRow
	for _, r := range rows {
		if set.HasBrand(r.Brand) && set.HasBranch(r.Branch) {
			kept = append(kept, domain.FilteredRow{CatalogRow: r})
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].RawName < kept[j].RawName
	})
	return kept
}

// DistinctProducts lists each barcode/name pair of the unfiltered catalog
// once, in catalog order.
func DistinctProducts(rows []domain.CatalogRow) []domain.ProductRef {
	seen := make(map[domain.ProductRef]bool, len(rows))
	var refs []domain.ProductRef
	for _, r := range rows {
		ref := domain.ProductRef{Barcode: r.Barcode, ProductName: r.RawName}
		if seen[ref] {
			continue
		}
		seen[ref] = true
		refs = append(refs, ref)
	}
	return refs
}
