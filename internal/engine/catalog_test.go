package engine

import (
	"errors"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/locvowork/stockcount/internal/domain"
	"github.com/locvowork/stockcount/pkg/tabular"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogTable(rows ...[]string) *tabular.Table {
	return &tabular.Table{
		Columns: []string{"id", "name_ar", "barcodes", "available_quantity", "branch_name"},
		Rows:    rows,
	}
}

func TestLoadCatalog(t *testing.T) {
	tbl := catalogTable(
		[]string{"1", "Acme - Widget - Blue - Tools", " 111 ", "5", "Main"},
		[]string{"2", "Beta - Gadget", "222", "", "North"},
		[]string{"3", "Beta - Thing", "333", "n/a", "North"},
		[]string{"4", "Acme - Bolt", "444", "2.5", " Main "},
	)

	rows, err := LoadCatalog(tbl)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, "Acme", rows[0].Brand)
	assert.Equal(t, "Tools", rows[0].Category)
	assert.Equal(t, "111", rows[0].Barcode)
	require.True(t, rows[0].AvailableQuantity.Valid)
	assert.Equal(t, "5", rows[0].AvailableQuantity.Decimal.String())

	assert.False(t, rows[1].AvailableQuantity.Valid, "blank quantity stays empty")
	assert.False(t, rows[2].AvailableQuantity.Valid, "non-numeric quantity stays empty")
	assert.Equal(t, "2.5", rows[3].AvailableQuantity.Decimal.String())
	assert.Equal(t, "Main", rows[3].Branch, "branch is trimmed like schedule cells")
}

func TestFilterRows_PaddedBranchesMatch(t *testing.T) {
	catalog, err := LoadCatalog(catalogTable([]string{"1", "Acme - Bolt", "111", "1", "Main "}))
	require.NoError(t, err)
	entries, _ := ParseSchedule(&tabular.Table{
		Columns: []string{"Branch", "Date", "Brand"},
		Rows:    [][]string{{" Main ", "2026-10-15", "Acme"}},
	})

	rows := FilterRows(catalog, ActiveSet(entries, reportDate))

	require.Len(t, rows, 1)
	assert.Equal(t, "Main", rows[0].Branch)
}

func TestLoadCatalog_MissingColumns(t *testing.T) {
	tbl := &tabular.Table{Columns: []string{"name_ar", "barcodes", "branch_name"}}

	_, err := LoadCatalog(tbl)

	var schemaErr *domain.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []string{"available_quantity"}, schemaErr.Missing)

	_, err = LoadCatalog(&tabular.Table{Columns: []string{"branch_name"}})
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []string{"name_ar", "barcodes", "available_quantity"}, schemaErr.Missing)
}

func filterFixture() []domain.CatalogRow {
	mk := func(name, branch, barcode string) domain.CatalogRow {
		brand, category := ExtractFacets(name)
		return domain.CatalogRow{RawName: name, Branch: branch, Barcode: barcode, Brand: brand, Category: category}
	}
	return []domain.CatalogRow{
		mk("Acme - Zeta", "Main", "1"),
		mk("Beta - Alpha", "Main", "2"),
		mk("Acme - Alpha", "North", "3"),
		mk("Acme - Alpha", "Main", "4"),
		mk("Gamma - Alpha", "Main", "5"),
		mk("Acme - Alpha", "Main", "6"),
	}
}

func TestFilterRows_ConjunctionAndStableSort(t *testing.T) {
	set := domain.NewScheduledSet(reportDate, []string{"Acme", "Beta"}, []string{"Main"})

	rows := FilterRows(filterFixture(), set)

	var barcodes []string
	for _, r := range rows {
		barcodes = append(barcodes, r.Barcode)
		assert.Nil(t, r.ActualQuantity)
	}
	assert.Equal(t, []string{"4", "6", "1", "2"}, barcodes)

	for i := 1; i < len(rows); i++ {
		assert.LessOrEqual(t, rows[i-1].RawName, rows[i].RawName)
	}
}

func TestFilterRows_EmptySetKeepsNothing(t *testing.T) {
	onlyBrands := domain.NewScheduledSet(reportDate, []string{"Acme"}, nil)
	onlyBranches := domain.NewScheduledSet(reportDate, nil, []string{"Main"})

	assert.Empty(t, FilterRows(filterFixture(), onlyBrands))
	assert.Empty(t, FilterRows(filterFixture(), onlyBranches))
	assert.Empty(t, FilterRows(filterFixture(), domain.ScheduledSet{Date: civil.Date{}}))
}

func TestDistinctProducts(t *testing.T) {
	refs := DistinctProducts([]domain.CatalogRow{
		{RawName: "A", Barcode: "1"},
		{RawName: "B", Barcode: "2"},
		{RawName: "A", Barcode: "1"},
		{RawName: "A", Barcode: "9"},
	})
	assert.Equal(t, []domain.ProductRef{
		{Barcode: "1", ProductName: "A"},
		{Barcode: "2", ProductName: "B"},
		{Barcode: "9", ProductName: "A"},
	}, refs)
}
