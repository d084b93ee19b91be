package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/locvowork/stockcount/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/lib/pq"
)

func TestSplitTable(t *testing.T) {
	schema, name := splitTable("products")
	assert.Equal(t, "public", schema)
	assert.Equal(t, "products", name)

	schema, name = splitTable("pos.products")
	assert.Equal(t, "pos", schema)
	assert.Equal(t, "products", name)
}

func TestCatalogRepository_Queries(t *testing.T) {
	repo := NewCatalogRepository(nil, "pos.products")

	query, args, err := repo.columnsQuery().BuildSafe()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT column_name FROM information_schema.columns WHERE table_schema = $1 AND table_name = $2 ORDER BY ordinal_position",
		query)
	assert.Equal(t, []interface{}{"pos", "products"}, args)

	query, args, err = repo.selectQuery([]string{"name_ar", "available_quantity"}).BuildSafe()
	require.NoError(t, err)
	assert.Equal(t, `SELECT "name_ar"::text, "available_quantity"::text FROM "pos"."products"`, query)
	assert.Empty(t, args)
}

func TestPresentColumns(t *testing.T) {
	cols := presentColumns(map[string]bool{
		"branch_name": true,
		"name_ar":     true,
		"price":       true,
	})
	assert.Equal(t, []string{"name_ar", "branch_name"}, cols)
}

// Runs against a live database when CATALOG_TEST_DSN is set.
func TestCatalogRepository_LoadCatalog(t *testing.T) {
	dsn := os.Getenv("CATALOG_TEST_DSN")
	if dsn == "" {
		t.Skip("CATALOG_TEST_DSN not set")
	}
	ctx := context.Background()
	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	defer db.Close()
	// temp tables live on one connection
	db.SetMaxOpenConns(1)

	_, err = db.ExecContext(ctx, `CREATE TEMP TABLE catalog_fixture (
		name_ar text, barcodes text, available_quantity numeric, branch_name text, price numeric)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO catalog_fixture VALUES
		('Acme - Soap - 100g - Bath', '111', 5, 'Downtown', 1.5),
		('Beta - Gel', NULL, NULL, 'Airport', 2)`)
	require.NoError(t, err)

	var schema string
	require.NoError(t, db.QueryRowContext(ctx, "SELECT nspname FROM pg_namespace WHERE oid = pg_my_temp_schema()").Scan(&schema))

	tbl, err := NewCatalogRepository(db, schema+".catalog_fixture").LoadCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, engine.RequiredColumns, tbl.Columns)
	require.Len(t, tbl.Rows, 2)

	rows, err := engine.LoadCatalog(tbl)
	require.NoError(t, err)
	assert.Equal(t, "Acme", rows[0].Brand)
	assert.False(t, rows[1].AvailableQuantity.Valid)
}
