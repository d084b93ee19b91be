package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/locvowork/stockcount/internal/engine"
	"github.com/locvowork/stockcount/internal/logger"
	"github.com/locvowork/stockcount/internal/repository/builder"
	"github.com/locvowork/stockcount/pkg/tabular"
)

const defaultSchema = "public"

// CatalogRepository reads the product catalog from a Postgres table.
type CatalogRepository struct {
	db     *sql.DB
	schema string
	table  string
}

// NewCatalogRepository creates a repository over table, which may be
// schema-qualified ("pos.products").
func NewCatalogRepository(db *sql.DB, table string) *CatalogRepository {
	schema, name := splitTable(table)
	return &CatalogRepository{db: db, schema: schema, table: name}
}

func splitTable(table string) (schema, name string) {
	if i := strings.LastIndex(table, "."); i >= 0 {
		return table[:i], table[i+1:]
	}
	return defaultSchema, table
}

// LoadCatalog returns the required catalog columns the table has. Missing
// columns are left out so the engine reports them as a schema error.
func (r *CatalogRepository) LoadCatalog(ctx context.Context) (*tabular.Table, error) {
	existing, err := r.columns(ctx)
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		return nil, fmt.Errorf("catalog table %s.%s not found", r.schema, r.table)
	}

	cols := presentColumns(existing)
	if len(cols) == 0 {
		return &tabular.Table{}, nil
	}

	query, args, err := r.selectQuery(cols).BuildSafe()
	if err != nil {
		return nil, fmt.Errorf("build catalog query: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	defer rows.Close()

	tbl := &tabular.Table{Columns: cols}
	for rows.Next() {
		values := make([]sql.NullString, len(cols))
		dest := make([]interface{}, len(cols))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}
		record := make([]string, len(cols))
		for i, v := range values {
			record[i] = v.String
		}
		tbl.Rows = append(tbl.Rows, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog: %w", err)
	}

	logger.InfoLog(ctx, "Loaded %d catalog rows from %s.%s", len(tbl.Rows), r.schema, r.table)
	return tbl, nil
}

func (r *CatalogRepository) columns(ctx context.Context) (map[string]bool, error) {
	query, args, err := r.columnsQuery().BuildSafe()
	if err != nil {
		return nil, fmt.Errorf("build column query: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list catalog columns: %w", err)
	}
	defer rows.Close()

	existing := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan column name: %w", err)
		}
		existing[name] = true
	}
	return existing, rows.Err()
}

func (r *CatalogRepository) columnsQuery() *builder.SQLBuilder {
	return builder.NewSQLBuilder().
		Select("column_name").
		From("information_schema.columns").
		Where("table_schema = ?", r.schema).
		Where("table_name = ?", r.table).
		OrderBy("ordinal_position")
}

// selectQuery casts every column to text; quantities are parsed by the engine.
func (r *CatalogRepository) selectQuery(cols []string) *builder.SQLBuilder {
	exprs := make([]string, len(cols))
	for i, c := range cols {
		exprs[i] = builder.QuoteIdent(c) + "::text"
	}
	return builder.NewSQLBuilder().
		Select(exprs...).
		From(builder.QuoteIdent(r.schema + "." + r.table))
}

func presentColumns(existing map[string]bool) []string {
	var cols []string
	for _, c := range engine.RequiredColumns {
		if existing[c] {
			cols = append(cols, c)
		}
	}
	return cols
}
