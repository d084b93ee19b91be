package builder

import (
	"fmt"
	"strings"
)

// SQLBuilder constructs SELECT queries for lib/pq, turning "?" markers
// into $n placeholders.
type SQLBuilder struct {
	table   string
	columns []string
	where   []string
	args    []interface{}
	orderBy []string
}

// NewSQLBuilder creates a new instance of SQLBuilder.
func NewSQLBuilder() *SQLBuilder {
	return &SQLBuilder{}
}

// Select specifies the columns to retrieve.
func (b *SQLBuilder) Select(cols ...string) *SQLBuilder {
	b.columns = cols
	return b
}

// From specifies the table to select from.
func (b *SQLBuilder) From(table string) *SQLBuilder {
	b.table = table
	return b
}

// Where adds a condition, joined to the others with AND.
func (b *SQLBuilder) Where(condition string, args ...interface{}) *SQLBuilder {
	b.where = append(b.where, condition)
	b.args = append(b.args, args...)
	return b
}

// OrderBy adds an ORDER BY term.
func (b *SQLBuilder) OrderBy(order string) *SQLBuilder {
	b.orderBy = append(b.orderBy, order)
	return b
}

// Build constructs the final SQL string and arguments.
func (b *SQLBuilder) Build() (string, []interface{}) {
	var sb strings.Builder

	cols := "*"
	if len(b.columns) > 0 {
		cols = strings.Join(b.columns, ", ")
	}
	sb.WriteString("SELECT ")
	sb.WriteString(cols)
	sb.WriteString(" FROM ")
	sb.WriteString(b.table)

	if len(b.where) > 0 {
		sb.WriteString(" WHERE ")
		argIndex := 1
		parts := strings.Split(strings.Join(b.where, " AND "), "?")
		for i, part := range parts {
			sb.WriteString(part)
			if i < len(parts)-1 {
				sb.WriteString(fmt.Sprintf("$%d", argIndex))
				argIndex++
			}
		}
	}

	if len(b.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(b.orderBy, ", "))
	}

	return sb.String(), b.args
}

// BuildSafe is Build plus a check that every placeholder has an argument.
func (b *SQLBuilder) BuildSafe() (string, []interface{}, error) {
	sql, args := b.Build()
	placeholders := strings.Count(strings.Join(b.where, " AND "), "?")
	if placeholders != len(args) {
		return "", nil, fmt.Errorf("placeholder count (%d) does not match argument count (%d)", placeholders, len(args))
	}
	return sql, args, nil
}

// QuoteIdent quotes a possibly schema-qualified identifier ("schema.table").
func QuoteIdent(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = `"` + strings.ReplaceAll(p, `"`, `""`) + `"`
	}
	return strings.Join(parts, ".")
}
