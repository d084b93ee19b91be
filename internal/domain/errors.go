package domain

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
)

// SchemaError is returned when the catalog lacks required columns.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: [%s]", strings.Join(e.Missing, ", "))
}

// EmptyScheduleError is returned when no branch is scheduled on the report
// date, leaving nothing to name the report after.
type EmptyScheduleError struct {
	Date civil.Date
}

func (e *EmptyScheduleError) Error() string {
	return fmt.Sprintf("no branch is scheduled on %s", e.Date)
}

// ParseError describes a schedule row whose date could not be read.
// It never aborts a build; the row is skipped.
type ParseError struct {
	Row   int
	Value string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d: unparseable date %q", e.Row, e.Value)
}
