package engine

import (
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/locvowork/stockcount/internal/domain"
	"github.com/locvowork/stockcount/pkg/tabular"
	"github.com/xuri/excelize/v2"
)

// Schedule columns are positional; header names are ignored.
const (
	scheduleBranchCol = 0
	scheduleDateCol   = 1
	scheduleBrandCol  = 2
)

// Excel serials outside this range are not dates.
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465 // 9999-12-31
)

var scheduleDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/06",
	"1/2/06 15:04",
	"2006/01/02",
	"2006/01/02 15:04:05",
	"02-Jan-2006",
	"2-Jan-06",
	"January 2, 2006",
}

// ParseDate reads a schedule date cell. Time of day is discarded.
func ParseDate(value string) (civil.Date, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return civil.Date{}, false
	}
	for _, layout := range scheduleDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return civil.DateOf(t), true
		}
	}
	if serial, err := strconv.ParseFloat(value, 64); err == nil &&
		serial >= minExcelSerial && serial <= maxExcelSerial {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return civil.DateOf(t), true
		}
	}
	return civil.Date{}, false
}

// ParseSchedule reads the first three columns of tbl as (Branch, Date, Brand).
// Rows with an unreadable date are skipped and reported as ParseErrors.
func ParseSchedule(tbl *tabular.Table) ([]domain.ScheduleEntry, []*domain.ParseError) {
	var (
		entries []domain.ScheduleEntry
		skipped []*domain.ParseError
	)
	for i := range tbl.Rows {
		raw := tbl.Cell(i, scheduleDateCol)
		date, ok := ParseDate(raw)
		if !ok {
			// +2: one for the header row, one for 1-based numbering.
			skipped = append(skipped, &domain.ParseError{Row: i + 2, Value: raw})
			continue
		}
		entries = append(entries, domain.ScheduleEntry{
			Branch: strings.TrimSpace(tbl.Cell(i, scheduleBranchCol)),
			Date:   date,
			Brand:  strings.TrimSpace(tbl.Cell(i, scheduleBrandCol)),
		})
	}
	return entries, skipped
}

// ActiveSet collects the brands and branches of entries dated on date.
func ActiveSet(entries []domain.ScheduleEntry, date civil.Date) domain.ScheduledSet {
	var brands, branches []string
	for _, e := range entries {
		if e.Date != date {
			continue
		}
		brands = append(brands, e.Brand)
		branches = append(branches, e.Branch)
	}
	return domain.NewScheduledSet(date, brands, branches)
}
