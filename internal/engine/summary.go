package engine

import (
	"strings"

	"github.com/locvowork/stockcount/internal/domain"
)

// DedupeProducts returns one summary row per distinct product name, in the
// order products first appear across sheets. Names are compared exactly;
// rows whose names collide ignoring case are marked CaseExact.
func DedupeProducts(sheets []domain.BrandSheet) []domain.SummaryRow {
	index := make(map[string]int)
	folded := make(map[string][]int)
	var rows []domain.SummaryRow
	for _, s := range sheets {
		for _, r := range s.Rows {
			name := r.ProductName()
			i, ok := index[name]
			if !ok {
				i = len(rows)
				index[name] = i
				rows = append(rows, domain.SummaryRow{ProductName: name, Barcode: r.Barcode})
				key := strings.ToLower(name)
				folded[key] = append(folded[key], i)
			}
			if n := len(rows[i].Sheets); n == 0 || rows[i].Sheets[n-1] != s.SheetName {
				rows[i].Sheets = append(rows[i].Sheets, s.SheetName)
			}
		}
	}
	for _, group := range folded {
		if len(group) < 2 {
			continue
		}
		for _, i := range group {
			rows[i].CaseExact = true
		}
	}
	return rows
}
