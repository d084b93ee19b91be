package engine

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/locvowork/stockcount/internal/domain"
	"github.com/locvowork/stockcount/pkg/simpleexcelv3"
)

const fallbackSheetName = "Sheet"

var invalidSheetChars = strings.NewReplacer(
	"[", "_", "]", "_", ":", "_", "*", "_", "?", "_", "/", "_", `\`, "_",
)

// SheetName turns a brand into a valid sheet name: forbidden characters are
// replaced and the result is cut to the spreadsheet length limit.
func SheetName(brand string) string {
	name := invalidSheetChars.Replace(brand)
	if strings.HasPrefix(name, "'") {
		name = "_" + name[1:]
	}
	name = truncateRunes(name, simpleexcelv3.MaxSheetNameLength)
	if strings.HasSuffix(name, "'") {
		name = name[:len(name)-1] + "_"
	}
	if strings.TrimSpace(name) == "" {
		return fallbackSheetName
	}
	return name
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

// sheetNamer hands out unique sheet names. Uniqueness is case-insensitive,
// as in spreadsheet software.
type sheetNamer struct {
	taken map[string]bool
}

func newSheetNamer(reserved ...string) *sheetNamer {
	n := &sheetNamer{taken: make(map[string]bool)}
	for _, r := range reserved {
		n.taken[strings.ToLower(r)] = true
	}
	return n
}

func (n *sheetNamer) claim(brand string) string {
	base := SheetName(brand)
	name := base
	for i := 2; n.taken[strings.ToLower(name)]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		name = truncateRunes(base, simpleexcelv3.MaxSheetNameLength-utf8.RuneCountInString(suffix)) + suffix
	}
	n.taken[strings.ToLower(name)] = true
	return name
}

// Partition groups rows by brand. Sheets follow the order in which brands
// first appear in rows; names in reserved are never handed out.
func Partition(rows []domain.FilteredRow, reserved ...string) []domain.BrandSheet {
	namer := newSheetNamer(reserved...)
	index := make(map[string]int)
	var sheets []domain.BrandSheet
	for _, r := range rows {
		i, ok := index[r.Brand]
		if !ok {
			i = len(sheets)
			index[r.Brand] = i
			sheets = append(sheets, domain.BrandSheet{
				Brand:     r.Brand,
				SheetName: namer.claim(r.Brand),
			})
		}
		sheets[i].Rows = append(sheets[i].Rows, r)
	}
	return sheets
}
