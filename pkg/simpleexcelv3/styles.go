package simpleexcelv3

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

// DefaultLockedColor fills locked data cells on protected sheets.
const DefaultLockedColor = "E0E0E0"

// StyleTemplate defines basic styling. It is usually loaded from YAML.
type StyleTemplate struct {
	Font      *FontTemplate      `yaml:"font"`
	Fill      *FillTemplate      `yaml:"fill"`
	Alignment *AlignmentTemplate `yaml:"alignment"`
	Locked    *bool              `yaml:"locked"`
}

type AlignmentTemplate struct {
	Horizontal string `yaml:"horizontal"` // center, left, right
	Vertical   string `yaml:"vertical"`   // top, center, bottom
}

type FontTemplate struct {
	Bold  bool   `yaml:"bold"`
	Color string `yaml:"color"` // Hex color
}

type FillTemplate struct {
	Color string `yaml:"color"` // Hex color
}

// DefaultHeaderStyle is a bold header with no fill.
func DefaultHeaderStyle() *StyleTemplate {
	return &StyleTemplate{Font: &FontTemplate{Bold: true}}
}

// resolveStyle layers base over fallback field by field and applies the lock
// flag. Locked cells without an explicit fill are grayed out.
func resolveStyle(base, fallback *StyleTemplate, locked *bool) *StyleTemplate {
	s := &StyleTemplate{}
	switch {
	case base != nil:
		*s = *base
		if fallback != nil {
			if s.Font == nil {
				s.Font = fallback.Font
			}
			if s.Fill == nil {
				s.Fill = fallback.Fill
			}
			if s.Alignment == nil {
				s.Alignment = fallback.Alignment
			}
		}
	case fallback != nil:
		*s = *fallback
	}

	if locked != nil {
		s.Locked = locked
		if *locked && s.Fill == nil {
			s.Fill = &FillTemplate{Color: DefaultLockedColor}
		}
	}
	return s
}

func createStyle(f *excelize.File, tmpl *StyleTemplate) (int, error) {
	if tmpl == nil {
		return 0, nil
	}

	style := &excelize.Style{}
	if tmpl.Font != nil {
		style.Font = &excelize.Font{
			Bold:  tmpl.Font.Bold,
			Color: strings.TrimPrefix(tmpl.Font.Color, "#"),
		}
	}
	if tmpl.Fill != nil {
		style.Fill = excelize.Fill{
			Type:    "pattern",
			Color:   []string{strings.TrimPrefix(tmpl.Fill.Color, "#")},
			Pattern: 1,
		}
	}
	if tmpl.Alignment != nil {
		style.Alignment = &excelize.Alignment{
			Horizontal: tmpl.Alignment.Horizontal,
			Vertical:   tmpl.Alignment.Vertical,
		}
	}
	if tmpl.Locked != nil {
		style.Protection = &excelize.Protection{Locked: *tmpl.Locked}
	}
	return f.NewStyle(style)
}
