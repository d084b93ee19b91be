// Package engine turns a catalog and a visit schedule into the layout of a
// stock-count workbook.
package engine

import "strings"

// FacetDelimiter separates the segments of a catalog product name.
const FacetDelimiter = "-"

const categorySegment = 3

// ExtractFacets derives the brand (first segment) and category (fourth
// segment) of a product name. Missing segments yield empty strings.
func ExtractFacets(rawName string) (brand, category string) {
	if rawName == "" {
		return "", ""
	}
	parts := strings.Split(rawName, FacetDelimiter)
	brand = strings.TrimSpace(parts[0])
	if len(parts) > categorySegment {
		category = strings.TrimSpace(parts[categorySegment])
	}
	return brand, category
}
