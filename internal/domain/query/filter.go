// Package query provides pure, stateless projections over a catalog's
// item list. Filters compose by logical AND, have no side effects, and
// are safe to call concurrently on the same inputs.
package query

import (
	"strings"

	"partstock/internal/core/id"
	"partstock/internal/domain/catalog"
	"partstock/internal/domain/stock"
)

// AllCategories selects every category in a category filter.
const AllCategories = "all"

// Band values accepted by ByStockBand, mirroring stock.Band plus "all".
const (
	BandAll        = "all"
	BandInStock    = string(stock.BandInStock)
	BandLowStock   = string(stock.BandLowStock)
	BandOutOfStock = string(stock.BandOutOfStock)
)

// NameIndex resolves reference ids to display names. It is rebuilt
// wholesale by the catalog store on every reference mutation.
type NameIndex struct {
	Categories map[id.ID]string
	Brands     map[id.ID]string
	Suppliers  map[id.ID]string
}

// NewNameIndex returns an empty index.
func NewNameIndex() NameIndex {
	return NameIndex{
		Categories: make(map[id.ID]string),
		Brands:     make(map[id.ID]string),
		Suppliers:  make(map[id.ID]string),
	}
}

// CategoryName resolves a category id, returning "" for unknown ids.
func (n NameIndex) CategoryName(catID id.ID) string {
	return n.Categories[catID]
}

// BrandName resolves an optional brand id, returning "" for nil or
// unknown ids.
func (n NameIndex) BrandName(brandID *id.ID) string {
	if brandID == nil {
		return ""
	}
	return n.Brands[*brandID]
}

// Filter bundles the composable criteria applied by Apply.
type Filter struct {
	Text      string
	Category  string // category name or AllCategories
	StockBand string // one of the Band constants
}

// ByText keeps items whose name, brand name, category name, SKU, or
// type label contains the query, case-insensitively. An empty query
// matches everything.
func ByText(items []catalog.Item, names NameIndex, queryText string) []catalog.Item {
	q := strings.ToLower(strings.TrimSpace(queryText))
	if q == "" {
		return items
	}

	out := make([]catalog.Item, 0, len(items))
	for i := range items {
		if matchesText(&items[i], names, q) {
			out = append(out, items[i])
		}
	}
	return out
}

func matchesText(item *catalog.Item, names NameIndex, q string) bool {
	if strings.Contains(strings.ToLower(item.Name), q) {
		return true
	}
	if strings.Contains(strings.ToLower(names.BrandName(item.BrandID)), q) {
		return true
	}
	if strings.Contains(strings.ToLower(names.CategoryName(item.CategoryID)), q) {
		return true
	}
	if item.SKU != nil && strings.Contains(strings.ToLower(*item.SKU), q) {
		return true
	}
	if item.TypeLabel != nil && strings.Contains(strings.ToLower(*item.TypeLabel), q) {
		return true
	}
	return false
}

// ByCategory keeps items whose category display name matches. The
// AllCategories sentinel (or "") keeps everything.
func ByCategory(items []catalog.Item, names NameIndex, categoryName string) []catalog.Item {
	if categoryName == "" || categoryName == AllCategories {
		return items
	}

	out := make([]catalog.Item, 0, len(items))
	for i := range items {
		if names.CategoryName(items[i].CategoryID) == categoryName {
			out = append(out, items[i])
		}
	}
	return out
}

// ByStockBand keeps items in the requested availability band. BandAll
// (or "") keeps everything.
func ByStockBand(items []catalog.Item, band string) []catalog.Item {
	if band == "" || band == BandAll {
		return items
	}

	out := make([]catalog.Item, 0, len(items))
	for i := range items {
		if string(stock.ClassifyItem(&items[i])) == band {
			out = append(out, items[i])
		}
	}
	return out
}

// Apply runs all criteria in the filter, AND-composed.
func Apply(items []catalog.Item, names NameIndex, f Filter) []catalog.Item {
	result := ByText(items, names, f.Text)
	result = ByCategory(result, names, f.Category)
	result = ByStockBand(result, f.StockBand)
	return result
}
