// Package stock is the single source of truth for an item's stock
// count and its availability classification. Every mutation path in the
// catalog store funnels through Reconcile; no call site recomputes
// stock inline.
package stock

import (
	"partstock/internal/domain/catalog"
)

// Band classifies an item's availability for filtering and alerts.
type Band string

const (
	BandInStock    Band = "in-stock"
	BandLowStock   Band = "low-stock"
	BandOutOfStock Band = "out-of-stock"
)

// Derive computes the stock count from the item's active tracking mode:
// sum of remaining batch quantities for unit-tracked items, open+closed
// bottles for liquid-tracked ones.
func Derive(item *catalog.Item) int {
	if item.IsLiquid {
		return item.BottleState.Total()
	}
	total := 0
	for i := range item.Batches {
		total += item.Batches[i].CurrentQty
	}
	return total
}

// Reconcile re-derives and stores the item's stock. It must run
// synchronously inside the same operation that changed the underlying
// quantities; the classification shown to users reads this field.
func Reconcile(item *catalog.Item) {
	item.Stock = Derive(item)
}

// Classify maps a stock count to its availability band using the
// item's low-stock threshold.
func Classify(stockCount, lowStockAlert int) Band {
	switch {
	case stockCount == 0:
		return BandOutOfStock
	case stockCount <= lowStockAlert:
		return BandLowStock
	default:
		return BandInStock
	}
}

// ClassifyItem classifies an item by its derived stock.
func ClassifyItem(item *catalog.Item) Band {
	return Classify(item.Stock, item.LowStockAlert)
}
