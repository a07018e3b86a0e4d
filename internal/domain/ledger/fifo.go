// Package ledger maintains the FIFO view over an item's purchase
// batches: canonical ordering, consumption-position labels, and age.
// All functions are pure; the catalog store owns the mutation paths.
package ledger

import (
	"fmt"
	"math"
	"sort"
	"time"

	"partstock/internal/domain/catalog"
)

// SortFIFO returns the batches in consumption order: purchase date
// ascending, ties keeping their original relative order. The sort is
// stable, so it is idempotent on an already-ordered list.
func SortFIFO(batches []catalog.Batch) []catalog.Batch {
	sorted := make([]catalog.Batch, len(batches))
	copy(sorted, batches)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PurchaseDate.Before(sorted[j].PurchaseDate)
	})
	return sorted
}

// Position returns the human-readable FIFO position label for the batch
// at index out of total. A single batch needs no label.
func Position(index, total int) string {
	switch {
	case total <= 1:
		return ""
	case index == 0:
		return "Next in line"
	case index == total-1:
		return "Last to use"
	default:
		return fmt.Sprintf("Position %d of %d", index+1, total)
	}
}

// AgeInDays returns the batch age as whole days, rounded up.
//
// The absolute value is used so a purchase date entered in the future
// reports a positive age instead of a negative one; strict date
// validation is deliberately not this package's job.
func AgeInDays(purchaseDate, now time.Time) int {
	diff := now.Sub(purchaseDate).Hours() / 24
	return int(math.Ceil(math.Abs(diff)))
}
