// Package costing computes the economic metrics displayed per item:
// weighted-average cost over remaining batch quantities and the profit
// margin against the selling price.
package costing

import (
	"github.com/shopspring/decimal"

	"partstock/internal/core/types"
	"partstock/internal/domain/catalog"
)

// AverageCost returns the quantity-weighted average cost of the given
// batches in cents: sum(cost*qty)/sum(qty). Empty input or a zero total
// quantity yields zero.
func AverageCost(batches []catalog.Batch) types.Cents {
	var totalQty int64
	totalCost := decimal.Zero

	for i := range batches {
		qty := int64(batches[i].CurrentQty)
		if qty == 0 {
			continue
		}
		totalQty += qty
		totalCost = totalCost.Add(decimal.NewFromInt(int64(batches[i].CostPrice)).Mul(decimal.NewFromInt(qty)))
	}

	if totalQty == 0 {
		return 0
	}

	avg := totalCost.Div(decimal.NewFromInt(totalQty)).Round(0)
	return types.Cents(avg.IntPart())
}

// MarginPercent returns the profit margin as a percentage of the
// selling price, rounded half-up to 2 places.
//
// Nil is returned when no meaningful margin exists: zero/negative
// selling price or zero/negative average cost (which includes the
// no-batches case).
func MarginPercent(sellingPrice, avgCost types.Cents) *decimal.Decimal {
	if !sellingPrice.IsPositive() || !avgCost.IsPositive() {
		return nil
	}

	selling := sellingPrice.Decimal()
	margin := selling.Sub(avgCost.Decimal()).
		Div(selling).
		Mul(decimal.NewFromInt(100))
	rounded := types.Round2(margin)
	return &rounded
}
