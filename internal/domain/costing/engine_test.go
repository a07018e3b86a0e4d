package costing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partstock/internal/core/types"
	"partstock/internal/domain/catalog"
)

func batch(cost types.Cents, qty int) catalog.Batch {
	return catalog.Batch{CostPrice: cost, InitialQty: qty, CurrentQty: qty}
}

func TestAverageCost(t *testing.T) {
	tests := []struct {
		name    string
		batches []catalog.Batch
		want    types.Cents
	}{
		{"no batches", nil, 0},
		{"all consumed", []catalog.Batch{{CostPrice: 1000, InitialQty: 5, CurrentQty: 0}}, 0},
		{"single batch", []catalog.Batch{batch(1000, 20)}, 1000},
		{
			// (1000*20 + 1200*10) / 30 = 1066.67 -> 1067
			"weighted across batches",
			[]catalog.Batch{batch(1000, 20), batch(1200, 10)},
			1067,
		},
		{
			"consumed batch carries no weight",
			[]catalog.Batch{batch(1000, 10), {CostPrice: 9900, InitialQty: 50, CurrentQty: 0}},
			1000,
		},
		{
			"partial consumption uses remaining quantity",
			[]catalog.Batch{
				{CostPrice: 1000, InitialQty: 20, CurrentQty: 5},
				{CostPrice: 2000, InitialQty: 10, CurrentQty: 5},
			},
			1500,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AverageCost(tt.batches))
		})
	}
}

func TestMarginPercent(t *testing.T) {
	t.Run("nil when selling price is zero", func(t *testing.T) {
		assert.Nil(t, MarginPercent(0, 1000))
	})

	t.Run("nil when selling price is negative", func(t *testing.T) {
		assert.Nil(t, MarginPercent(-100, 1000))
	})

	t.Run("nil when average cost is zero", func(t *testing.T) {
		assert.Nil(t, MarginPercent(2000, 0))
	})

	t.Run("half margin", func(t *testing.T) {
		got := MarginPercent(2000, 1000)
		require.NotNil(t, got)
		assert.Equal(t, "50", got.String())
	})

	t.Run("rounds half up to two places", func(t *testing.T) {
		// (1500 - 1000) / 1500 * 100 = 33.333...
		got := MarginPercent(1500, 1000)
		require.NotNil(t, got)
		assert.Equal(t, "33.33", got.String())
	})

	t.Run("negative margin when sold below cost", func(t *testing.T) {
		// (1000 - 1250) / 1000 * 100 = -25
		got := MarginPercent(1000, 1250)
		require.NotNil(t, got)
		assert.Equal(t, "-25", got.String())
	})
}
