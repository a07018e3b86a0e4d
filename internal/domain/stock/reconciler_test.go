package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"partstock/internal/core/id"
	"partstock/internal/domain/catalog"
)

func TestDerive_UnitTracked(t *testing.T) {
	item := catalog.NewItem("main", "Brake Pads", id.New(), 2500)
	item.Batches = []catalog.Batch{
		{InitialQty: 10, CurrentQty: 7},
		{InitialQty: 20, CurrentQty: 20},
		{InitialQty: 5, CurrentQty: 0},
	}

	assert.Equal(t, 27, Derive(item))
}

func TestDerive_LiquidTracked(t *testing.T) {
	item := catalog.NewItem("main", "Engine Oil 5W-30", id.New(), 4500)
	item.SetLiquid(true)
	item.BottleState = catalog.BottleState{Open: 2, Closed: 9}

	assert.Equal(t, 11, Derive(item))
}

func TestDerive_LiquidIgnoresLeftoverBatches(t *testing.T) {
	item := catalog.NewItem("main", "Coolant", id.New(), 1500)
	item.Batches = []catalog.Batch{{InitialQty: 50, CurrentQty: 50}}
	item.IsLiquid = true
	item.BottleState = catalog.BottleState{Open: 1, Closed: 2}

	assert.Equal(t, 3, Derive(item))
}

func TestReconcile_StoresDerivedStock(t *testing.T) {
	item := catalog.NewItem("main", "Air Filter", id.New(), 1200)
	item.Batches = []catalog.Batch{{InitialQty: 8, CurrentQty: 8}}
	item.Stock = 999

	Reconcile(item)

	assert.Equal(t, 8, item.Stock)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		stock int
		alert int
		want  Band
	}{
		{"zero is out of stock", 0, 5, BandOutOfStock},
		{"at threshold is low", 5, 5, BandLowStock},
		{"below threshold is low", 1, 5, BandLowStock},
		{"above threshold is in stock", 6, 5, BandInStock},
		{"zero beats threshold zero", 0, 0, BandOutOfStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.stock, tt.alert))
		})
	}
}

func TestClassifyItem(t *testing.T) {
	item := catalog.NewItem("main", "Wiper Blade", id.New(), 800)
	item.LowStockAlert = 3
	item.Stock = 2

	assert.Equal(t, BandLowStock, ClassifyItem(item))
}
