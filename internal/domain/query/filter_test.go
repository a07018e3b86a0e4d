package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partstock/internal/core/id"
	"partstock/internal/domain/catalog"
)

type fixture struct {
	items []catalog.Item
	names NameIndex

	oilFilter  id.ID
	brakePads  id.ID
	engineOil  id.ID
	filtersCat id.ID
	brakesCat  id.ID
	oilsCat    id.ID
}

func newFixture() fixture {
	f := fixture{names: NewNameIndex()}

	f.filtersCat = id.New()
	f.brakesCat = id.New()
	f.oilsCat = id.New()
	f.names.Categories[f.filtersCat] = "Filters"
	f.names.Categories[f.brakesCat] = "Brakes"
	f.names.Categories[f.oilsCat] = "Oils"

	bosch := id.New()
	brembo := id.New()
	f.names.Brands[bosch] = "Bosch"
	f.names.Brands[brembo] = "Brembo"

	sku := "FLT-001"
	grade := "5W-30"

	oilFilter := catalog.NewItem("main", "Oil Filter", f.filtersCat, 900)
	oilFilter.BrandID = &bosch
	oilFilter.SKU = &sku
	oilFilter.Stock = 12

	brakePads := catalog.NewItem("main", "Brake Pads", f.brakesCat, 3500)
	brakePads.BrandID = &brembo
	brakePads.LowStockAlert = 5
	brakePads.Stock = 3

	engineOil := catalog.NewItem("main", "Engine Oil", f.oilsCat, 4500)
	engineOil.TypeLabel = &grade
	engineOil.Stock = 0

	f.oilFilter = oilFilter.ID
	f.brakePads = brakePads.ID
	f.engineOil = engineOil.ID
	f.items = []catalog.Item{*oilFilter, *brakePads, *engineOil}
	return f
}

func ids(items []catalog.Item) []id.ID {
	out := make([]id.ID, len(items))
	for i := range items {
		out[i] = items[i].ID
	}
	return out
}

func TestByText(t *testing.T) {
	f := newFixture()

	t.Run("empty query matches everything", func(t *testing.T) {
		assert.Len(t, ByText(f.items, f.names, ""), 3)
		assert.Len(t, ByText(f.items, f.names, "   "), 3)
	})

	t.Run("matches name case-insensitively", func(t *testing.T) {
		got := ByText(f.items, f.names, "BRAKE")
		require.Len(t, got, 1)
		assert.Equal(t, f.brakePads, got[0].ID)
	})

	t.Run("matches brand name", func(t *testing.T) {
		got := ByText(f.items, f.names, "bosch")
		require.Len(t, got, 1)
		assert.Equal(t, f.oilFilter, got[0].ID)
	})

	t.Run("matches category name", func(t *testing.T) {
		got := ByText(f.items, f.names, "filters")
		require.Len(t, got, 1)
		assert.Equal(t, f.oilFilter, got[0].ID)
	})

	t.Run("matches sku", func(t *testing.T) {
		got := ByText(f.items, f.names, "flt-001")
		require.Len(t, got, 1)
		assert.Equal(t, f.oilFilter, got[0].ID)
	})

	t.Run("matches type label", func(t *testing.T) {
		got := ByText(f.items, f.names, "5w-30")
		require.Len(t, got, 1)
		assert.Equal(t, f.engineOil, got[0].ID)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, ByText(f.items, f.names, "windshield"))
	})
}

func TestByCategory(t *testing.T) {
	f := newFixture()

	t.Run("all sentinel keeps everything", func(t *testing.T) {
		assert.Len(t, ByCategory(f.items, f.names, AllCategories), 3)
		assert.Len(t, ByCategory(f.items, f.names, ""), 3)
	})

	t.Run("filters by display name", func(t *testing.T) {
		got := ByCategory(f.items, f.names, "Brakes")
		require.Len(t, got, 1)
		assert.Equal(t, f.brakePads, got[0].ID)
	})

	t.Run("unknown category matches nothing", func(t *testing.T) {
		assert.Empty(t, ByCategory(f.items, f.names, "Electrical"))
	})
}

func TestByStockBand(t *testing.T) {
	f := newFixture()

	t.Run("all sentinel keeps everything", func(t *testing.T) {
		assert.Len(t, ByStockBand(f.items, BandAll), 3)
	})

	t.Run("in stock", func(t *testing.T) {
		got := ByStockBand(f.items, BandInStock)
		assert.Equal(t, []id.ID{f.oilFilter}, ids(got))
	})

	t.Run("low stock", func(t *testing.T) {
		got := ByStockBand(f.items, BandLowStock)
		assert.Equal(t, []id.ID{f.brakePads}, ids(got))
	})

	t.Run("out of stock", func(t *testing.T) {
		got := ByStockBand(f.items, BandOutOfStock)
		assert.Equal(t, []id.ID{f.engineOil}, ids(got))
	})
}

func TestApply_CriteriaCompose(t *testing.T) {
	f := newFixture()

	got := Apply(f.items, f.names, Filter{
		Text:      "oil",
		Category:  "Filters",
		StockBand: BandInStock,
	})
	require.Len(t, got, 1)
	assert.Equal(t, f.oilFilter, got[0].ID)

	// Same text, conflicting band: intersection is empty.
	got = Apply(f.items, f.names, Filter{
		Text:      "oil",
		Category:  "Filters",
		StockBand: BandOutOfStock,
	})
	assert.Empty(t, got)
}
