package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partstock/internal/core/apperror"
	"partstock/internal/core/id"
)

func TestNewItem_Defaults(t *testing.T) {
	item := NewItem("main", "Spark Plug", id.New(), 600)

	assert.False(t, id.IsNil(item.ID))
	assert.Equal(t, DefaultLowStockAlert, item.LowStockAlert)
	assert.False(t, item.IsLiquid)
	assert.Empty(t, item.Batches)
	assert.Empty(t, item.Volumes)
}

func TestSetLiquid_ClearsOtherModeFields(t *testing.T) {
	t.Run("switching to liquid drops batches", func(t *testing.T) {
		item := NewItem("main", "Gear Oil", id.New(), 3000)
		item.Batches = []Batch{*NewBatch(item.ID, time.Now(), 1000, 5)}

		item.SetLiquid(true)

		assert.True(t, item.IsLiquid)
		assert.Nil(t, item.Batches)
	})

	t.Run("switching to unit drops bottles and volumes", func(t *testing.T) {
		item := NewItem("main", "Gear Oil", id.New(), 3000)
		item.SetLiquid(true)
		item.BottleState = BottleState{Open: 1, Closed: 4}
		item.Volumes = []Volume{*NewVolume(item.ID, "1L", 500)}

		item.SetLiquid(false)

		assert.False(t, item.IsLiquid)
		assert.True(t, item.BottleState.IsZero())
		assert.Nil(t, item.Volumes)
	})
}

func TestItemValidate(t *testing.T) {
	ctx := context.Background()

	valid := func() *Item {
		return NewItem("main", "Cabin Filter", id.New(), 1500)
	}

	t.Run("valid item passes", func(t *testing.T) {
		require.NoError(t, valid().Validate(ctx))
	})

	t.Run("name required", func(t *testing.T) {
		item := valid()
		item.Name = ""
		err := item.Validate(ctx)
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	})

	t.Run("negative selling price rejected", func(t *testing.T) {
		item := valid()
		item.SellingPrice = -1
		assert.Error(t, item.Validate(ctx))
	})

	t.Run("negative low stock alert rejected", func(t *testing.T) {
		item := valid()
		item.LowStockAlert = -1
		assert.Error(t, item.Validate(ctx))
	})

	t.Run("both stock sources rejected", func(t *testing.T) {
		item := valid()
		item.Batches = []Batch{*NewBatch(item.ID, time.Now(), 1000, 5)}
		item.BottleState = BottleState{Closed: 2}

		err := item.Validate(ctx)
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeTrackingMode, appErr.Code)
	})

	t.Run("liquid item with batches rejected", func(t *testing.T) {
		item := valid()
		item.IsLiquid = true
		item.Batches = []Batch{*NewBatch(item.ID, time.Now(), 1000, 5)}
		assert.Error(t, item.Validate(ctx))
	})

	t.Run("unit item with bottle counts rejected", func(t *testing.T) {
		item := valid()
		item.BottleState = BottleState{Open: 1}
		assert.Error(t, item.Validate(ctx))
	})

	t.Run("invalid child batch surfaces", func(t *testing.T) {
		item := valid()
		b := *NewBatch(item.ID, time.Now(), 1000, 5)
		b.CurrentQty = 6
		item.Batches = []Batch{b}
		assert.Error(t, item.Validate(ctx))
	})
}

func TestBatchValidate(t *testing.T) {
	ctx := context.Background()
	itemID := id.New()

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, NewBatch(itemID, time.Now(), 1000, 5).Validate(ctx))
	})

	t.Run("cost must be positive", func(t *testing.T) {
		b := NewBatch(itemID, time.Now(), 0, 5)
		assert.Error(t, b.Validate(ctx))
	})

	t.Run("initial quantity must be positive", func(t *testing.T) {
		b := NewBatch(itemID, time.Now(), 1000, 0)
		assert.Error(t, b.Validate(ctx))
	})

	t.Run("current quantity bounded by initial", func(t *testing.T) {
		b := NewBatch(itemID, time.Now(), 1000, 5)
		b.CurrentQty = -1
		assert.Error(t, b.Validate(ctx))

		b.CurrentQty = 6
		assert.Error(t, b.Validate(ctx))

		b.CurrentQty = 0
		assert.NoError(t, b.Validate(ctx))
	})
}

func TestDateOnly(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	in := time.Date(2026, 5, 10, 1, 30, 0, 0, loc) // 2026-05-09 22:30 UTC

	got := DateOnly(in)

	assert.Equal(t, time.Date(2026, 5, 9, 0, 0, 0, 0, time.UTC), got)
}

func TestClone_IsDeep(t *testing.T) {
	item := NewItem("main", "Oil Filter", id.New(), 900)
	item.Batches = []Batch{*NewBatch(item.ID, time.Now(), 1000, 5)}
	item.Volumes = nil

	dup := item.Clone()
	dup.Batches[0].CurrentQty = 1
	dup.Name = "changed"

	assert.Equal(t, 5, item.Batches[0].CurrentQty)
	assert.Equal(t, "Oil Filter", item.Name)
}
