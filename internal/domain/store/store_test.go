package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partstock/internal/core/apperror"
	"partstock/internal/core/id"
	"partstock/internal/core/types"
	"partstock/internal/domain/catalog"
	"partstock/internal/domain/query"
	"partstock/internal/domain/store"
	"partstock/internal/infrastructure/storage/memory"
)

func newLoadedStore(t *testing.T) (*store.Store, *memory.Store) {
	t.Helper()
	repo := memory.New()
	s := store.New(store.Config{Items: repo, References: repo})
	require.NoError(t, s.LoadCatalog(context.Background(), "main"))
	return s, repo
}

func addItem(t *testing.T, s *store.Store, name string, price types.Cents) *catalog.Item {
	t.Helper()
	item, err := s.AddItem(context.Background(), catalog.NewItem("", name, id.New(), price))
	require.NoError(t, err)
	return item
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStore_ReceiveAndConsumeLifecycle(t *testing.T) {
	ctx := context.Background()
	s, _ := newLoadedStore(t)

	item := addItem(t, s, "Oil Filter", 2000)

	first, err := s.AddBatch(ctx, item.ID, store.BatchDraft{
		PurchaseDate: date(2026, 1, 10),
		CostPrice:    1000,
		Quantity:     20,
	})
	require.NoError(t, err)

	view, err := s.ItemView(item.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, view.Item.Stock)
	assert.EqualValues(t, 1000, view.AverageCost)
	require.NotNil(t, view.MarginPercent)
	assert.Equal(t, "50", view.MarginPercent.String())

	// A later, costlier delivery shifts the weighted average:
	// (1000*20 + 1200*10) / 30 = 1067.
	_, err = s.AddBatch(ctx, item.ID, store.BatchDraft{
		PurchaseDate: date(2026, 2, 1),
		CostPrice:    1200,
		Quantity:     10,
	})
	require.NoError(t, err)

	view, err = s.ItemView(item.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, view.Item.Stock)
	assert.EqualValues(t, 1067, view.AverageCost)
	require.Len(t, view.Batches, 2)
	assert.Equal(t, first.ID, view.Batches[0].ID)
	assert.Equal(t, "Next in line", view.Batches[0].Position)
	assert.Equal(t, "Last to use", view.Batches[1].Position)

	// Consuming the oldest batch is an explicit quantity edit.
	remaining := 5
	require.NoError(t, s.UpdateBatch(ctx, item.ID, first.ID, store.BatchPatch{CurrentQty: &remaining}))

	view, err = s.ItemView(item.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, view.Item.Stock)

	// Deleting a batch recomputes stock in the same operation.
	require.NoError(t, s.DeleteBatch(ctx, item.ID, first.ID))
	view, err = s.ItemView(item.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, view.Item.Stock)
	assert.Equal(t, "", view.Batches[0].Position, "single batch needs no label")
}

func TestStore_FIFOTieKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s, _ := newLoadedStore(t)
	item := addItem(t, s, "Brake Pads", 3500)

	day := date(2026, 3, 1)
	a, err := s.AddBatch(ctx, item.ID, store.BatchDraft{PurchaseDate: day, CostPrice: 500, Quantity: 1})
	require.NoError(t, err)
	b, err := s.AddBatch(ctx, item.ID, store.BatchDraft{PurchaseDate: day, CostPrice: 600, Quantity: 1})
	require.NoError(t, err)

	view, err := s.ItemView(item.ID)
	require.NoError(t, err)
	require.Len(t, view.Batches, 2)
	assert.Equal(t, a.ID, view.Batches[0].ID)
	assert.Equal(t, b.ID, view.Batches[1].ID)
}

func TestStore_AddBatchRejectedForLiquidItem(t *testing.T) {
	ctx := context.Background()
	s, _ := newLoadedStore(t)

	oil := catalog.NewItem("", "Engine Oil", id.New(), 4500)
	oil.SetLiquid(true)
	item, err := s.AddItem(ctx, oil)
	require.NoError(t, err)

	_, err = s.AddBatch(ctx, item.ID, store.BatchDraft{
		PurchaseDate: date(2026, 1, 1),
		CostPrice:    1000,
		Quantity:     5,
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeTrackingMode, appErr.Code)
}

func TestStore_TrackingModeSwitchClearsOtherMode(t *testing.T) {
	ctx := context.Background()
	s, _ := newLoadedStore(t)
	item := addItem(t, s, "Gear Oil", 3000)

	_, err := s.AddBatch(ctx, item.ID, store.BatchDraft{
		PurchaseDate: date(2026, 1, 1),
		CostPrice:    900,
		Quantity:     12,
	})
	require.NoError(t, err)

	liquid := true
	updated, err := s.UpdateItem(ctx, item.ID, store.ItemPatch{IsLiquid: &liquid})
	require.NoError(t, err)
	assert.True(t, updated.IsLiquid)
	assert.Empty(t, updated.Batches)
	assert.Equal(t, 0, updated.Stock)

	require.NoError(t, s.SetBottleCounts(ctx, item.ID, 2, 9))
	view, err := s.ItemView(item.ID)
	require.NoError(t, err)
	assert.Equal(t, 11, view.Item.Stock)

	// Switching back clears bottle state and volumes.
	unit := false
	updated, err = s.UpdateItem(ctx, item.ID, store.ItemPatch{IsLiquid: &unit})
	require.NoError(t, err)
	assert.True(t, updated.BottleState.IsZero())
	assert.Equal(t, 0, updated.Stock)
}

func TestStore_BottleCountsRejectedForUnitItem(t *testing.T) {
	ctx := context.Background()
	s, _ := newLoadedStore(t)
	item := addItem(t, s, "Air Filter", 1200)

	err := s.SetBottleCounts(ctx, item.ID, 1, 2)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeTrackingMode, appErr.Code)
}

func TestStore_VolumesRequireLiquidMode(t *testing.T) {
	ctx := context.Background()
	s, _ := newLoadedStore(t)
	item := addItem(t, s, "Coolant", 1500)

	_, err := s.AddVolume(ctx, item.ID, "1L", 500)
	require.Error(t, err)

	liquid := true
	_, err = s.UpdateItem(ctx, item.ID, store.ItemPatch{IsLiquid: &liquid})
	require.NoError(t, err)

	vol, err := s.AddVolume(ctx, item.ID, "1L", 500)
	require.NoError(t, err)

	require.NoError(t, s.UpdateVolume(ctx, item.ID, vol.ID, "1L", 550))
	require.NoError(t, s.DeleteVolume(ctx, item.ID, vol.ID))
}

func TestStore_WriteThroughFailureLeavesMemoryUntouched(t *testing.T) {
	ctx := context.Background()
	s, repo := newLoadedStore(t)
	item := addItem(t, s, "Wiper Blade", 800)

	repo.FailNextWrite(errors.New("connection reset"))

	_, err := s.AddBatch(ctx, item.ID, store.BatchDraft{
		PurchaseDate: date(2026, 1, 1),
		CostPrice:    300,
		Quantity:     4,
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodePersistence, appErr.Code)

	view, viewErr := s.ItemView(item.ID)
	require.NoError(t, viewErr)
	assert.Empty(t, view.Batches, "rejected write must not leak into memory")
	assert.Equal(t, 0, view.Item.Stock)
}

func TestStore_RepositoryTimeoutMapsToTimeoutError(t *testing.T) {
	repo := memory.New()
	repo.BeforeFetchItems = func(ctx context.Context, _ string) error {
		<-ctx.Done()
		return ctx.Err()
	}
	s := store.New(store.Config{Items: repo, References: repo, CallTimeout: 20 * time.Millisecond})

	err := s.LoadCatalog(context.Background(), "main")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeTimeout, appErr.Code)
}

func TestStore_StaleBranchLoadIsDiscarded(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	seedA := catalog.NewItem("branch-a", "A Part", id.New(), 100)
	seedB := catalog.NewItem("branch-b", "B Part", id.New(), 200)
	require.NoError(t, repo.CreateItem(ctx, seedA))
	require.NoError(t, repo.CreateItem(ctx, seedB))

	release := make(chan struct{})
	repo.BeforeFetchItems = func(_ context.Context, branchID string) error {
		if branchID == "branch-a" {
			<-release
		}
		return nil
	}

	s := store.New(store.Config{Items: repo, References: repo})

	slowDone := make(chan error, 1)
	go func() {
		slowDone <- s.LoadCatalog(ctx, "branch-a")
	}()

	// The user switches branches while the first load is in flight.
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, s.LoadCatalog(ctx, "branch-b"))

	close(release)
	err := <-slowDone
	require.Error(t, err)
	assert.True(t, apperror.IsStaleBranch(err))

	// The catalog still shows branch B.
	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "B Part", items[0].Name)
	assert.Equal(t, "branch-b", s.Branch())
}

func TestStore_ReferenceRenameReflectsInFilters(t *testing.T) {
	ctx := context.Background()
	s, _ := newLoadedStore(t)

	cat, err := s.AddCategory(ctx, "Filtres")
	require.NoError(t, err)

	item := catalog.NewItem("", "Oil Filter", cat.ID, 900)
	_, err = s.AddItem(ctx, item)
	require.NoError(t, err)

	require.NoError(t, s.UpdateCategory(ctx, cat.ID, "Filters"))

	matched := s.Filtered(query.Filter{Category: "Filters"})
	require.Len(t, matched, 1)
	assert.Equal(t, item.ID, matched[0].ID)

	assert.Empty(t, s.Filtered(query.Filter{Category: "Filtres"}))
}

func TestStore_DeleteItemRemovesIt(t *testing.T) {
	ctx := context.Background()
	s, _ := newLoadedStore(t)
	item := addItem(t, s, "Spark Plug", 600)

	require.NoError(t, s.DeleteItem(ctx, item.ID))

	_, err := s.ItemView(item.ID)
	assert.True(t, apperror.IsNotFound(err))

	err = s.DeleteItem(ctx, item.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestRegistry_KeepsOneStorePerBranch(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	registry := store.NewRegistry(func() *store.Store {
		return store.New(store.Config{Items: repo, References: repo})
	})

	a1, err := registry.ForBranch(ctx, "branch-a")
	require.NoError(t, err)
	a2, err := registry.ForBranch(ctx, "branch-a")
	require.NoError(t, err)
	b, err := registry.ForBranch(ctx, "branch-b")
	require.NoError(t, err)

	assert.Same(t, a1, a2)
	assert.NotSame(t, a1, b)

	_, err = registry.ForBranch(ctx, "")
	require.Error(t, err)
}

func TestRegistry_ConcurrentFirstUseWaitsForLoad(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	seed := catalog.NewItem("branch-a", "Seeded Part", id.New(), 100)
	require.NoError(t, repo.CreateItem(ctx, seed))

	release := make(chan struct{})
	repo.BeforeFetchItems = func(_ context.Context, _ string) error {
		<-release
		return nil
	}

	registry := store.NewRegistry(func() *store.Store {
		return store.New(store.Config{Items: repo, References: repo})
	})

	type result struct {
		store *store.Store
		err   error
	}
	results := make(chan result, 2)
	for i := 0; i < 2; i++ {
		go func() {
			s, err := registry.ForBranch(ctx, "branch-a")
			results <- result{s, err}
		}()
	}

	// Neither caller may come back while the load is still in flight.
	select {
	case <-results:
		t.Fatal("store handed out before catalog load finished")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	first := <-results
	second := <-results
	require.NoError(t, first.err)
	require.NoError(t, second.err)
	assert.Same(t, first.store, second.store)
	assert.Len(t, first.store.Items(), 1, "both callers see the loaded catalog")
	assert.Len(t, second.store.Items(), 1)
}
