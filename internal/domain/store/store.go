// Package store provides the branch-scoped catalog aggregate root.
//
// A Store instance is constructed per branch session and is the only
// component that talks to the persistence repositories. All mutations
// are write-through: the repository call is awaited first and the
// in-memory state is committed only after it succeeds, so a rejected
// write is never user-visible.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"partstock/internal/core/apperror"
	"partstock/internal/core/id"
	"partstock/internal/core/types"
	"partstock/internal/domain"
	"partstock/internal/domain/catalog"
	"partstock/internal/domain/costing"
	"partstock/internal/domain/ledger"
	"partstock/internal/domain/query"
	"partstock/internal/domain/stock"
	"partstock/pkg/logger"
)

// DefaultCallTimeout bounds every repository call issued by the store.
const DefaultCallTimeout = 15 * time.Second

// Config configures a catalog store.
type Config struct {
	Items       domain.ItemRepository
	References  domain.ReferenceRepository
	CallTimeout time.Duration
}

// Store holds the in-memory catalog for the currently loaded branch.
type Store struct {
	items       domain.ItemRepository
	refs        domain.ReferenceRepository
	callTimeout time.Duration

	mu         sync.Mutex
	branchID   string
	generation uint64
	itemList   []catalog.Item
	categories []catalog.Category
	brands     []catalog.Brand
	suppliers  []catalog.Supplier
	names      query.NameIndex
}

// New creates a catalog store. No branch is loaded yet.
func New(cfg Config) *Store {
	timeout := cfg.CallTimeout
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	return &Store{
		items:       cfg.Items,
		refs:        cfg.References,
		callTimeout: timeout,
		names:       query.NewNameIndex(),
	}
}

// --- Branch loading ---

// LoadCatalog fetches the full catalog for branchID and replaces the
// in-memory state wholesale.
//
// Each call advances the branch generation. The fetched data is applied
// only if the captured generation is still current when the fetch
// resolves; otherwise the result is discarded with a STALE_BRANCH error
// so a slow load for a previous branch can never overwrite the catalog
// of the branch the user switched to.
func (s *Store) LoadCatalog(ctx context.Context, branchID string) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.branchID = branchID
	s.mu.Unlock()

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	items, err := s.items.FetchItems(callCtx, branchID)
	if err != nil {
		return s.persistErr("fetch items", err)
	}
	categories, err := s.refs.FetchCategories(callCtx)
	if err != nil {
		return s.persistErr("fetch categories", err)
	}
	brands, err := s.refs.FetchBrands(callCtx)
	if err != nil {
		return s.persistErr("fetch brands", err)
	}
	suppliers, err := s.refs.FetchSuppliers(callCtx)
	if err != nil {
		return s.persistErr("fetch suppliers", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != gen {
		return apperror.NewStaleBranch(branchID, gen, s.generation)
	}

	for i := range items {
		items[i].Batches = ledger.SortFIFO(items[i].Batches)
		stock.Reconcile(&items[i])
	}

	s.itemList = items
	s.categories = categories
	s.brands = brands
	s.suppliers = suppliers
	s.rebuildNamesLocked()

	logger.Info(ctx, "catalog loaded",
		"branch_id", branchID,
		"items", len(items),
		"generation", gen,
	)
	return nil
}

// Branch returns the branch id of the most recent load request.
func (s *Store) Branch() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.branchID
}

// --- Item operations ---

// AddItem validates and persists a new item, then appends it to the
// in-memory list.
func (s *Store) AddItem(ctx context.Context, item *catalog.Item) (*catalog.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item.BranchID = s.branchID
	if item.LowStockAlert == 0 {
		item.LowStockAlert = catalog.DefaultLowStockAlert
	}
	stock.Reconcile(item)

	if err := item.Validate(ctx); err != nil {
		return nil, err
	}

	if err := s.persist(ctx, "create item", func(callCtx context.Context) error {
		return s.items.CreateItem(callCtx, item)
	}); err != nil {
		return nil, err
	}

	s.itemList = append(s.itemList, *item.Clone())
	logger.Info(ctx, "item added", "item_id", item.ID, "name", item.Name)
	return item, nil
}

// ItemPatch carries the editable item fields; nil means "leave as is".
type ItemPatch struct {
	Name          *string
	CategoryID    *id.ID
	BrandID       *id.ID
	ClearBrand    bool
	SKU           *string
	TypeLabel     *string
	Description   *string
	SellingPrice  *types.Cents
	LowStockAlert *int
	IsLiquid      *bool
	BottleOpen    *int
	BottleClosed  *int
}

// UpdateItem applies the patch, re-validates the tracking-mode
// invariant (switching modes clears the other mode's fields),
// reconciles stock, persists, and replaces the in-memory item.
func (s *Store) UpdateItem(ctx context.Context, itemID id.ID, patch ItemPatch) (*catalog.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findItemLocked(itemID)
	if idx < 0 {
		return nil, apperror.NewNotFound("item", itemID)
	}

	draft := s.itemList[idx].Clone()
	applyItemPatch(draft, patch)
	draft.Batches = ledger.SortFIFO(draft.Batches)
	stock.Reconcile(draft)
	draft.Touch()

	if err := draft.Validate(ctx); err != nil {
		return nil, err
	}

	if err := s.persist(ctx, "update item", func(callCtx context.Context) error {
		return s.items.UpdateItem(callCtx, draft)
	}); err != nil {
		return nil, err
	}

	s.itemList[idx] = *draft.Clone()
	logger.Info(ctx, "item updated", "item_id", itemID)
	return draft, nil
}

func applyItemPatch(item *catalog.Item, patch ItemPatch) {
	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.CategoryID != nil {
		item.CategoryID = *patch.CategoryID
	}
	if patch.ClearBrand {
		item.BrandID = nil
	} else if patch.BrandID != nil {
		item.BrandID = patch.BrandID
	}
	if patch.SKU != nil {
		item.SKU = patch.SKU
	}
	if patch.TypeLabel != nil {
		item.TypeLabel = patch.TypeLabel
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.SellingPrice != nil {
		item.SellingPrice = *patch.SellingPrice
	}
	if patch.LowStockAlert != nil {
		item.LowStockAlert = *patch.LowStockAlert
	}
	if patch.IsLiquid != nil && *patch.IsLiquid != item.IsLiquid {
		item.SetLiquid(*patch.IsLiquid)
	}
	if patch.BottleOpen != nil {
		item.BottleState.Open = *patch.BottleOpen
	}
	if patch.BottleClosed != nil {
		item.BottleState.Closed = *patch.BottleClosed
	}
}

// DeleteItem removes the item; owned batches cascade at the
// persistence layer.
func (s *Store) DeleteItem(ctx context.Context, itemID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findItemLocked(itemID)
	if idx < 0 {
		return apperror.NewNotFound("item", itemID)
	}

	if err := s.persist(ctx, "delete item", func(callCtx context.Context) error {
		return s.items.DeleteItem(callCtx, itemID)
	}); err != nil {
		return err
	}

	s.itemList = append(s.itemList[:idx], s.itemList[idx+1:]...)
	logger.Info(ctx, "item deleted", "item_id", itemID)
	return nil
}

// --- Batch operations ---

// BatchDraft carries the fields of a new purchase batch.
type BatchDraft struct {
	PurchaseDate time.Time
	CostPrice    types.Cents
	Quantity     int
	SupplierID   *id.ID
	ExpiresAt    *time.Time
}

// AddBatch receives a purchase lot into a unit-tracked item.
func (s *Store) AddBatch(ctx context.Context, itemID id.ID, draft BatchDraft) (*catalog.Batch, error) {
	var created *catalog.Batch
	err := s.mutateItem(ctx, "add batch", itemID, func(item *catalog.Item) error {
		if item.IsLiquid {
			return apperror.NewTrackingModeConflict(itemID).
				WithDetail("reason", "cannot add batches to a liquid-tracked item")
		}
		b := catalog.NewBatch(itemID, draft.PurchaseDate, draft.CostPrice, draft.Quantity)
		b.SupplierID = draft.SupplierID
		b.ExpiresAt = draft.ExpiresAt
		item.Batches = append(item.Batches, *b)
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "batch added", "item_id", itemID, "batch_id", created.ID, "qty", created.InitialQty)
	return created, nil
}

// BatchPatch carries the editable batch fields. InitialQty is
// immutable after creation and deliberately absent.
type BatchPatch struct {
	PurchaseDate  *time.Time
	CostPrice     *types.Cents
	CurrentQty    *int
	SupplierID    *id.ID
	ClearSupplier bool
	ExpiresAt     *time.Time
	ClearExpiry   bool
}

// UpdateBatch edits a batch and restores the FIFO order.
func (s *Store) UpdateBatch(ctx context.Context, itemID, batchID id.ID, patch BatchPatch) error {
	return s.mutateItem(ctx, "update batch", itemID, func(item *catalog.Item) error {
		idx := item.FindBatch(batchID)
		if idx < 0 {
			return apperror.NewNotFound("batch", batchID)
		}
		b := &item.Batches[idx]
		if patch.PurchaseDate != nil {
			b.PurchaseDate = catalog.DateOnly(*patch.PurchaseDate)
		}
		if patch.CostPrice != nil {
			b.CostPrice = *patch.CostPrice
		}
		if patch.CurrentQty != nil {
			b.CurrentQty = *patch.CurrentQty
		}
		if patch.ClearSupplier {
			b.SupplierID = nil
		} else if patch.SupplierID != nil {
			b.SupplierID = patch.SupplierID
		}
		if patch.ClearExpiry {
			b.ExpiresAt = nil
		} else if patch.ExpiresAt != nil {
			b.ExpiresAt = patch.ExpiresAt
		}
		return nil
	})
}

// DeleteBatch removes a batch and recomputes the owning item's stock
// in the same operation.
func (s *Store) DeleteBatch(ctx context.Context, itemID, batchID id.ID) error {
	return s.mutateItem(ctx, "delete batch", itemID, func(item *catalog.Item) error {
		idx := item.FindBatch(batchID)
		if idx < 0 {
			return apperror.NewNotFound("batch", batchID)
		}
		item.Batches = append(item.Batches[:idx], item.Batches[idx+1:]...)
		return nil
	})
}

// SetBottleCounts edits the open/closed counts of a liquid item.
func (s *Store) SetBottleCounts(ctx context.Context, itemID id.ID, open, closed int) error {
	return s.mutateItem(ctx, "set bottle counts", itemID, func(item *catalog.Item) error {
		if !item.IsLiquid {
			return apperror.NewTrackingModeConflict(itemID).
				WithDetail("reason", "bottle counts apply to liquid-tracked items only")
		}
		item.BottleState = catalog.BottleState{Open: open, Closed: closed}
		return nil
	})
}

// --- Volume operations ---

// AddVolume adds a priced packaging size to a liquid item.
func (s *Store) AddVolume(ctx context.Context, itemID id.ID, size string, price types.Cents) (*catalog.Volume, error) {
	var created *catalog.Volume
	err := s.mutateItem(ctx, "add volume", itemID, func(item *catalog.Item) error {
		if !item.IsLiquid {
			return apperror.NewValidation("volumes apply to liquid-tracked items only").
				WithDetail("item_id", itemID)
		}
		v := catalog.NewVolume(itemID, size, price)
		item.Volumes = append(item.Volumes, *v)
		created = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateVolume edits a volume price entry.
func (s *Store) UpdateVolume(ctx context.Context, itemID, volumeID id.ID, size string, price types.Cents) error {
	return s.mutateItem(ctx, "update volume", itemID, func(item *catalog.Item) error {
		idx := item.FindVolume(volumeID)
		if idx < 0 {
			return apperror.NewNotFound("volume", volumeID)
		}
		item.Volumes[idx].Size = size
		item.Volumes[idx].Price = price
		return nil
	})
}

// DeleteVolume removes a volume price entry.
func (s *Store) DeleteVolume(ctx context.Context, itemID, volumeID id.ID) error {
	return s.mutateItem(ctx, "delete volume", itemID, func(item *catalog.Item) error {
		idx := item.FindVolume(volumeID)
		if idx < 0 {
			return apperror.NewNotFound("volume", volumeID)
		}
		item.Volumes = append(item.Volumes[:idx], item.Volumes[idx+1:]...)
		return nil
	})
}

// mutateItem clones the item, applies fn, restores FIFO order,
// reconciles stock, validates, persists, and only then commits the
// clone to memory.
func (s *Store) mutateItem(ctx context.Context, op string, itemID id.ID, fn func(*catalog.Item) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findItemLocked(itemID)
	if idx < 0 {
		return apperror.NewNotFound("item", itemID)
	}

	draft := s.itemList[idx].Clone()
	if err := fn(draft); err != nil {
		return err
	}

	draft.Batches = ledger.SortFIFO(draft.Batches)
	stock.Reconcile(draft)
	draft.Touch()

	if err := draft.Validate(ctx); err != nil {
		return err
	}

	if err := s.persist(ctx, op, func(callCtx context.Context) error {
		return s.items.UpdateItem(callCtx, draft)
	}); err != nil {
		return err
	}

	s.itemList[idx] = *draft
	return nil
}

// --- Reference tables ---

// AddCategory persists a category and rebuilds the name index.
func (s *Store) AddCategory(ctx context.Context, name string) (*catalog.Category, error) {
	c := catalog.NewCategory(name)
	if err := c.Validate(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist(ctx, "create category", func(callCtx context.Context) error {
		return s.refs.CreateCategory(callCtx, c)
	}); err != nil {
		return nil, err
	}
	s.categories = append(s.categories, *c)
	s.rebuildNamesLocked()
	return c, nil
}

// UpdateCategory renames a category. Items keep their id references;
// display names follow the rebuilt index.
func (s *Store) UpdateCategory(ctx context.Context, categoryID id.ID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.categories {
		if s.categories[i].ID == categoryID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return apperror.NewNotFound("category", categoryID)
	}

	updated := s.categories[idx]
	updated.Name = name
	if err := updated.Validate(ctx); err != nil {
		return err
	}

	if err := s.persist(ctx, "update category", func(callCtx context.Context) error {
		return s.refs.UpdateCategory(callCtx, &updated)
	}); err != nil {
		return err
	}

	s.categories[idx] = updated
	s.rebuildNamesLocked()
	return nil
}

// DeleteCategory removes a category. Items referencing it are not
// cascade-deleted; their reference dangles until re-assigned.
func (s *Store) DeleteCategory(ctx context.Context, categoryID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.categories {
		if s.categories[i].ID == categoryID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return apperror.NewNotFound("category", categoryID)
	}

	if err := s.persist(ctx, "delete category", func(callCtx context.Context) error {
		return s.refs.DeleteCategory(callCtx, categoryID)
	}); err != nil {
		return err
	}

	s.categories = append(s.categories[:idx], s.categories[idx+1:]...)
	s.rebuildNamesLocked()
	return nil
}

// AddBrand persists a brand and rebuilds the name index.
func (s *Store) AddBrand(ctx context.Context, name string, imageURL *string) (*catalog.Brand, error) {
	b := catalog.NewBrand(name)
	b.ImageURL = imageURL
	if err := b.Validate(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist(ctx, "create brand", func(callCtx context.Context) error {
		return s.refs.CreateBrand(callCtx, b)
	}); err != nil {
		return nil, err
	}
	s.brands = append(s.brands, *b)
	s.rebuildNamesLocked()
	return b, nil
}

// UpdateBrand renames a brand or replaces its logo.
func (s *Store) UpdateBrand(ctx context.Context, brandID id.ID, name string, imageURL *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.brands {
		if s.brands[i].ID == brandID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return apperror.NewNotFound("brand", brandID)
	}

	updated := s.brands[idx]
	updated.Name = name
	updated.ImageURL = imageURL
	if err := updated.Validate(ctx); err != nil {
		return err
	}

	if err := s.persist(ctx, "update brand", func(callCtx context.Context) error {
		return s.refs.UpdateBrand(callCtx, &updated)
	}); err != nil {
		return err
	}

	s.brands[idx] = updated
	s.rebuildNamesLocked()
	return nil
}

// DeleteBrand removes a brand.
func (s *Store) DeleteBrand(ctx context.Context, brandID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.brands {
		if s.brands[i].ID == brandID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return apperror.NewNotFound("brand", brandID)
	}

	if err := s.persist(ctx, "delete brand", func(callCtx context.Context) error {
		return s.refs.DeleteBrand(callCtx, brandID)
	}); err != nil {
		return err
	}

	s.brands = append(s.brands[:idx], s.brands[idx+1:]...)
	s.rebuildNamesLocked()
	return nil
}

// AddSupplier persists a supplier and rebuilds the name index.
func (s *Store) AddSupplier(ctx context.Context, name string) (*catalog.Supplier, error) {
	sup := catalog.NewSupplier(name)
	if err := sup.Validate(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist(ctx, "create supplier", func(callCtx context.Context) error {
		return s.refs.CreateSupplier(callCtx, sup)
	}); err != nil {
		return nil, err
	}
	s.suppliers = append(s.suppliers, *sup)
	s.rebuildNamesLocked()
	return sup, nil
}

// UpdateSupplier renames a supplier.
func (s *Store) UpdateSupplier(ctx context.Context, supplierID id.ID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.suppliers {
		if s.suppliers[i].ID == supplierID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return apperror.NewNotFound("supplier", supplierID)
	}

	updated := s.suppliers[idx]
	updated.Name = name
	if err := updated.Validate(ctx); err != nil {
		return err
	}

	if err := s.persist(ctx, "update supplier", func(callCtx context.Context) error {
		return s.refs.UpdateSupplier(callCtx, &updated)
	}); err != nil {
		return err
	}

	s.suppliers[idx] = updated
	s.rebuildNamesLocked()
	return nil
}

// DeleteSupplier removes a supplier.
func (s *Store) DeleteSupplier(ctx context.Context, supplierID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.suppliers {
		if s.suppliers[i].ID == supplierID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return apperror.NewNotFound("supplier", supplierID)
	}

	if err := s.persist(ctx, "delete supplier", func(callCtx context.Context) error {
		return s.refs.DeleteSupplier(callCtx, supplierID)
	}); err != nil {
		return err
	}

	s.suppliers = append(s.suppliers[:idx], s.suppliers[idx+1:]...)
	s.rebuildNamesLocked()
	return nil
}

// --- Read side ---

// Items returns a snapshot copy of the current item list.
func (s *Store) Items() []catalog.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]catalog.Item, len(s.itemList))
	for i := range s.itemList {
		out[i] = *s.itemList[i].Clone()
	}
	return out
}

// Categories returns a snapshot of the category list.
func (s *Store) Categories() []catalog.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]catalog.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// Brands returns a snapshot of the brand list.
func (s *Store) Brands() []catalog.Brand {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]catalog.Brand, len(s.brands))
	copy(out, s.brands)
	return out
}

// Suppliers returns a snapshot of the supplier list.
func (s *Store) Suppliers() []catalog.Supplier {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]catalog.Supplier, len(s.suppliers))
	copy(out, s.suppliers)
	return out
}

// NameIndex returns a copy of the reference-name lookup maps.
func (s *Store) NameIndex() query.NameIndex {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyNamesLocked()
}

// Filtered applies the AND-composed filter to a snapshot of the items.
func (s *Store) Filtered(f query.Filter) []catalog.Item {
	items := s.Items()
	names := s.NameIndex()
	return query.Apply(items, names, f)
}

// BatchView is a batch decorated with its FIFO position and age.
type BatchView struct {
	catalog.Batch
	Position string `json:"position"`
	AgeDays  int    `json:"ageDays"`
}

// ItemView is the derived per-item read model: stock band, weighted
// average cost, margin, and the FIFO-ordered batch views.
type ItemView struct {
	Item          catalog.Item     `json:"item"`
	Band          stock.Band       `json:"band"`
	AverageCost   types.Cents      `json:"averageCost"`
	MarginPercent *decimal.Decimal `json:"marginPercent"`
	Batches       []BatchView      `json:"batches"`
}

// ItemView builds the derived view for one item.
func (s *Store) ItemView(itemID id.ID) (*ItemView, error) {
	s.mu.Lock()
	idx := s.findItemLocked(itemID)
	if idx < 0 {
		s.mu.Unlock()
		return nil, apperror.NewNotFound("item", itemID)
	}
	item := s.itemList[idx].Clone()
	s.mu.Unlock()

	avg := costing.AverageCost(item.Batches)
	now := time.Now().UTC()

	views := make([]BatchView, len(item.Batches))
	for i := range item.Batches {
		views[i] = BatchView{
			Batch:    item.Batches[i],
			Position: ledger.Position(i, len(item.Batches)),
			AgeDays:  ledger.AgeInDays(item.Batches[i].PurchaseDate, now),
		}
	}

	return &ItemView{
		Item:          *item,
		Band:          stock.ClassifyItem(item),
		AverageCost:   avg,
		MarginPercent: costing.MarginPercent(item.SellingPrice, avg),
		Batches:       views,
	}, nil
}

// --- internals ---

func (s *Store) findItemLocked(itemID id.ID) int {
	for i := range s.itemList {
		if s.itemList[i].ID == itemID {
			return i
		}
	}
	return -1
}

func (s *Store) rebuildNamesLocked() {
	names := query.NewNameIndex()
	for i := range s.categories {
		names.Categories[s.categories[i].ID] = s.categories[i].Name
	}
	for i := range s.brands {
		names.Brands[s.brands[i].ID] = s.brands[i].Name
	}
	for i := range s.suppliers {
		names.Suppliers[s.suppliers[i].ID] = s.suppliers[i].Name
	}
	s.names = names
}

func (s *Store) copyNamesLocked() query.NameIndex {
	out := query.NewNameIndex()
	for k, v := range s.names.Categories {
		out.Categories[k] = v
	}
	for k, v := range s.names.Brands {
		out.Brands[k] = v
	}
	for k, v := range s.names.Suppliers {
		out.Suppliers[k] = v
	}
	return out
}

// persist runs a repository call under the store's timeout and maps
// failures to typed errors.
func (s *Store) persist(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	if err := fn(callCtx); err != nil {
		return s.persistErr(op, err)
	}
	return nil
}

func (s *Store) persistErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperror.NewTimeout(op)
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewPersistence(op, err)
}
