// Package memory provides mutex-guarded in-memory implementations of
// the persistence contracts. Used by tests and by dev mode when no
// DATABASE_URL is configured.
package memory

import (
	"context"
	"sync"

	"partstock/internal/core/apperror"
	"partstock/internal/core/id"
	"partstock/internal/domain/catalog"
	"partstock/internal/domain/settlement"
)

// Store holds all repository state in process memory.
type Store struct {
	mu sync.RWMutex

	itemsByBranch map[string]map[id.ID]*catalog.Item
	categories    map[id.ID]catalog.Category
	brands        map[id.ID]catalog.Brand
	suppliers     map[id.ID]catalog.Supplier

	transactionsByRef map[string]*settlement.Transaction
	settlementsByRef  map[string]*settlement.Transaction

	// BeforeFetchItems, when set, runs inside FetchItems before state
	// is read. Tests use it to stall a load and force out-of-order
	// resolution.
	BeforeFetchItems func(ctx context.Context, branchID string) error

	// failNext, when non-nil, fails the next write and is cleared.
	failNext error
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		itemsByBranch:     make(map[string]map[id.ID]*catalog.Item),
		categories:        make(map[id.ID]catalog.Category),
		brands:            make(map[id.ID]catalog.Brand),
		suppliers:         make(map[id.ID]catalog.Supplier),
		transactionsByRef: make(map[string]*settlement.Transaction),
		settlementsByRef:  make(map[string]*settlement.Transaction),
	}
}

// FailNextWrite makes the next mutating call return err.
func (s *Store) FailNextWrite(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = err
}

func (s *Store) consumeFailure() error {
	if s.failNext != nil {
		err := s.failNext
		s.failNext = nil
		return err
	}
	return nil
}

// --- ItemRepository ---

// FetchItems returns deep copies of all items in the branch.
func (s *Store) FetchItems(ctx context.Context, branchID string) ([]catalog.Item, error) {
	if s.BeforeFetchItems != nil {
		if err := s.BeforeFetchItems(ctx, branchID); err != nil {
			return nil, err
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	branch := s.itemsByBranch[branchID]
	out := make([]catalog.Item, 0, len(branch))
	for _, item := range branch {
		out = append(out, *item.Clone())
	}
	return out, nil
}

// CreateItem stores a copy of the item.
func (s *Store) CreateItem(ctx context.Context, item *catalog.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.consumeFailure(); err != nil {
		return err
	}

	branch := s.itemsByBranch[item.BranchID]
	if branch == nil {
		branch = make(map[id.ID]*catalog.Item)
		s.itemsByBranch[item.BranchID] = branch
	}
	branch[item.ID] = item.Clone()
	return nil
}

// UpdateItem replaces the stored item wholesale.
func (s *Store) UpdateItem(ctx context.Context, item *catalog.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.consumeFailure(); err != nil {
		return err
	}

	branch := s.itemsByBranch[item.BranchID]
	if branch == nil || branch[item.ID] == nil {
		return apperror.NewNotFound("item", item.ID)
	}
	branch[item.ID] = item.Clone()
	return nil
}

// DeleteItem removes the item; batches are embedded, so the cascade is
// implicit.
func (s *Store) DeleteItem(ctx context.Context, itemID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.consumeFailure(); err != nil {
		return err
	}

	for _, branch := range s.itemsByBranch {
		if _, ok := branch[itemID]; ok {
			delete(branch, itemID)
			return nil
		}
	}
	return apperror.NewNotFound("item", itemID)
}

// --- ReferenceRepository ---

// FetchCategories returns all categories.
func (s *Store) FetchCategories(ctx context.Context) ([]catalog.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]catalog.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	return out, nil
}

// CreateCategory stores a category.
func (s *Store) CreateCategory(ctx context.Context, c *catalog.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.consumeFailure(); err != nil {
		return err
	}
	s.categories[c.ID] = *c
	return nil
}

// UpdateCategory replaces a category.
func (s *Store) UpdateCategory(ctx context.Context, c *catalog.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.consumeFailure(); err != nil {
		return err
	}
	if _, ok := s.categories[c.ID]; !ok {
		return apperror.NewNotFound("category", c.ID)
	}
	s.categories[c.ID] = *c
	return nil
}

// DeleteCategory removes a category. Items keep their (now dangling)
// reference; that behavior belongs to the persistence layer.
func (s *Store) DeleteCategory(ctx context.Context, categoryID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.consumeFailure(); err != nil {
		return err
	}
	if _, ok := s.categories[categoryID]; !ok {
		return apperror.NewNotFound("category", categoryID)
	}
	delete(s.categories, categoryID)
	return nil
}

// FetchBrands returns all brands.
func (s *Store) FetchBrands(ctx context.Context) ([]catalog.Brand, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]catalog.Brand, 0, len(s.brands))
	for _, b := range s.brands {
		out = append(out, b)
	}
	return out, nil
}

// CreateBrand stores a brand.
func (s *Store) CreateBrand(ctx context.Context, b *catalog.Brand) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.consumeFailure(); err != nil {
		return err
	}
	s.brands[b.ID] = *b
	return nil
}

// UpdateBrand replaces a brand.
func (s *Store) UpdateBrand(ctx context.Context, b *catalog.Brand) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.consumeFailure(); err != nil {
		return err
	}
	if _, ok := s.brands[b.ID]; !ok {
		return apperror.NewNotFound("brand", b.ID)
	}
	s.brands[b.ID] = *b
	return nil
}

// DeleteBrand removes a brand.
func (s *Store) DeleteBrand(ctx context.Context, brandID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.consumeFailure(); err != nil {
		return err
	}
	if _, ok := s.brands[brandID]; !ok {
		return apperror.NewNotFound("brand", brandID)
	}
	delete(s.brands, brandID)
	return nil
}

// FetchSuppliers returns all suppliers.
func (s *Store) FetchSuppliers(ctx context.Context) ([]catalog.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]catalog.Supplier, 0, len(s.suppliers))
	for _, sup := range s.suppliers {
		out = append(out, sup)
	}
	return out, nil
}

// CreateSupplier stores a supplier.
func (s *Store) CreateSupplier(ctx context.Context, sup *catalog.Supplier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.consumeFailure(); err != nil {
		return err
	}
	s.suppliers[sup.ID] = *sup
	return nil
}

// UpdateSupplier replaces a supplier.
func (s *Store) UpdateSupplier(ctx context.Context, sup *catalog.Supplier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.consumeFailure(); err != nil {
		return err
	}
	if _, ok := s.suppliers[sup.ID]; !ok {
		return apperror.NewNotFound("supplier", sup.ID)
	}
	s.suppliers[sup.ID] = *sup
	return nil
}

// DeleteSupplier removes a supplier.
func (s *Store) DeleteSupplier(ctx context.Context, supplierID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.consumeFailure(); err != nil {
		return err
	}
	if _, ok := s.suppliers[supplierID]; !ok {
		return apperror.NewNotFound("supplier", supplierID)
	}
	delete(s.suppliers, supplierID)
	return nil
}

// --- SettlementRepository ---

// PutTransaction seeds a transaction (test/dev helper).
func (s *Store) PutTransaction(tx *settlement.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactionsByRef[tx.ReferenceNumber] = tx
}

// GetTransaction returns the transaction with the given reference.
func (s *Store) GetTransaction(ctx context.Context, referenceNumber string) (*settlement.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tx, ok := s.transactionsByRef[referenceNumber]
	if !ok {
		return nil, apperror.NewNotFound("transaction", referenceNumber)
	}
	dup := *tx
	return &dup, nil
}

// CreateSettlement inserts the settlement if none exists for its
// original reference, mirroring the postgres unique-index behavior.
func (s *Store) CreateSettlement(ctx context.Context, tx *settlement.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.consumeFailure(); err != nil {
		return err
	}

	if tx.OriginalReferenceNumber == nil {
		return apperror.NewValidation("settlement requires an original reference number")
	}
	if _, ok := s.settlementsByRef[*tx.OriginalReferenceNumber]; ok {
		return apperror.NewAlreadySettled(*tx.OriginalReferenceNumber)
	}

	dup := *tx
	s.settlementsByRef[*tx.OriginalReferenceNumber] = &dup
	s.transactionsByRef[tx.ReferenceNumber] = &dup
	return nil
}
