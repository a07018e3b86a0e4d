// Package domain defines the persistence collaborator contracts the
// catalog store and settlement service depend on. Every call is
// asynchronous from the caller's perspective and treated as fallible;
// the core never assumes success.
package domain

import (
	"context"

	"partstock/internal/core/id"
	"partstock/internal/domain/catalog"
	"partstock/internal/domain/settlement"
)

// ItemRepository persists items and their owned batches and volumes.
type ItemRepository interface {
	// FetchItems returns the full item set for a branch, batches and
	// volumes included.
	FetchItems(ctx context.Context, branchID string) ([]catalog.Item, error)

	CreateItem(ctx context.Context, item *catalog.Item) error

	// UpdateItem replaces the stored item, including its batch list and
	// volumes, in one write.
	UpdateItem(ctx context.Context, item *catalog.Item) error

	// DeleteItem removes the item and cascades to its batches.
	DeleteItem(ctx context.Context, itemID id.ID) error
}

// ReferenceRepository persists the category/brand/supplier lookup tables.
type ReferenceRepository interface {
	FetchCategories(ctx context.Context) ([]catalog.Category, error)
	CreateCategory(ctx context.Context, c *catalog.Category) error
	UpdateCategory(ctx context.Context, c *catalog.Category) error
	DeleteCategory(ctx context.Context, categoryID id.ID) error

	FetchBrands(ctx context.Context) ([]catalog.Brand, error)
	CreateBrand(ctx context.Context, b *catalog.Brand) error
	UpdateBrand(ctx context.Context, b *catalog.Brand) error
	DeleteBrand(ctx context.Context, brandID id.ID) error

	FetchSuppliers(ctx context.Context) ([]catalog.Supplier, error)
	CreateSupplier(ctx context.Context, s *catalog.Supplier) error
	UpdateSupplier(ctx context.Context, s *catalog.Supplier) error
	DeleteSupplier(ctx context.Context, supplierID id.ID) error
}

// SettlementRepository provides the create-if-absent discipline for
// settling deferred transactions exactly once.
type SettlementRepository interface {
	// GetTransaction returns the transaction with the given reference
	// number, or a NOT_FOUND error.
	GetTransaction(ctx context.Context, referenceNumber string) (*settlement.Transaction, error)

	// CreateSettlement inserts the settlement transaction if and only
	// if no settlement exists for its OriginalReferenceNumber, else
	// fails with ALREADY_SETTLED.
	CreateSettlement(ctx context.Context, tx *settlement.Transaction) error
}
