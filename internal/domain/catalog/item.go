// Package catalog provides the entity model for the branch-scoped
// inventory catalog: sellable items, their purchase batches, liquid
// bottle counts, and retail volume price entries.
package catalog

import (
	"context"
	"time"

	"partstock/internal/core/apperror"
	"partstock/internal/core/id"
	"partstock/internal/core/types"
)

// DefaultLowStockAlert is the reorder threshold applied when none is set.
const DefaultLowStockAlert = 5

// BottleState holds open/closed bulk-liquid counts used instead of
// batches for oil-type products.
type BottleState struct {
	Open   int `db:"bottles_open" json:"open"`
	Closed int `db:"bottles_closed" json:"closed"`
}

// Total returns the stock contribution of the bottle counts.
func (b BottleState) Total() int {
	return b.Open + b.Closed
}

// IsZero reports whether both counts are zero.
func (b BottleState) IsZero() bool {
	return b.Open == 0 && b.Closed == 0
}

// Item represents a sellable product in a branch catalog.
//
// An item is tracked in exactly one of two modes, decided by IsLiquid:
// unit-tracked items carry purchase batches, liquid-tracked items carry
// bottle counts plus an optional volume price list. The Stock field is
// always re-derived from the active mode, never edited directly.
type Item struct {
	ID       id.ID  `db:"id" json:"id"`
	BranchID string `db:"branch_id" json:"branchId"`

	Name        string      `db:"name" json:"name"`
	CategoryID  id.ID       `db:"category_id" json:"categoryId"`
	BrandID     *id.ID      `db:"brand_id" json:"brandId,omitempty"`
	SKU         *string     `db:"sku" json:"sku,omitempty"`
	TypeLabel   *string     `db:"type_label" json:"typeLabel,omitempty"`
	Description string      `db:"description" json:"description,omitempty"`
	SellingPrice types.Cents `db:"selling_price" json:"sellingPrice"`

	// LowStockAlert is the per-item reorder threshold (default 5).
	LowStockAlert int `db:"low_stock_alert" json:"lowStockAlert"`

	IsLiquid    bool        `db:"is_liquid" json:"isLiquid"`
	BottleState BottleState `json:"bottleState"`

	Batches []Batch  `db:"-" json:"batches"`
	Volumes []Volume `db:"-" json:"volumes"`

	// Stock is derived: batch quantities for unit-tracked items,
	// open+closed bottles for liquid-tracked items.
	Stock int `db:"stock" json:"stock"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewItem creates an item with zero batches and a cleared bottle state.
func NewItem(branchID, name string, categoryID id.ID, sellingPrice types.Cents) *Item {
	now := time.Now().UTC()
	return &Item{
		ID:            id.New(),
		BranchID:      branchID,
		Name:          name,
		CategoryID:    categoryID,
		SellingPrice:  sellingPrice,
		LowStockAlert: DefaultLowStockAlert,
		Batches:       make([]Batch, 0),
		Volumes:       make([]Volume, 0),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// SetLiquid switches tracking mode and clears the other mode's
// stock-contributing fields so stock stays single-sourced.
func (i *Item) SetLiquid(liquid bool) {
	i.IsLiquid = liquid
	if liquid {
		i.Batches = nil
	} else {
		i.BottleState = BottleState{}
		i.Volumes = nil
	}
}

// Touch updates the modification timestamp.
func (i *Item) Touch() {
	i.UpdatedAt = time.Now().UTC()
}

// Validate checks item invariants.
func (i *Item) Validate(ctx context.Context) error {
	if i.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}

	if i.SellingPrice.IsNegative() {
		return apperror.NewValidation("selling price cannot be negative").
			WithDetail("field", "sellingPrice")
	}

	if i.LowStockAlert < 0 {
		return apperror.NewValidation("low stock alert cannot be negative").
			WithDetail("field", "lowStockAlert")
	}

	if i.BottleState.Open < 0 || i.BottleState.Closed < 0 {
		return apperror.NewValidation("bottle counts cannot be negative").
			WithDetail("field", "bottleState")
	}

	// Tracking-mode exclusivity: stock must have exactly one source.
	if len(i.Batches) > 0 && i.BottleState.Total() > 0 {
		return apperror.NewTrackingModeConflict(i.ID)
	}
	if i.IsLiquid && len(i.Batches) > 0 {
		return apperror.NewTrackingModeConflict(i.ID).
			WithDetail("reason", "liquid item carries batches")
	}
	if !i.IsLiquid && i.BottleState.Total() > 0 {
		return apperror.NewTrackingModeConflict(i.ID).
			WithDetail("reason", "unit-tracked item carries bottle counts")
	}

	for idx := range i.Batches {
		if err := i.Batches[idx].Validate(ctx); err != nil {
			return err
		}
	}
	for idx := range i.Volumes {
		if err := i.Volumes[idx].Validate(ctx); err != nil {
			return err
		}
	}

	return nil
}

// FindBatch returns the index of a batch by id, or -1.
func (i *Item) FindBatch(batchID id.ID) int {
	for idx := range i.Batches {
		if i.Batches[idx].ID == batchID {
			return idx
		}
	}
	return -1
}

// FindVolume returns the index of a volume entry by id, or -1.
func (i *Item) FindVolume(volumeID id.ID) int {
	for idx := range i.Volumes {
		if i.Volumes[idx].ID == volumeID {
			return idx
		}
	}
	return -1
}

// Clone returns a deep copy. Store mutations work on clones so a
// rejected persistence call never leaks into the committed state.
func (i *Item) Clone() *Item {
	dup := *i
	if i.Batches != nil {
		dup.Batches = make([]Batch, len(i.Batches))
		copy(dup.Batches, i.Batches)
	}
	if i.Volumes != nil {
		dup.Volumes = make([]Volume, len(i.Volumes))
		copy(dup.Volumes, i.Volumes)
	}
	return &dup
}
