package catalog

import (
	"context"
	"time"

	"partstock/internal/core/apperror"
	"partstock/internal/core/id"
	"partstock/internal/core/types"
)

// Batch is one purchase lot of a unit-tracked item with its own cost
// basis and remaining quantity. Batches are consumed oldest-first.
type Batch struct {
	ID     id.ID `db:"id" json:"id"`
	ItemID id.ID `db:"item_id" json:"itemId"`

	// PurchaseDate is a calendar date; the time component is always
	// truncated to midnight UTC.
	PurchaseDate time.Time `db:"purchase_date" json:"purchaseDate"`

	CostPrice types.Cents `db:"cost_price" json:"costPrice"`

	// InitialQty is immutable after creation.
	InitialQty int `db:"initial_qty" json:"initialQty"`

	// CurrentQty only changes through explicit batch edits; sales do
	// not auto-consume it (see DESIGN.md).
	CurrentQty int `db:"current_qty" json:"currentQty"`

	SupplierID *id.ID     `db:"supplier_id" json:"supplierId,omitempty"`
	ExpiresAt  *time.Time `db:"expires_at" json:"expiresAt,omitempty"`
}

// NewBatch creates a batch with the full initial quantity remaining.
func NewBatch(itemID id.ID, purchaseDate time.Time, costPrice types.Cents, qty int) *Batch {
	return &Batch{
		ID:           id.New(),
		ItemID:       itemID,
		PurchaseDate: DateOnly(purchaseDate),
		CostPrice:    costPrice,
		InitialQty:   qty,
		CurrentQty:   qty,
	}
}

// Validate checks batch invariants.
func (b *Batch) Validate(ctx context.Context) error {
	if !b.CostPrice.IsPositive() {
		return apperror.NewValidation("cost price must be positive").
			WithDetail("field", "costPrice").
			WithDetail("batch_id", b.ID)
	}
	if b.InitialQty <= 0 {
		return apperror.NewValidation("initial quantity must be positive").
			WithDetail("field", "initialQty").
			WithDetail("batch_id", b.ID)
	}
	if b.CurrentQty < 0 {
		return apperror.NewValidation("current quantity cannot be negative").
			WithDetail("field", "currentQty").
			WithDetail("batch_id", b.ID)
	}
	if b.CurrentQty > b.InitialQty {
		return apperror.NewValidation("current quantity cannot exceed initial quantity").
			WithDetail("field", "currentQty").
			WithDetail("batch_id", b.ID).
			WithDetail("initial_qty", b.InitialQty)
	}
	return nil
}

// DateOnly strips the time component, keeping a UTC calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
