package catalog

import (
	"context"

	"partstock/internal/core/apperror"
	"partstock/internal/core/id"
	"partstock/internal/core/types"
)

// Volume is a priced packaging size for a liquid-tracked item, e.g.
// "1L" or "0.5L". Purely a price list entry; it never affects stock.
type Volume struct {
	ID     id.ID       `db:"id" json:"id"`
	ItemID id.ID       `db:"item_id" json:"itemId"`
	Size   string      `db:"size" json:"size"`
	Price  types.Cents `db:"price" json:"price"`
}

// NewVolume creates a volume price entry.
func NewVolume(itemID id.ID, size string, price types.Cents) *Volume {
	return &Volume{
		ID:     id.New(),
		ItemID: itemID,
		Size:   size,
		Price:  price,
	}
}

// Validate checks volume invariants.
func (v *Volume) Validate(ctx context.Context) error {
	if v.Size == "" {
		return apperror.NewValidation("volume size label is required").
			WithDetail("field", "size")
	}
	if v.Price.IsNegative() {
		return apperror.NewValidation("volume price cannot be negative").
			WithDetail("field", "price")
	}
	return nil
}

// Category groups items for browsing and filtering.
type Category struct {
	ID   id.ID  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// NewCategory creates a category.
func NewCategory(name string) *Category {
	return &Category{ID: id.New(), Name: name}
}

// Validate checks category invariants.
func (c *Category) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("category name is required").
			WithDetail("field", "name")
	}
	return nil
}

// Brand is a manufacturer reference with an optional logo.
type Brand struct {
	ID       id.ID   `db:"id" json:"id"`
	Name     string  `db:"name" json:"name"`
	ImageURL *string `db:"image_url" json:"imageUrl,omitempty"`
}

// NewBrand creates a brand.
func NewBrand(name string) *Brand {
	return &Brand{ID: id.New(), Name: name}
}

// Validate checks brand invariants.
func (b *Brand) Validate(ctx context.Context) error {
	if b.Name == "" {
		return apperror.NewValidation("brand name is required").
			WithDetail("field", "name")
	}
	return nil
}

// Supplier is the purchase source referenced by batches.
type Supplier struct {
	ID   id.ID  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// NewSupplier creates a supplier.
func NewSupplier(name string) *Supplier {
	return &Supplier{ID: id.New(), Name: name}
}

// Validate checks supplier invariants.
func (s *Supplier) Validate(ctx context.Context) error {
	if s.Name == "" {
		return apperror.NewValidation("supplier name is required").
			WithDetail("field", "name")
	}
	return nil
}
