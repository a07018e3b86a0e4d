// Package dto defines the HTTP request/response shapes. Monetary
// amounts cross the wire in major units and are converted to integer
// cents at this boundary, never inside the engine.
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"partstock/internal/core/types"
)

// CreateItemRequest is the payload for POST /items.
type CreateItemRequest struct {
	Name          string  `json:"name" binding:"required"`
	CategoryID    string  `json:"categoryId" binding:"required"`
	BrandID       *string `json:"brandId"`
	SKU           *string `json:"sku"`
	TypeLabel     *string `json:"typeLabel"`
	Description   string  `json:"description"`
	SellingPrice  float64 `json:"sellingPrice" binding:"gte=0"`
	LowStockAlert *int    `json:"lowStockAlert"`
	IsLiquid      bool    `json:"isLiquid"`
}

// UpdateItemRequest is the payload for PUT /items/:id. Absent fields
// are left untouched.
type UpdateItemRequest struct {
	Name          *string  `json:"name"`
	CategoryID    *string  `json:"categoryId"`
	BrandID       *string  `json:"brandId"`
	ClearBrand    bool     `json:"clearBrand"`
	SKU           *string  `json:"sku"`
	TypeLabel     *string  `json:"typeLabel"`
	Description   *string  `json:"description"`
	SellingPrice  *float64 `json:"sellingPrice"`
	LowStockAlert *int     `json:"lowStockAlert"`
	IsLiquid      *bool    `json:"isLiquid"`
	BottleOpen    *int     `json:"bottleOpen"`
	BottleClosed  *int     `json:"bottleClosed"`
}

// CreateBatchRequest is the payload for POST /items/:id/batches.
type CreateBatchRequest struct {
	PurchaseDate string     `json:"purchaseDate" binding:"required"` // YYYY-MM-DD
	CostPrice    float64    `json:"costPrice" binding:"gt=0"`
	Quantity     int        `json:"quantity" binding:"gt=0"`
	SupplierID   *string    `json:"supplierId"`
	ExpiresAt    *time.Time `json:"expiresAt"`
}

// UpdateBatchRequest is the payload for PUT /items/:id/batches/:batchId.
// The initial quantity is immutable and deliberately not accepted.
type UpdateBatchRequest struct {
	PurchaseDate  *string    `json:"purchaseDate"` // YYYY-MM-DD
	CostPrice     *float64   `json:"costPrice"`
	CurrentQty    *int       `json:"currentQty"`
	SupplierID    *string    `json:"supplierId"`
	ClearSupplier bool       `json:"clearSupplier"`
	ExpiresAt     *time.Time `json:"expiresAt"`
	ClearExpiry   bool       `json:"clearExpiry"`
}

// BottleCountsRequest is the payload for PUT /items/:id/bottles.
type BottleCountsRequest struct {
	Open   int `json:"open" binding:"gte=0"`
	Closed int `json:"closed" binding:"gte=0"`
}

// VolumeRequest is the payload for volume create/update.
type VolumeRequest struct {
	Size  string  `json:"size" binding:"required"`
	Price float64 `json:"price" binding:"gte=0"`
}

// ReferenceRequest covers category/supplier create and rename.
type ReferenceRequest struct {
	Name string `json:"name" binding:"required"`
}

// BrandRequest covers brand create and update.
type BrandRequest struct {
	Name     string  `json:"name" binding:"required"`
	ImageURL *string `json:"imageUrl"`
}

// ParseDate parses a YYYY-MM-DD wire date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// ToCents converts a major-unit wire amount to cents.
func ToCents(amount float64) types.Cents {
	return types.CentsFromDecimal(decimal.NewFromFloat(amount))
}
