package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"partstock/internal/core/apperror"
	"partstock/internal/core/id"
	"partstock/internal/domain/catalog"
	"partstock/internal/domain/query"
	"partstock/internal/domain/store"
	"partstock/internal/infrastructure/cache"
	"partstock/internal/infrastructure/http/v1/dto"
	"partstock/pkg/logger"
)

// ItemsHandler serves the item catalog: list/detail reads plus item,
// batch, bottle and volume mutations.
type ItemsHandler struct {
	BaseHandler
	cache       cache.SnapshotCache
	snapshotTTL time.Duration
}

// NewItemsHandler creates the items handler.
func NewItemsHandler(base BaseHandler, snapshots cache.SnapshotCache, ttl time.Duration) *ItemsHandler {
	return &ItemsHandler{BaseHandler: base, cache: snapshots, snapshotTTL: ttl}
}

// List returns the item list filtered by the q, category and stockBand
// query parameters. The unfiltered snapshot is served from the snapshot
// cache when one is configured.
func (h *ItemsHandler) List(c *gin.Context) {
	s, branch, err := h.Store(c)
	if err != nil {
		h.Fail(c, err)
		return
	}

	f := query.Filter{
		Text:      c.Query("q"),
		Category:  c.DefaultQuery("category", query.AllCategories),
		StockBand: c.DefaultQuery("stockBand", query.BandAll),
	}

	unfiltered := f.Text == "" && f.Category == query.AllCategories && f.StockBand == query.BandAll
	if unfiltered {
		if payload, ok, cacheErr := h.cache.Get(c.Request.Context(), branch); cacheErr == nil && ok {
			c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
			return
		}
	}

	items := s.Filtered(f)
	body := gin.H{"branch": branch, "items": items, "count": len(items)}

	if unfiltered {
		if payload, marshalErr := json.Marshal(body); marshalErr == nil {
			if cacheErr := h.cache.Set(c.Request.Context(), branch, payload, h.snapshotTTL); cacheErr != nil {
				logger.Warn(c.Request.Context(), "snapshot cache set failed", "error", cacheErr)
			}
		}
	}

	c.JSON(http.StatusOK, body)
}

// Get returns the derived view of one item: stock band, weighted
// average cost, margin, and FIFO-ordered batches.
func (h *ItemsHandler) Get(c *gin.Context) {
	s, _, err := h.Store(c)
	if err != nil {
		h.Fail(c, err)
		return
	}
	itemID, err := h.PathID(c, "id")
	if err != nil {
		h.Fail(c, err)
		return
	}

	view, err := s.ItemView(itemID)
	if err != nil {
		h.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Create adds a new item to the branch catalog.
func (h *ItemsHandler) Create(c *gin.Context) {
	s, branch, err := h.Store(c)
	if err != nil {
		h.Fail(c, err)
		return
	}

	var req dto.CreateItemRequest
	if err := h.BindJSON(c, &req); err != nil {
		h.Fail(c, err)
		return
	}

	categoryID, err := id.Parse(req.CategoryID)
	if err != nil {
		h.Fail(c, apperror.NewValidation("invalid category id").WithDetail("value", req.CategoryID))
		return
	}

	item := catalog.NewItem(branch, req.Name, categoryID, dto.ToCents(req.SellingPrice))
	item.Description = req.Description
	item.SKU = req.SKU
	item.TypeLabel = req.TypeLabel
	if req.LowStockAlert != nil {
		item.LowStockAlert = *req.LowStockAlert
	}
	if req.BrandID != nil {
		brandID, err := id.Parse(*req.BrandID)
		if err != nil {
			h.Fail(c, apperror.NewValidation("invalid brand id").WithDetail("value", *req.BrandID))
			return
		}
		item.BrandID = &brandID
	}
	if req.IsLiquid {
		item.SetLiquid(true)
	}

	created, err := s.AddItem(c.Request.Context(), item)
	if err != nil {
		h.Fail(c, err)
		return
	}

	h.invalidate(c, branch)
	c.JSON(http.StatusCreated, created)
}

// Update applies a partial edit to an item.
func (h *ItemsHandler) Update(c *gin.Context) {
	s, branch, err := h.Store(c)
	if err != nil {
		h.Fail(c, err)
		return
	}
	itemID, err := h.PathID(c, "id")
	if err != nil {
		h.Fail(c, err)
		return
	}

	var req dto.UpdateItemRequest
	if err := h.BindJSON(c, &req); err != nil {
		h.Fail(c, err)
		return
	}

	patch := store.ItemPatch{
		Name:          req.Name,
		SKU:           req.SKU,
		TypeLabel:     req.TypeLabel,
		Description:   req.Description,
		LowStockAlert: req.LowStockAlert,
		IsLiquid:      req.IsLiquid,
		BottleOpen:    req.BottleOpen,
		BottleClosed:  req.BottleClosed,
		ClearBrand:    req.ClearBrand,
	}
	if req.CategoryID != nil {
		categoryID, err := id.Parse(*req.CategoryID)
		if err != nil {
			h.Fail(c, apperror.NewValidation("invalid category id").WithDetail("value", *req.CategoryID))
			return
		}
		patch.CategoryID = &categoryID
	}
	if req.BrandID != nil {
		brandID, err := id.Parse(*req.BrandID)
		if err != nil {
			h.Fail(c, apperror.NewValidation("invalid brand id").WithDetail("value", *req.BrandID))
			return
		}
		patch.BrandID = &brandID
	}
	if req.SellingPrice != nil {
		price := dto.ToCents(*req.SellingPrice)
		patch.SellingPrice = &price
	}

	updated, err := s.UpdateItem(c.Request.Context(), itemID, patch)
	if err != nil {
		h.Fail(c, err)
		return
	}

	h.invalidate(c, branch)
	c.JSON(http.StatusOK, updated)
}

// Delete removes an item and its batches.
func (h *ItemsHandler) Delete(c *gin.Context) {
	s, branch, err := h.Store(c)
	if err != nil {
		h.Fail(c, err)
		return
	}
	itemID, err := h.PathID(c, "id")
	if err != nil {
		h.Fail(c, err)
		return
	}

	if err := s.DeleteItem(c.Request.Context(), itemID); err != nil {
		h.Fail(c, err)
		return
	}

	h.invalidate(c, branch)
	c.Status(http.StatusNoContent)
}

// AddBatch receives a purchase lot into a unit-tracked item.
func (h *ItemsHandler) AddBatch(c *gin.Context) {
	s, branch, err := h.Store(c)
	if err != nil {
		h.Fail(c, err)
		return
	}
	itemID, err := h.PathID(c, "id")
	if err != nil {
		h.Fail(c, err)
		return
	}

	var req dto.CreateBatchRequest
	if err := h.BindJSON(c, &req); err != nil {
		h.Fail(c, err)
		return
	}

	purchaseDate, err := dto.ParseDate(req.PurchaseDate)
	if err != nil {
		h.Fail(c, apperror.NewValidation("invalid purchase date, expected YYYY-MM-DD").
			WithDetail("value", req.PurchaseDate))
		return
	}

	draft := store.BatchDraft{
		PurchaseDate: purchaseDate,
		CostPrice:    dto.ToCents(req.CostPrice),
		Quantity:     req.Quantity,
		ExpiresAt:    req.ExpiresAt,
	}
	if req.SupplierID != nil {
		supplierID, err := id.Parse(*req.SupplierID)
		if err != nil {
			h.Fail(c, apperror.NewValidation("invalid supplier id").WithDetail("value", *req.SupplierID))
			return
		}
		draft.SupplierID = &supplierID
	}

	created, err := s.AddBatch(c.Request.Context(), itemID, draft)
	if err != nil {
		h.Fail(c, err)
		return
	}

	h.invalidate(c, branch)
	c.JSON(http.StatusCreated, created)
}

// UpdateBatch edits a batch.
func (h *ItemsHandler) UpdateBatch(c *gin.Context) {
	s, branch, err := h.Store(c)
	if err != nil {
		h.Fail(c, err)
		return
	}
	itemID, err := h.PathID(c, "id")
	if err != nil {
		h.Fail(c, err)
		return
	}
	batchID, err := h.PathID(c, "batchId")
	if err != nil {
		h.Fail(c, err)
		return
	}

	var req dto.UpdateBatchRequest
	if err := h.BindJSON(c, &req); err != nil {
		h.Fail(c, err)
		return
	}

	patch := store.BatchPatch{
		CurrentQty:    req.CurrentQty,
		ClearSupplier: req.ClearSupplier,
		ExpiresAt:     req.ExpiresAt,
		ClearExpiry:   req.ClearExpiry,
	}
	if req.PurchaseDate != nil {
		purchaseDate, err := dto.ParseDate(*req.PurchaseDate)
		if err != nil {
			h.Fail(c, apperror.NewValidation("invalid purchase date, expected YYYY-MM-DD").
				WithDetail("value", *req.PurchaseDate))
			return
		}
		patch.PurchaseDate = &purchaseDate
	}
	if req.CostPrice != nil {
		cost := dto.ToCents(*req.CostPrice)
		patch.CostPrice = &cost
	}
	if req.SupplierID != nil {
		supplierID, err := id.Parse(*req.SupplierID)
		if err != nil {
			h.Fail(c, apperror.NewValidation("invalid supplier id").WithDetail("value", *req.SupplierID))
			return
		}
		patch.SupplierID = &supplierID
	}

	if err := s.UpdateBatch(c.Request.Context(), itemID, batchID, patch); err != nil {
		h.Fail(c, err)
		return
	}

	h.invalidate(c, branch)
	c.Status(http.StatusNoContent)
}

// DeleteBatch removes a batch; the owning item's stock is recomputed
// in the same operation.
func (h *ItemsHandler) DeleteBatch(c *gin.Context) {
	s, branch, err := h.Store(c)
	if err != nil {
		h.Fail(c, err)
		return
	}
	itemID, err := h.PathID(c, "id")
	if err != nil {
		h.Fail(c, err)
		return
	}
	batchID, err := h.PathID(c, "batchId")
	if err != nil {
		h.Fail(c, err)
		return
	}

	if err := s.DeleteBatch(c.Request.Context(), itemID, batchID); err != nil {
		h.Fail(c, err)
		return
	}

	h.invalidate(c, branch)
	c.Status(http.StatusNoContent)
}

// SetBottles sets the open/closed bottle counts of a liquid item.
func (h *ItemsHandler) SetBottles(c *gin.Context) {
	s, branch, err := h.Store(c)
	if err != nil {
		h.Fail(c, err)
		return
	}
	itemID, err := h.PathID(c, "id")
	if err != nil {
		h.Fail(c, err)
		return
	}

	var req dto.BottleCountsRequest
	if err := h.BindJSON(c, &req); err != nil {
		h.Fail(c, err)
		return
	}

	if err := s.SetBottleCounts(c.Request.Context(), itemID, req.Open, req.Closed); err != nil {
		h.Fail(c, err)
		return
	}

	h.invalidate(c, branch)
	c.Status(http.StatusNoContent)
}

// AddVolume adds a priced packaging size to a liquid item.
func (h *ItemsHandler) AddVolume(c *gin.Context) {
	s, branch, err := h.Store(c)
	if err != nil {
		h.Fail(c, err)
		return
	}
	itemID, err := h.PathID(c, "id")
	if err != nil {
		h.Fail(c, err)
		return
	}

	var req dto.VolumeRequest
	if err := h.BindJSON(c, &req); err != nil {
		h.Fail(c, err)
		return
	}

	created, err := s.AddVolume(c.Request.Context(), itemID, req.Size, dto.ToCents(req.Price))
	if err != nil {
		h.Fail(c, err)
		return
	}

	h.invalidate(c, branch)
	c.JSON(http.StatusCreated, created)
}

// UpdateVolume edits a volume price entry.
func (h *ItemsHandler) UpdateVolume(c *gin.Context) {
	s, branch, err := h.Store(c)
	if err != nil {
		h.Fail(c, err)
		return
	}
	itemID, err := h.PathID(c, "id")
	if err != nil {
		h.Fail(c, err)
		return
	}
	volumeID, err := h.PathID(c, "volumeId")
	if err != nil {
		h.Fail(c, err)
		return
	}

	var req dto.VolumeRequest
	if err := h.BindJSON(c, &req); err != nil {
		h.Fail(c, err)
		return
	}

	if err := s.UpdateVolume(c.Request.Context(), itemID, volumeID, req.Size, dto.ToCents(req.Price)); err != nil {
		h.Fail(c, err)
		return
	}

	h.invalidate(c, branch)
	c.Status(http.StatusNoContent)
}

// DeleteVolume removes a volume price entry.
func (h *ItemsHandler) DeleteVolume(c *gin.Context) {
	s, branch, err := h.Store(c)
	if err != nil {
		h.Fail(c, err)
		return
	}
	itemID, err := h.PathID(c, "id")
	if err != nil {
		h.Fail(c, err)
		return
	}
	volumeID, err := h.PathID(c, "volumeId")
	if err != nil {
		h.Fail(c, err)
		return
	}

	if err := s.DeleteVolume(c.Request.Context(), itemID, volumeID); err != nil {
		h.Fail(c, err)
		return
	}

	h.invalidate(c, branch)
	c.Status(http.StatusNoContent)
}

// Reload forces a fresh catalog load for the branch.
func (h *ItemsHandler) Reload(c *gin.Context) {
	branch := c.Query("branch")
	if branch == "" {
		branch = h.defaultBranch
	}
	if _, err := h.registry.Reload(c.Request.Context(), branch); err != nil {
		h.Fail(c, err)
		return
	}
	h.invalidate(c, branch)
	c.JSON(http.StatusOK, gin.H{"branch": branch, "reloaded": true})
}

func (h *ItemsHandler) invalidate(c *gin.Context, branch string) {
	if err := h.cache.Invalidate(c.Request.Context(), branch); err != nil {
		logger.Warn(c.Request.Context(), "snapshot cache invalidate failed",
			"branch_id", branch,
			"error", err,
		)
	}
}
