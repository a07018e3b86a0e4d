package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"partstock/internal/infrastructure/http/v1/dto"
)

// ReferencesHandler serves the category, brand and supplier tables.
type ReferencesHandler struct {
	BaseHandler
}

// NewReferencesHandler creates the references handler.
func NewReferencesHandler(base BaseHandler) *ReferencesHandler {
	return &ReferencesHandler{BaseHandler: base}
}

// ListCategories returns the category table.
func (h *ReferencesHandler) ListCategories(c *gin.Context) {
	s, _, err := h.Store(c)
	if err != nil {
		h.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": s.Categories()})
}

// CreateCategory adds a category.
func (h *ReferencesHandler) CreateCategory(c *gin.Context) {
	s, _, err := h.Store(c)
	if err != nil {
		h.Fail(c, err)
		return
	}
	var req dto.ReferenceRequest
	if err := h.BindJSON(c, &req); err != nil {
		h.Fail(c, err)
		return
	}
	created, err := s.AddCategory(c.Request.Context(), req.Name)
	if err != nil {
		h.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateCategory renames a category.
func (h *ReferencesHandler) UpdateCategory(c *gin.Context) {
	s, _, err := h.Store(c)
	if err != nil {
		h.Fail(c, err)
		return
	}
	categoryID, err := h.PathID(c, "id")
	if err != nil {
		h.Fail(c, err)
		return
	}
	var req dto.ReferenceRequest
	if err := h.BindJSON(c, &req); err != nil {
		h.Fail(c, err)
		return
	}
	if err := s.UpdateCategory(c.Request.Context(), categoryID, req.Name); err != nil {
		h.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteCategory removes a category.
func (h *ReferencesHandler) DeleteCategory(c *gin.Context) {
	s, _, err := h.Store(c)
	if err != nil {
		h.Fail(c, err)
		return
	}
	categoryID, err := h.PathID(c, "id")
	if err != nil {
		h.Fail(c, err)
		return
	}
	if err := s.DeleteCategory(c.Request.Context(), categoryID); err != nil {
		h.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListBrands returns the brand table.
func (h *ReferencesHandler) ListBrands(c *gin.Context) {
	s, _, err := h.Store(c)
	if err != nil {
		h.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"brands": s.Brands()})
}

// CreateBrand adds a brand.
func (h *ReferencesHandler) CreateBrand(c *gin.Context) {
	s, _, err := h.Store(c)
	if err != nil {
		h.Fail(c, err)
		return
	}
	var req dto.BrandRequest
	if err := h.BindJSON(c, &req); err != nil {
		h.Fail(c, err)
		return
	}
	created, err := s.AddBrand(c.Request.Context(), req.Name, req.ImageURL)
	if err != nil {
		h.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateBrand renames a brand or replaces its logo url.
func (h *ReferencesHandler) UpdateBrand(c *gin.Context) {
	s, _, err := h.Store(c)
	if err != nil {
		h.Fail(c, err)
		return
	}
	brandID, err := h.PathID(c, "id")
	if err != nil {
		h.Fail(c, err)
		return
	}
	var req dto.BrandRequest
	if err := h.BindJSON(c, &req); err != nil {
		h.Fail(c, err)
		return
	}
	if err := s.UpdateBrand(c.Request.Context(), brandID, req.Name, req.ImageURL); err != nil {
		h.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteBrand removes a brand.
func (h *ReferencesHandler) DeleteBrand(c *gin.Context) {
	s, _, err := h.Store(c)
	if err != nil {
		h.Fail(c, err)
		return
	}
	brandID, err := h.PathID(c, "id")
	if err != nil {
		h.Fail(c, err)
		return
	}
	if err := s.DeleteBrand(c.Request.Context(), brandID); err != nil {
		h.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListSuppliers returns the supplier table.
func (h *ReferencesHandler) ListSuppliers(c *gin.Context) {
	s, _, err := h.Store(c)
	if err != nil {
		h.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suppliers": s.Suppliers()})
}

// CreateSupplier adds a supplier.
func (h *ReferencesHandler) CreateSupplier(c *gin.Context) {
	s, _, err := h.Store(c)
	if err != nil {
		h.Fail(c, err)
		return
	}
	var req dto.ReferenceRequest
	if err := h.BindJSON(c, &req); err != nil {
		h.Fail(c, err)
		return
	}
	created, err := s.AddSupplier(c.Request.Context(), req.Name)
	if err != nil {
		h.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateSupplier renames a supplier.
func (h *ReferencesHandler) UpdateSupplier(c *gin.Context) {
	s, _, err := h.Store(c)
	if err != nil {
		h.Fail(c, err)
		return
	}
	supplierID, err := h.PathID(c, "id")
	if err != nil {
		h.Fail(c, err)
		return
	}
	var req dto.ReferenceRequest
	if err := h.BindJSON(c, &req); err != nil {
		h.Fail(c, err)
		return
	}
	if err := s.UpdateSupplier(c.Request.Context(), supplierID, req.Name); err != nil {
		h.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteSupplier removes a supplier.
func (h *ReferencesHandler) DeleteSupplier(c *gin.Context) {
	s, _, err := h.Store(c)
	if err != nil {
		h.Fail(c, err)
		return
	}
	supplierID, err := h.PathID(c, "id")
	if err != nil {
		h.Fail(c, err)
		return
	}
	if err := s.DeleteSupplier(c.Request.Context(), supplierID); err != nil {
		h.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
